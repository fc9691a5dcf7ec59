package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileColumns = []string{"id", "user_id", "file_name", "file_size", "content_type", "storage_key", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`^INSERT INTO files \(id, user_id, file_name, file_size, content_type, storage_key\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\) RETURNING created_at$`).
		WithArgs("f1", "u1", "a.txt", int64(12), "text/plain", "users/u1/f1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	f := &models.File{ID: "f1", UserID: "u1", FileName: "a.txt", FileSize: 12, ContentType: "text/plain", StorageKey: "users/u1/f1"}
	require.NoError(t, repo.Create(context.Background(), f))
	assert.Equal(t, created, f.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT INTO files`).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.File{ID: "f1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: boom")
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	t1 := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`from files WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(fileColumns).
			AddRow("f2", "u1", "b.txt", int64(2), "", "k2", t1).
			AddRow("f1", "u1", "a.txt", int64(1), "text/plain", "k1", t2))

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "f2", got[0].ID)
	assert.Equal(t, &models.File{ID: "f1", UserID: "u1", FileName: "a.txt", FileSize: 1, ContentType: "text/plain", StorageKey: "k1", CreatedAt: t2}, got[1])
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`from files WHERE user_id=\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(fileColumns))

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByUser_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`from files`).WillReturnError(errors.New("down"))

		_, err := repo.ListByUser(context.Background(), "u1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to select files")
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`from files`).
			WillReturnRows(sqlmock.NewRows(fileColumns).AddRow("f1", "u1", "a", "not-a-number", "", "k", time.Now()))

		_, err := repo.ListByUser(context.Background(), "u1")
		require.Error(t, err)
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`from files`).
			WillReturnRows(sqlmock.NewRows(fileColumns).
				AddRow("f1", "u1", "a", int64(1), "", "k", time.Now()).
				RowError(0, errors.New("row broke")))

		_, err := repo.ListByUser(context.Background(), "u1")
		require.Error(t, err)
	})
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`from files WHERE id=\$1`).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows(fileColumns).AddRow("f1", "u1", "a.txt", int64(3), "", "k1", created))
	mock.ExpectQuery(`from files WHERE id=\$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	f, err := repo.Get(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "k1", f.StorageKey)

	_, err = repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^delete from files where id=\$1$`).WithArgs("f1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^delete from files`).WithArgs("f2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^delete from files`).WithArgs("f3").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`^delete from files`).WithArgs("f4").WillReturnError(errors.New("down"))
	mock.ExpectExec(`^delete from files`).WithArgs("f5").WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))

	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, "f1"))
	assert.ErrorIs(t, repo.Delete(ctx, "f2"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(ctx, "f3"), "wrong rows affected count: 2")
	assert.ErrorContains(t, repo.Delete(ctx, "f4"), "failed to delete file")
	assert.ErrorContains(t, repo.Delete(ctx, "f5"), "failed to get rows affected")
	require.NoError(t, mock.ExpectationsWereMet())
}
