package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
)

// List re-enters the dashboard, which fetches and prints the list.
func (a *App) List(ctx context.Context, _ []string) error {
	a.Navigate(ui.Location{Route: ui.RouteDashboard})
	return nil
}

// Upload sends the first given path.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: upload <path> [path...]")
		return nil
	}
	if len(args) > 1 {
		a.log.Debug(ctx, "extra upload paths ignored", "count", len(args)-1)
	}
	if err := a.files.Upload(ctx, args); err != nil {
		return err
	}
	a.showFiles()
	return nil
}

// Download fetches a file by id or list position (#2 or 2).
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: download <id|#n>")
		return nil
	}
	where, err := a.files.Download(ctx, a.resolveID(args[0]))
	if err != nil {
		return err
	}
	if !strings.Contains(where, "://") {
		fmt.Fprintf(a.out, "Saved to %s\n", where)
	}
	return nil
}

// Delete removes a file by id or list position after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <id|#n>")
		return nil
	}
	before := len(a.files.Files())
	if err := a.files.Delete(ctx, a.resolveID(args[0])); err != nil {
		return err
	}
	if len(a.files.Files()) != before {
		a.showFiles()
	}
	return nil
}

// Stats prints count and total size of the current list.
func (a *App) Stats(_ context.Context, _ []string) error {
	printStats(a.out, a.files.Stats())
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	return a.files.Logout(ctx)
}

// resolveID maps a list position to a record id. Anything that is already
// a known id, or not a valid position, is returned unchanged.
func (a *App) resolveID(ref string) string {
	if _, ok := a.files.Lookup(ref); ok {
		return ref
	}
	n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return ref
	}
	files := a.files.Files()
	if n < 1 || n > len(files) {
		return ref
	}
	return files[n-1].ID
}
