// Package session persists the signed-in user's token and display profile
// between client runs.
package session

import "context"

// Persisted keys.
const (
	KeyToken     = "token"
	KeyUserName  = "userName"
	KeyUserEmail = "userEmail"
)

// Session is the persisted login. Empty fields are absent keys.
type Session struct {
	Token     string
	UserName  string
	UserEmail string
}

// Authenticated reports whether a token is present. The token is never
// checked for expiry locally; the server decides.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is a small string key/value store. Get returns "" for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Load reads all session keys at once.
	Load(ctx context.Context) (Session, error)
	// SaveLogin writes token, name and email together. An empty field
	// deletes its key instead of storing "".
	SaveLogin(ctx context.Context, s Session) error
	// Clear removes token, name and email together.
	Clear(ctx context.Context) error
}
