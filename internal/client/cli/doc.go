// Package cli provides the interactive gophdrive command-line client.
//
// It wires configuration, the SQLite session store, the REST API client, the
// flow controllers and an interactive REPL. The REPL always sits on one
// screen (a ui.Route); commands drive the auth and file controllers, which in
// turn navigate, notify and confirm through the console implementations in
// this package.
//
// Key features:
//   - Register, verify the emailed code, resend it
//   - Login / Logout, forgot and reset password, account activation links
//   - List, upload, download and delete files, show stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the ui package for details.
package cli
