package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	currentRoute() ui.Route
	settle(ctx context.Context)

	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Resend(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Activate(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: register, login [email], forgot [email], reset <token>, activate <token>, open <path>, exit"
	helpVerify    = "Available commands: verify <code>, resend, register, login, exit"
	helpSignedIn  = "Available commands: (l)ist, upload <path>, download <id|#n>, delete <id|#n>, stats, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the gophdrive client.
//
// It reads a line from reader, parses the first token as the command and the
// rest as its arguments, and dispatches to methods on 'a'. After every
// command the current screen is settled, running its on-enter action if a
// navigation happened. The loop exits on EOF or when the user types "exit"
// or "quit".
//
// Prompt & Commands
//
// The prompt shows the current screen and user (from statusFn) and accepts:
//
//	Signed out:
//	  - register              create an account
//	  - verify <code>         confirm the emailed code (after register)
//	  - resend                send a new code
//	  - login [email]         sign in
//	  - forgot [email]        request a password reset link
//	  - reset <token>         choose a new password
//	  - activate <token>      activate an account from an email link
//	  - open <path>           jump to a screen, e.g. /activate/<token>
//
//	Signed in:
//	  - list | l              fetch and show files
//	  - upload <path>         upload a file
//	  - download <id|#n>      save or open a file
//	  - delete <id|#n>        delete a file after confirmation
//	  - stats                 count and total size
//	  - whoami                show the signed-in user
//	  - logout                sign out
//
//	Always: help, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers report
// through notifications.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("gd %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isLoggedIn():
				printlnFn(helpSignedIn)
			case a.currentRoute() == ui.RouteVerifyOTP:
				printlnFn(helpVerify)
			default:
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx, args)

		case "verify":
			_ = a.Verify(ctx, args)

		case "resend":
			_ = a.Resend(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "forgot":
			_ = a.Forgot(ctx, args)

		case "reset":
			_ = a.Reset(ctx, args)

		case "activate":
			_ = a.Activate(ctx, args)

		case "open":
			_ = a.Open(ctx, args)

		case "whoami":
			_ = a.Whoami(ctx, args)

		case "l", "list":
			_ = a.List(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "stats":
			_ = a.Stats(ctx, args)

		case "logout":
			_ = a.Logout(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.settle(ctx)
	}
}
