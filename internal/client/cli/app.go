package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/client/services"
	"github.com/dmitrijs2005/gophdrive/internal/client/session"
	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// App is the interactive client. It is the ui.Navigator of both flow
// controllers: navigation moves the REPL to another screen, and entering a
// screen runs its on-enter action (fetching the list, activating, ...).
type App struct {
	config  *config.Config
	auth    services.AuthService
	files   services.FileService
	store   session.Store
	closers []io.Closer
	log     logging.Logger
	notify  ui.Notifier
	reader  *bufio.Reader
	out     io.Writer

	mu      sync.Mutex
	loc     ui.Location
	entered bool
	otp     services.OTPInput
}

var _ ui.Navigator = (*App)(nil)

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := logging.NewTextLogger(os.Stderr, level)

	store, err := session.OpenSQLite(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error initializing session database", "path", c.SessionDBPath, "error", err)
		return nil, err
	}

	tokens := func(ctx context.Context) (string, error) {
		return store.Get(ctx, session.KeyToken)
	}
	api := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, tokens, log)

	reader := bufio.NewReader(os.Stdin)
	notify := &consoleNotifier{w: os.Stdout}
	a := &App{
		config:  c,
		store:   store,
		closers: []io.Closer{api, store},
		log:     log,
		notify:  notify,
		reader:  reader,
		out:     os.Stdout,
	}

	u := services.UI{
		Nav:      a,
		Notify:   notify,
		Confirm:  consoleConfirmer{reader: reader, w: os.Stdout},
		Open:     browserOpener{w: os.Stdout},
		Schedule: timerScheduler{},
	}
	a.auth = services.NewAuthService(api, store, u, log)
	a.files = services.NewFileService(api, store, u, c.DownloadDir, log)

	return a, nil
}

// Run opens the configured start screen and blocks in the REPL until the
// user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to gophdrive (type 'help' for commands)")
	a.open(ctx, a.config.StartPath)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(context.Background(), "close", "error", err)
		}
	}
}

// Navigate switches the current screen. The on-enter action runs on the
// next settle, i.e. after the command that navigated has returned.
func (a *App) Navigate(to ui.Location) {
	a.mu.Lock()
	a.loc = to
	a.entered = false
	a.mu.Unlock()

	fmt.Fprintf(a.out, "-> %s\n", to.Path())
}

func (a *App) location() ui.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loc
}

func (a *App) currentRoute() ui.Route {
	return a.location().Route
}

// open resolves a path such as /activate/<token> and enters it.
func (a *App) open(ctx context.Context, path string) {
	a.Navigate(ui.ParsePath(path))
	a.settle(ctx)
}

// maxRedirects bounds chained on-enter navigations (home -> login, ...).
const maxRedirects = 5

// settle runs on-enter actions until the current screen stops changing.
func (a *App) settle(ctx context.Context) {
	for i := 0; i < maxRedirects; i++ {
		a.mu.Lock()
		if a.entered {
			a.mu.Unlock()
			return
		}
		a.entered = true
		loc := a.loc
		a.mu.Unlock()

		a.enter(ctx, loc)
	}
}

func (a *App) enter(ctx context.Context, loc ui.Location) {
	switch loc.Route {
	case ui.RouteHome:
		if a.isLoggedIn() {
			a.Navigate(ui.Location{Route: ui.RouteDashboard})
		} else {
			a.Navigate(ui.Location{Route: ui.RouteLogin})
		}

	case ui.RouteDashboard:
		if err := a.files.Refresh(ctx); err == nil {
			a.showFiles()
		}

	case ui.RouteVerifyOTP:
		email, err := a.auth.BeginVerification(loc.State)
		if err != nil {
			return
		}
		a.otp.Set("")
		fmt.Fprintf(a.out, "Enter the %d-digit code sent to %s with 'verify <code>'. Code expires in %d minutes.\n",
			common.OTPLength, email, int(common.OTPTTL.Minutes()))
		fmt.Fprintln(a.out, "Didn't get it? Type 'resend'.")

	case ui.RouteActivate:
		fmt.Fprintln(a.out, "Activating your account...")
		if err := a.auth.Activate(ctx, loc.Token); err != nil {
			fmt.Fprintf(a.out, "Activation failed: %s\nType 'register' to go back to registration.\n", a.auth.ActivationMessage())
		}

	case ui.RouteResetPassword:
		fmt.Fprintln(a.out, "Type 'reset' to choose a new password.")

	case ui.RouteLogin:
		if !a.isLoggedIn() {
			fmt.Fprintln(a.out, "Type 'login' to sign in, 'register' to create an account or 'forgot' to reset your password.")
		}
	}
}

func (a *App) isLoggedIn() bool {
	s, err := a.store.Load(context.Background())
	if err != nil {
		a.log.Warn(context.Background(), "load session", "error", err)
		return false
	}
	return s.Authenticated()
}

func (a *App) getStatus() string {
	s := a.location().Path()
	if sess, err := a.store.Load(context.Background()); err == nil && sess.Authenticated() {
		name := sess.UserName
		if name == "" {
			name = sess.UserEmail
		}
		if name != "" {
			s = fmt.Sprintf("%s (%s)", s, name)
		}
	}
	return s
}

func (a *App) showFiles() {
	printFiles(a.out, a.files.Files())
	printStats(a.out, a.files.Stats())
}
