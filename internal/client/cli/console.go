package cli

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
	"github.com/pkg/browser"
)

// consoleNotifier prints notifications as single tagged lines.
type consoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *consoleNotifier) Notify(level ui.Level, msg string) {
	tag := "info"
	switch level {
	case ui.LevelSuccess:
		tag = "ok"
	case ui.LevelError:
		tag = "error"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", tag, msg)
}

// consoleConfirmer asks y/N questions on the shared reader.
type consoleConfirmer struct {
	reader *bufio.Reader
	w      io.Writer
}

func (c consoleConfirmer) Confirm(question string) bool {
	return AskYesNo(c.reader, question, c.w)
}

// openURL is a test seam for browser.OpenURL.
var openURL = browser.OpenURL

// browserOpener opens links in the default browser and always prints them,
// so the link stays usable on machines without one.
type browserOpener struct {
	w io.Writer
}

func (o browserOpener) Open(url string) error {
	fmt.Fprintf(o.w, "Opening %s\n", url)
	return openURL(url)
}

// timerScheduler runs delayed actions on their own goroutine.
type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
