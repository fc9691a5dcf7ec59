package services

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/ui"
)

// State is the lifecycle of one flow's request.
type State int

const (
	StateIdle State = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Redirect delays after a successful verification or activation.
const (
	VerifyRedirectDelay   = 1500 * time.Millisecond
	ActivateRedirectDelay = 2 * time.Second
)

// flow tracks the State of a single flow and rejects overlapping requests.
type flow struct {
	mu    sync.Mutex
	state State
}

// begin moves the flow to StateInFlight. It returns false, leaving the
// state untouched, when a request is already in flight.
func (f *flow) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateInFlight {
		return false
	}
	f.state = StateInFlight
	return true
}

func (f *flow) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		return
	}
	f.state = StateSucceeded
}

func (f *flow) get() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// UI bundles the interaction surface the controllers drive.
type UI struct {
	Nav      ui.Navigator
	Notify   ui.Notifier
	Confirm  ui.Confirmer
	Open     ui.Opener
	Schedule ui.Scheduler
}

func (u UI) success(msg string) { u.Notify.Notify(ui.LevelSuccess, msg) }
func (u UI) fail(msg string)    { u.Notify.Notify(ui.LevelError, msg) }

func (u UI) goTo(r ui.Route) { u.Nav.Navigate(ui.Location{Route: r}) }

// orDefault returns msg, or fallback when msg is blank.
func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
