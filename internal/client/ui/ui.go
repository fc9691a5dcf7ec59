// Package ui declares the interaction surface the flow controllers drive:
// routing, notifications, confirmations, opening links and delayed actions.
// The terminal implementations live in package cli.
package ui

import (
	"strings"
	"time"
)

// Route is a screen of the client.
type Route string

const (
	RouteHome           Route = "/"
	RouteLogin          Route = "/login"
	RouteRegister       Route = "/register"
	RouteVerifyOTP      Route = "/verify-otp"
	RouteDashboard      Route = "/dashboard"
	RouteForgotPassword Route = "/forgot-password"
	RouteResetPassword  Route = "/reset-password/:token"
	RouteActivate       Route = "/activate/:token"
)

// NavState travels with a navigation. It is the only way the verify screen
// learns which email to verify.
type NavState struct {
	Email string
}

// Location is a resolved route with its parameters and state.
type Location struct {
	Route Route
	Token string
	State NavState
}

// Path renders the location as a path, filling in :token.
func (l Location) Path() string {
	return strings.Replace(string(l.Route), ":token", l.Token, 1)
}

// ParsePath resolves a path such as "/activate/abc" into a Location.
// Unknown paths resolve to RouteHome.
func ParsePath(path string) Location {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	for _, r := range []Route{RouteResetPassword, RouteActivate} {
		prefix := strings.TrimSuffix(string(r), ":token")
		if token, ok := strings.CutPrefix(path, prefix); ok && token != "" && !strings.Contains(token, "/") {
			return Location{Route: r, Token: token}
		}
	}
	switch r := Route(path); r {
	case RouteHome, RouteLogin, RouteRegister, RouteVerifyOTP, RouteDashboard, RouteForgotPassword:
		return Location{Route: r}
	}
	return Location{Route: RouteHome}
}

type Navigator interface {
	Navigate(to Location)
}

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

type Notifier interface {
	Notify(level Level, msg string)
}

type Confirmer interface {
	Confirm(question string) bool
}

// Opener hands a URL to the user's browser.
type Opener interface {
	Open(url string) error
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func())
}
