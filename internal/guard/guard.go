// Package guard holds the navigation gates. Guards are pure functions of the authentication
// state and are evaluated again on every navigation attempt.
package guard

const (
	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/login"
	// SessionsPath is where authenticated users are sent.
	SessionsPath = "/sessions"
)

// State is the authentication state a guard decides on.
type State int

const (
	// LoggedOut means no one is authenticated.
	LoggedOut State = iota
	// LoggedIn means a SessionInformation is held.
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged-in"
	}
	return "logged-out"
}

// Reader is the part of the session store guards look at.
type Reader interface {
	IsLoggedIn() bool
}

// StateOf snapshots the state of r.
func StateOf(r Reader) State {
	if r.IsLoggedIn() {
		return LoggedIn
	}
	return LoggedOut
}

// Decision is the outcome of a guard: allow, or redirect elsewhere.
type Decision struct {
	RedirectTo string
}

// Allow lets the navigation through.
func Allow() Decision {
	return Decision{}
}

// Redirect sends the navigation to path instead.
func Redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

// Guard decides on a navigation.
type Guard func(State) Decision

// Auth admits authenticated users only.
func Auth(s State) Decision {
	if s == LoggedIn {
		return Allow()
	}
	return Redirect(LoginPath)
}

// Unauth admits unauthenticated users only.
func Unauth(s State) Decision {
	if s == LoggedOut {
		return Allow()
	}
	return Redirect(SessionsPath)
}

// None admits everyone.
func None(State) Decision {
	return Allow()
}
