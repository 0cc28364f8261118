package guard

import (
	"fmt"

	"github.com/zfogg/moodjournal/pkg/session"
)

const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// Action is what the shell should do with a route.
type Action int

const (
	// Wait renders nothing until the first hydration finishes.
	Wait Action = iota
	Render
	Redirect
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a guard. To is set only for Redirect.
type Decision struct {
	Action Action
	To     string
}

func (d Decision) String() string {
	if d.Action == Redirect {
		return fmt.Sprintf("redirect %s", d.To)
	}
	return d.Action.String()
}

// Func decides what to do with a route given the session.
type Func func(session.Snapshot) Decision

// Protected renders only for an authenticated user.
func Protected(s session.Snapshot) Decision {
	if !s.Checked {
		return Decision{Action: Wait}
	}
	if s.IsAuthenticated() {
		return Decision{Action: Render}
	}
	return Decision{Action: Redirect, To: LoginRoute}
}

// Public renders for anyone once the session is known.
func Public(s session.Snapshot) Decision {
	if !s.Checked {
		return Decision{Action: Wait}
	}
	return Decision{Action: Render}
}

// Landing sends authenticated users to the dashboard and shows the landing
// page to everyone else.
func Landing(s session.Snapshot) Decision {
	if !s.Checked {
		return Decision{Action: Wait}
	}
	if s.IsAuthenticated() {
		return Decision{Action: Redirect, To: DashboardRoute}
	}
	return Decision{Action: Render}
}

// Kind names a guard so commands can declare one in an annotation.
type Kind string

const (
	KindProtected Kind = "protected"
	KindPublic    Kind = "public"
	KindLanding   Kind = "landing"
	// KindNone skips the session check entirely.
	KindNone Kind = "none"
)

// For returns the guard for kind. Unknown kinds are treated as protected.
func For(kind Kind) Func {
	switch kind {
	case KindPublic:
		return Public
	case KindLanding:
		return Landing
	case KindNone:
		return func(session.Snapshot) Decision { return Decision{Action: Render} }
	default:
		return Protected
	}
}
