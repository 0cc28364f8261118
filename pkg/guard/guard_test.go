package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zfogg/moodjournal/pkg/session"
)

var (
	unchecked = session.Snapshot{State: session.Checking}
	loggedOut = session.Snapshot{Checked: true, State: session.Unauthenticated}
	loggedIn  = session.Snapshot{
		Checked: true,
		State:   session.Authenticated,
		User:    session.NewUserProfile([]byte(`{"userName":"alice"}`)),
	}
	// A re-hydration in progress for a user who was already known.
	recheck = session.Snapshot{State: session.Checking, User: loggedIn.User}
)

func TestGuards(t *testing.T) {
	tests := []struct {
		name  string
		guard Func
		snap  session.Snapshot
		want  Decision
	}{
		{"protected unchecked", Protected, unchecked, Decision{Action: Wait}},
		{"protected recheck", Protected, recheck, Decision{Action: Wait}},
		{"protected logged out", Protected, loggedOut, Decision{Action: Redirect, To: "/login"}},
		{"protected logged in", Protected, loggedIn, Decision{Action: Render}},

		{"public unchecked", Public, unchecked, Decision{Action: Wait}},
		{"public logged out", Public, loggedOut, Decision{Action: Render}},
		{"public logged in", Public, loggedIn, Decision{Action: Render}},

		{"landing unchecked", Landing, unchecked, Decision{Action: Wait}},
		{"landing logged out", Landing, loggedOut, Decision{Action: Render}},
		{"landing logged in", Landing, loggedIn, Decision{Action: Redirect, To: "/dashboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard(tt.snap))
		})
	}
}

func TestFor(t *testing.T) {
	assert.Equal(t, Decision{Action: Redirect, To: LoginRoute}, For(KindProtected)(loggedOut))
	assert.Equal(t, Decision{Action: Render}, For(KindPublic)(loggedOut))
	assert.Equal(t, Decision{Action: Redirect, To: DashboardRoute}, For(KindLanding)(loggedIn))
	assert.Equal(t, Decision{Action: Render}, For(KindNone)(unchecked))
	assert.Equal(t, Decision{Action: Redirect, To: LoginRoute}, For("bogus")(loggedOut))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "wait", Decision{Action: Wait}.String())
	assert.Equal(t, "render", Decision{Action: Render}.String())
	assert.Equal(t, "redirect /login", Decision{Action: Redirect, To: "/login"}.String())
	assert.Equal(t, "unknown", Action(9).String())
}
