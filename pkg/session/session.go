package session

import (
	"context"
	"errors"
	"sync"

	json "github.com/json-iterator/go"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/logger"
)

const (
	DefaultMePath     = "/users/me"
	DefaultLogoutPath = "/public/logout"
)

// ErrEmptyProfile is returned when the current-user endpoint answers 2xx
// without a user.
var ErrEmptyProfile = errors.New("current user endpoint returned no profile")

// State is the authentication state of the session.
type State int

const (
	Unchecked State = iota
	Checking
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// UserProfile is the record returned by the current-user endpoint. The
// session keeps it opaque; callers decode the fields they need.
type UserProfile struct {
	raw []byte
}

// NewUserProfile wraps a raw JSON document.
func NewUserProfile(raw []byte) *UserProfile {
	return &UserProfile{raw: append([]byte(nil), raw...)}
}

// Decode unmarshals the profile into v.
func (u *UserProfile) Decode(v interface{}) error {
	return json.Unmarshal(u.raw, v)
}

// Raw returns a copy of the JSON document.
func (u *UserProfile) Raw() []byte {
	return append([]byte(nil), u.raw...)
}

// Field returns a top-level field rendered as a string, or "" if absent.
func (u *UserProfile) Field(key string) string {
	if u == nil {
		return ""
	}
	v := json.Get(u.raw, key)
	if v.LastError() != nil {
		return ""
	}
	return v.ToString()
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	User    *UserProfile
	Checked bool
	State   State
}

// IsAuthenticated reports whether a user is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}

// Requester is the subset of *client.Client the session uses.
type Requester interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (*client.Response, error)
	Post(ctx context.Context, path string, body interface{}, opts ...client.RequestOption) (*client.Response, error)
}

// Options configures a Coordinator.
type Options struct {
	Navigator  client.Navigator
	MePath     string
	LogoutPath string
	LoginPath  string
}

// Coordinator owns the process-wide authentication state. The server is the
// source of truth: every state change after login is derived from the
// current-user endpoint.
type Coordinator struct {
	api        Requester
	navigator  client.Navigator
	mePath     string
	logoutPath string
	loginPath  string

	// hydrateMu serialises hydrations.
	hydrateMu sync.Mutex

	mu         sync.RWMutex
	user       *UserProfile
	checked    bool
	state      State
	generation uint64
	resets     []func()
	listeners  map[int]func(Snapshot)
	nextID     int
}

// New creates a Coordinator in the Unchecked state.
func New(api Requester, opts Options) *Coordinator {
	c := &Coordinator{
		api:        api,
		navigator:  opts.Navigator,
		mePath:     opts.MePath,
		logoutPath: opts.LogoutPath,
		loginPath:  opts.LoginPath,
		listeners:  make(map[int]func(Snapshot)),
	}
	if c.mePath == "" {
		c.mePath = DefaultMePath
	}
	if c.logoutPath == "" {
		c.logoutPath = DefaultLogoutPath
	}
	if c.loginPath == "" {
		c.loginPath = client.LoginPath
	}
	return c
}

// Hydrate asks the server who the current user is. Success sets the user and
// any failure clears it; either way Checked ends up true. The returned error
// is informational, the session state already reflects it.
func (c *Coordinator) Hydrate(ctx context.Context) error {
	c.hydrateMu.Lock()
	defer c.hydrateMu.Unlock()

	c.mu.Lock()
	gen := c.generation
	c.checked = false
	c.state = Checking
	c.mu.Unlock()
	c.publish()

	user, err := c.fetchUser(ctx)

	c.mu.Lock()
	if c.generation == gen {
		if err != nil {
			c.user = nil
			c.state = Unauthenticated
		} else {
			c.user = user
			c.state = Authenticated
		}
	} else {
		// A logout or clear ran while we were waiting; its result wins.
		logger.Debug("Discarding stale hydration result")
	}
	c.checked = true
	state := c.state
	c.mu.Unlock()
	c.publish()

	if err != nil {
		logger.Debug("Session hydration failed", "error", err)
	} else {
		logger.Debug("Session hydrated", "state", state)
	}
	return err
}

// Login re-derives the session from the server after credentials or an OTP
// were accepted.
func (c *Coordinator) Login(ctx context.Context) error {
	return c.Hydrate(ctx)
}

// Logout tells the server to end the session, clears all local session
// state whatever the server said, and navigates to the login route.
func (c *Coordinator) Logout(ctx context.Context) error {
	if _, err := c.api.Post(ctx, c.logoutPath, nil); err != nil {
		logger.Warn("Server logout failed, clearing local session anyway", "error", err)
	}

	c.Clear()

	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
	return nil
}

// Clear drops the user and every piece of cached session data. The session
// becomes Unauthenticated and stays checked.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.generation++
	c.user = nil
	c.checked = true
	c.state = Unauthenticated
	resets := append([]func(){}, c.resets...)
	c.mu.Unlock()

	for _, reset := range resets {
		reset()
	}
	c.publish()
}

// OnReset registers fn to run on every Clear or Logout.
func (c *Coordinator) OnReset(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets = append(c.resets, fn)
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (c *Coordinator) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Snapshot returns the current session.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{User: c.user, Checked: c.checked, State: c.state}
}

// IsAuthenticated reports whether a user is present.
func (c *Coordinator) IsAuthenticated() bool {
	return c.Snapshot().IsAuthenticated()
}

// WatchFocus re-hydrates on every event until ctx is done or events closes.
func (c *Coordinator) WatchFocus(ctx context.Context, events <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			logger.Debug("Focus regained, re-hydrating session")
			_ = c.Hydrate(ctx)
		}
	}
}

func (c *Coordinator) fetchUser(ctx context.Context) (*UserProfile, error) {
	resp, err := c.api.Get(ctx, c.mePath, client.WithHydration())
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrEmptyProfile
	}
	return NewUserProfile(resp.Data), nil
}

func (c *Coordinator) publish() {
	c.mu.RLock()
	snap := Snapshot{User: c.user, Checked: c.checked, State: c.state}
	listeners := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
