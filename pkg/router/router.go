package router

import (
	"sync"

	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
)

// DefaultHints maps routes to the command that opens them.
var DefaultHints = map[string]string{
	"/login":      "Run 'journal auth login' to sign in.",
	"/signup":     "Run 'journal auth signup' to create an account.",
	"/verify-otp": "Run 'journal auth verify' with the code from your email.",
	"/dashboard":  "Run 'journal entry list' to see your journal.",
	"/profile":    "Run 'journal profile show' to see your stats.",
}

// Router is the terminal stand-in for client-side navigation. It records
// where the application was sent and tells the user which command gets them
// there.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
	hints   map[string]string
	changes chan string
}

// New creates a Router. A nil hints map uses DefaultHints.
func New(hints map[string]string) *Router {
	if hints == nil {
		hints = DefaultHints
	}
	return &Router{
		hints:   hints,
		changes: make(chan string, 8),
	}
}

// Navigate implements client.Navigator.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	r.current = path
	r.history = append(r.history, path)
	hint := r.hints[path]
	r.mu.Unlock()

	logger.Debug("Navigate", "route", path)
	if hint != "" {
		output.PrintInfo("%s", hint)
	}

	select {
	case r.changes <- path:
	default:
		// nobody is listening; the history still has it
	}
}

// Current returns the last route navigated to.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every route navigated to, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Changes delivers navigations to a listener. Sends never block, so a slow
// listener may miss some.
func (r *Router) Changes() <-chan string {
	return r.changes
}
