package cmd

import (
	"time"

	"github.com/zfogg/moodjournal/pkg/api"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/config"
	"github.com/zfogg/moodjournal/pkg/credentials"
	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
	"github.com/zfogg/moodjournal/pkg/prompter"
	"github.com/zfogg/moodjournal/pkg/router"
	"github.com/zfogg/moodjournal/pkg/service"
	"github.com/zfogg/moodjournal/pkg/session"
)

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	client        *client.Client
	jar           *credentials.Jar
	router        *router.Router
	session       *session.Coordinator
	deps          service.Deps
	redirectDelay time.Duration
}

// rt is set by the root command before any RunE runs.
var rt *runtime

func newRuntime() (*runtime, error) {
	baseURL := config.GetString("api.base_url")
	jar, err := credentials.Open(config.GetCookiesPath(), baseURL)
	if err != nil {
		return nil, err
	}

	nav := router.New(nil)
	redirectDelay := config.GetDuration("session.redirect_delay")
	c := client.New(client.Options{
		BaseURL:       baseURL,
		Timeout:       time.Duration(config.GetInt("api.timeout")) * time.Second,
		CookieJar:     jar,
		RedirectDelay: redirectDelay,
		Notifier:      output.Toaster{},
		Navigator:     nav,
	})

	sess := session.New(c, session.Options{Navigator: nav})
	c.BindSession(sess)
	sess.OnReset(func() {
		if err := c.ResetCookies(); err != nil {
			logger.Warn("Failed to clear stored cookies", "error", err)
		}
	})

	accessCookie := config.GetString("session.access_cookie")
	return &runtime{
		client:        c,
		jar:           jar,
		router:        nav,
		session:       sess,
		redirectDelay: redirectDelay,
		deps: service.Deps{
			API:          api.New(c),
			Session:      sess,
			Navigator:    nav,
			Prompt:       prompter.Stdio(),
			Jar:          jar,
			AccessCookie: accessCookie,
		},
	}, nil
}

// close lets a scheduled login redirect land so the user sees where to go
// next, then releases the client.
func (r *runtime) close() {
	if r.client.RedirectPending() {
		deadline := time.After(r.redirectDelay + 250*time.Millisecond)
	wait:
		for {
			select {
			case route := <-r.router.Changes():
				if route == client.LoginPath {
					break wait
				}
			case <-deadline:
				break wait
			}
		}
	}
	r.client.Close()
}
