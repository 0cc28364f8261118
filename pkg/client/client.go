package client

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	apperrors "github.com/zfogg/moodjournal/pkg/errors"
	"github.com/zfogg/moodjournal/pkg/logger"
)

const (
	DefaultUserAgent     = "MoodJournal-CLI/0.1.0"
	DefaultRedirectDelay = 2 * time.Second

	RefreshPath = "/public/refresh"
	LoginPath   = "/login"

	sessionExpiredMessage = "Session expired. Please log in again."
)

// publicAuthPaths never enter the refresh flow, whatever their status.
var publicAuthPaths = []string{
	"/public/login",
	"/public/refresh",
	"/public/logout",
}

// Level is the severity of a user-facing notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Notifier shows transient user-facing messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(path string)
}

// SessionStore is the part of the session coordinator the client needs when
// a refresh fails.
type SessionStore interface {
	Clear()
}

type cookieClearer interface {
	Clear() error
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UserAgent     string
	CookieJar     http.CookieJar
	Transport     http.RoundTripper
	RedirectDelay time.Duration
	LoginPath     string
	Notifier      Notifier
	Navigator     Navigator
}

// Client performs cookie-authenticated calls against the journal API and
// recovers from an expired access token at most once per call.
type Client struct {
	http          *resty.Client
	refresher     *RefreshCoordinator
	notifier      Notifier
	navigator     Navigator
	redirectDelay time.Duration
	loginPath     string

	mu       sync.Mutex
	session  SessionStore
	redirect *time.Timer
}

// New creates a Client
func New(opts Options) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		httpClient.SetTransport(opts.Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Content-Type", "application/json")
	httpClient.SetHeader("Accept", "application/json")

	jar := opts.CookieJar
	if jar == nil {
		jar, _ = cookiejar.New(nil)
	}
	httpClient.SetCookieJar(jar)

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.Header.Set("X-Request-ID", uuid.NewString())
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get("X-Request-ID"))
		return nil
	})

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "url", resp.Request.URL, "elapsed", resp.Time())
		return nil
	})

	c := &Client{
		http:          httpClient,
		notifier:      opts.Notifier,
		navigator:     opts.Navigator,
		redirectDelay: opts.RedirectDelay,
		loginPath:     opts.LoginPath,
	}
	if c.redirectDelay <= 0 {
		c.redirectDelay = DefaultRedirectDelay
	}
	if c.loginPath == "" {
		c.loginPath = LoginPath
	}
	c.refresher = NewRefreshCoordinator(c.refreshSession, c.expireSession)
	return c
}

// BindSession connects the session coordinator that is cleared when a
// refresh fails.
func (c *Client) BindSession(s SessionStore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Refresher returns the coordinator owned by this client.
func (c *Client) Refresher() *RefreshCoordinator {
	return c.refresher
}

// Request performs method on path. body may be nil, []byte, a string or any
// JSON-marshalable value. Non-2xx answers come back as *errors.Error.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	rc, err := newCall(method, path, body, opts)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "could not encode request body", err)
	}
	return c.execute(ctx, rc)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, opts...)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

func (c *Client) execute(ctx context.Context, rc *call) (*Response, error) {
	resp, err := c.send(ctx, rc)
	if err != nil {
		return nil, err
	}
	if resp.Status >= 200 && resp.Status < 300 {
		return resp, nil
	}

	if !c.shouldRefresh(rc, resp.Status) {
		return nil, apperrors.FromResponse(resp.Status, resp.Data)
	}

	rc.retried = true
	logger.Debug("Access rejected, refreshing session", "method", rc.method, "path", rc.path, "status", resp.Status)

	if err := c.refresher.Do(ctx); err != nil {
		if ctx.Err() != nil {
			// The caller gave up waiting; the shared refresh carries on.
			return nil, err
		}
		rc.retryEnd = true
		return nil, apperrors.SessionExpired(err)
	}
	return c.execute(ctx, rc)
}

func (c *Client) shouldRefresh(rc *call, status int) bool {
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return false
	}
	if rc.opts.hydration || rc.retried || rc.retryEnd {
		return false
	}
	return !IsPublicAuthPath(rc.path)
}

// send performs exactly one round trip. Transport failures become
// KindNetwork errors that wrap the cause.
func (c *Client) send(ctx context.Context, rc *call) (*Response, error) {
	req := c.http.R().SetContext(ctx)
	if rc.payload != nil {
		req.SetBody(rc.payload)
	}
	if len(rc.opts.query) > 0 {
		req.SetQueryParamsFromValues(rc.opts.query)
	}
	for key := range rc.opts.headers {
		req.SetHeader(key, rc.opts.headers.Get(key))
	}

	resp, err := req.Execute(rc.method, rc.path)
	if err != nil {
		logger.Debug("HTTP transport error", "method", rc.method, "path", rc.path, "error", err)
		return nil, apperrors.Network(err)
	}

	return &Response{
		Status: resp.StatusCode(),
		Data:   resp.Body(),
		Header: resp.Header(),
	}, nil
}

func (c *Client) refreshSession(ctx context.Context) error {
	resp, err := c.send(ctx, &call{method: http.MethodPost, path: RefreshPath})
	if err != nil {
		return err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return apperrors.FromResponse(resp.Status, resp.Data)
	}
	logger.Debug("Session refreshed")
	return nil
}

// expireSession runs once per failed refresh.
func (c *Client) expireSession(err error) {
	logger.Warn("Session refresh failed", "error", err)

	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s != nil {
		s.Clear()
	}

	if c.notifier != nil {
		c.notifier.Notify(LevelError, sessionExpiredMessage)
	}
	c.scheduleRedirect()
}

// scheduleRedirect navigates to the login route after the redirect delay so
// the notification stays visible. A redirect that is already pending is
// not duplicated.
func (c *Client) scheduleRedirect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.navigator == nil || c.redirect != nil {
		return
	}
	c.redirect = time.AfterFunc(c.redirectDelay, func() {
		c.mu.Lock()
		c.redirect = nil
		c.mu.Unlock()
		c.navigator.Navigate(c.loginPath)
	})
}

// RedirectPending reports whether a login redirect is scheduled.
func (c *Client) RedirectPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect != nil
}

// ResetCookies drops every cookie the client holds.
func (c *Client) ResetCookies() error {
	if clearer, ok := c.http.GetClient().Jar.(cookieClearer); ok {
		return clearer.Clear()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http.SetCookieJar(jar)
	return nil
}

// Close cancels a pending redirect and releases idle connections.
func (c *Client) Close() {
	c.mu.Lock()
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
	c.mu.Unlock()
	c.http.GetClient().CloseIdleConnections()
}

// IsPublicAuthPath reports whether path is one of the login, refresh or
// logout endpoints.
func IsPublicAuthPath(path string) bool {
	trimmed := strings.TrimRight(path, "/")
	for _, p := range publicAuthPaths {
		if strings.HasSuffix(trimmed, p) {
			return true
		}
	}
	return false
}
