package credentials

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	json "github.com/json-iterator/go"
	"github.com/zfogg/moodjournal/pkg/logger"
)

// ErrNoCookie is returned when the named cookie is not held.
var ErrNoCookie = errors.New("cookie not present")

// StoredCookie is the on-disk form of a session cookie. Unlike the values
// handed back by http.CookieJar it keeps path, domain and expiry.
type StoredCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	HostOnly bool      `json:"host_only"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c StoredCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

type cookieFile struct {
	BaseURL string         `json:"base_url"`
	Cookies []StoredCookie `json:"cookies"`
}

// Jar is an http.CookieJar that survives process restarts. Matching is
// delegated to net/http/cookiejar; every change is written to disk so the
// next invocation starts with the same server session.
type Jar struct {
	mu    sync.Mutex
	jar   *cookiejar.Jar
	base  *url.URL
	file  string
	saved map[string]StoredCookie
	now   func() time.Time
}

// Open loads the cookie file at file (if any) for baseURL. Cookies saved for
// a different base URL are discarded. An empty file path gives an in-memory jar.
func Open(file, baseURL string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	j := &Jar{
		jar:   inner,
		base:  base,
		file:  file,
		saved: make(map[string]StoredCookie),
		now:   time.Now,
	}

	if file == "" {
		return j, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, err
	}

	var stored cookieFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode cookie file: %w", err)
	}
	if stored.BaseURL != baseURL {
		return j, nil
	}

	now := j.now()
	for _, sc := range stored.Cookies {
		if sc.expired(now) {
			continue
		}
		j.saved[key(sc)] = sc
		j.jar.SetCookies(j.originFor(sc), []*http.Cookie{toHTTP(sc)})
	}
	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	now := j.now()
	for _, c := range cookies {
		sc := fromHTTP(u, c, now)
		if c.MaxAge < 0 || sc.expired(now) {
			delete(j.saved, key(sc))
			continue
		}
		j.saved[key(sc)] = sc
	}

	// Persistence failures only cost the next run its session.
	if err := j.persistLocked(); err != nil {
		logger.Warn("Could not save session cookies", "file", j.file, "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Clear forgets every cookie in memory and on disk.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.jar = inner
	j.saved = make(map[string]StoredCookie)

	if j.file == "" {
		return nil
	}
	if err := os.Remove(j.file); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Lookup returns the unexpired stored cookie with the given name.
func (j *Jar) Lookup(name string) (StoredCookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, sc := range j.saved {
		if sc.Name == name && !sc.expired(now) {
			return sc, true
		}
	}
	return StoredCookie{}, false
}

// Len returns the number of unexpired cookies held.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := 0
	now := j.now()
	for _, sc := range j.saved {
		if !sc.expired(now) {
			n++
		}
	}
	return n
}

// AccessTokenExpiry reads the "exp" claim of a JWT held in the named cookie.
// The signature is not verified; the value is only used for display.
func (j *Jar) AccessTokenExpiry(name string) (time.Time, error) {
	sc, ok := j.Lookup(name)
	if !ok {
		return time.Time{}, ErrNoCookie
	}

	token, _, err := jwt.NewParser().ParseUnverified(sc.Value, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return exp.Time, nil
}

func (j *Jar) persistLocked() error {
	if j.file == "" {
		return nil
	}

	stored := cookieFile{BaseURL: j.base.String()}
	for _, sc := range j.saved {
		stored.Cookies = append(stored.Cookies, sc)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	// Owner read/write only: these are live session credentials.
	return os.WriteFile(j.file, data, 0600)
}

func (j *Jar) originFor(sc StoredCookie) *url.URL {
	scheme := j.base.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := sc.Domain
	if host == "" {
		host = j.base.Host
	}
	return &url.URL{Scheme: scheme, Host: host, Path: sc.Path}
}

func key(sc StoredCookie) string {
	return sc.Domain + ";" + sc.Path + ";" + sc.Name
}

func fromHTTP(u *url.URL, c *http.Cookie, now time.Time) StoredCookie {
	sc := StoredCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   strings.TrimPrefix(c.Domain, "."),
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if sc.Domain == "" {
		sc.Domain = u.Hostname()
		sc.HostOnly = true
	}
	if sc.Path == "" || !strings.HasPrefix(sc.Path, "/") {
		sc.Path = defaultPath(u.Path)
	}
	if c.MaxAge > 0 {
		sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	}
	return sc
}

func toHTTP(sc StoredCookie) *http.Cookie {
	c := &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Expires:  sc.Expires,
		Secure:   sc.Secure,
		HttpOnly: sc.HttpOnly,
	}
	if !sc.HostOnly {
		c.Domain = sc.Domain
	}
	return c
}

// defaultPath implements the RFC 6265 section 5.1.4 default-path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	dir := path.Dir(p)
	if dir == "." || dir == "" {
		return "/"
	}
	return dir
}
