package api

import (
	"bytes"
	"context"
	"net/url"

	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/logger"
)

const (
	loginPath     = "/public/login"
	signupPath    = "/public/signup"
	logoutPath    = "/public/logout"
	verifyOTPPath = "/public/verify-otp"
	resendOTPPath = "/public/resend-otp"
	mePath        = "/users/me"
	profilePath   = "/users"
	updateUser    = "/users/update-user"
	journalPath   = "/journal"
)

// API binds the journal REST endpoints to typed calls.
type API struct {
	c *client.Client
}

// New creates an API on top of c.
func New(c *client.Client) *API {
	return &API{c: c}
}

// Login submits credentials. The session cookies land in the client's jar.
func (a *API) Login(ctx context.Context, userName, password string) error {
	logger.Debug("Attempting login", "user", userName)
	_, err := a.c.Post(ctx, loginPath, LoginRequest{UserName: userName, Password: password})
	return err
}

// Signup creates an account. The server emails a verification code.
func (a *API) Signup(ctx context.Context, req SignupRequest) error {
	logger.Debug("Creating account", "user", req.UserName, "email", req.Email)
	_, err := a.c.Post(ctx, signupPath, req)
	return err
}

// VerifyOTP confirms the emailed code for email.
func (a *API) VerifyOTP(ctx context.Context, email, otp string) error {
	logger.Debug("Verifying email", "email", email)
	_, err := a.c.Post(ctx, verifyOTPPath, struct{}{},
		client.WithQuery("email", email),
		client.WithQuery("otp", otp))
	return err
}

// ResendOTP asks the server to send a new code to email.
func (a *API) ResendOTP(ctx context.Context, email string) error {
	logger.Debug("Resending verification code", "email", email)
	_, err := a.c.Post(ctx, resendOTPPath, nil, client.WithQuery("email", email))
	return err
}

// Logout ends the server-side session.
func (a *API) Logout(ctx context.Context) error {
	_, err := a.c.Post(ctx, logoutPath, nil)
	return err
}

// CurrentUser returns who the cookies belong to.
func (a *API) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := a.c.Get(ctx, mePath)
	if err != nil {
		return nil, err
	}
	var user User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEntries returns every entry of the signed-in user.
func (a *API) ListEntries(ctx context.Context) ([]journal.Entry, error) {
	logger.Debug("Fetching journal entries")
	resp, err := a.c.Get(ctx, journalPath)
	if err != nil {
		return nil, err
	}
	var entries []journal.Entry
	if err := resp.Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntry returns one entry.
func (a *API) GetEntry(ctx context.Context, id journal.ID) (*journal.Entry, error) {
	resp, err := a.c.Get(ctx, entryPath(id))
	if err != nil {
		return nil, err
	}
	var entry journal.Entry
	if err := resp.Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry saves a new entry. The server may answer with the stored
// entry or with an empty body, in which case the result is nil.
func (a *API) CreateEntry(ctx context.Context, p journal.Payload) (*journal.Entry, error) {
	logger.Debug("Creating entry", "title", p.Title)
	resp, err := a.c.Post(ctx, journalPath, p)
	if err != nil {
		return nil, err
	}
	return decodeOptionalEntry(resp)
}

// UpdateEntry replaces the entry with id.
func (a *API) UpdateEntry(ctx context.Context, id journal.ID, p journal.Payload) (*journal.Entry, error) {
	logger.Debug("Updating entry", "id", id)
	resp, err := a.c.Put(ctx, entryPath(id), p)
	if err != nil {
		return nil, err
	}
	return decodeOptionalEntry(resp)
}

// DeleteEntry removes the entry with id.
func (a *API) DeleteEntry(ctx context.Context, id journal.ID) error {
	logger.Debug("Deleting entry", "id", id)
	_, err := a.c.Delete(ctx, entryPath(id))
	return err
}

// GetProfile returns the signed-in user's record with all entries.
func (a *API) GetProfile(ctx context.Context) (*journal.Profile, error) {
	resp, err := a.c.Get(ctx, profilePath)
	if err != nil {
		return nil, err
	}
	var profile journal.Profile
	if err := resp.Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile sends only the non-empty fields of req.
func (a *API) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	logger.Debug("Updating profile", "username_change", req.UserName != "", "password_change", req.Password != "")
	_, err := a.c.Put(ctx, updateUser, req)
	return err
}

func entryPath(id journal.ID) string {
	return journalPath + "/" + url.PathEscape(string(id))
}

func decodeOptionalEntry(resp *client.Response) (*journal.Entry, error) {
	if len(resp.Data) == 0 {
		return nil, nil
	}
	// Some servers answer with a plain confirmation string.
	if !bytes.HasPrefix(bytes.TrimSpace(resp.Data), []byte("{")) {
		return nil, nil
	}
	var entry journal.Entry
	if err := resp.Decode(&entry); err != nil {
		logger.Debug("Ignoring undecodable entry response", "status", resp.Status, "error", err)
		return nil, nil
	}
	return &entry, nil
}
