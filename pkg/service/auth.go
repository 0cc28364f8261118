package service

import (
	"context"
	"errors"
	"time"

	"github.com/zfogg/moodjournal/pkg/api"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
)

// ErrSessionNotEstablished means the server accepted credentials but the
// current-user endpoint still does not recognise us.
var ErrSessionNotEstablished = errors.New("login accepted but no session was established")

type AuthService struct {
	Deps
}

// NewAuthService creates a new auth service
func NewAuthService(d Deps) *AuthService {
	return &AuthService{Deps: d}
}

// SignupForm is the account creation form.
type SignupForm struct {
	UserName string
	Email    string
	Password string
	Confirm  string
}

// Login prompts for anything missing, submits the credentials and
// re-derives the session from the server.
func (s *AuthService) Login(ctx context.Context, userName, password string) error {
	var err error
	if userName == "" && s.Prompt != nil {
		if userName, err = s.Prompt.String("Username: "); err != nil {
			return err
		}
	}
	if password == "" && s.Prompt != nil {
		if password, err = s.Prompt.Password("Password: "); err != nil {
			return err
		}
	}
	if err := journal.ValidateLogin(userName, password); err != nil {
		return fail(err, "")
	}

	if err := s.API.Login(ctx, userName, password); err != nil {
		return fail(err, "Invalid userName or password. Please try again.")
	}

	if err := s.Session.Login(ctx); err != nil || !s.Session.IsAuthenticated() {
		logger.Warn("Session hydration after login failed", "error", err)
		return fail(ErrSessionNotEstablished, "Logged in, but the session could not be confirmed. Please try again.")
	}

	output.PrintSuccess("Welcome back!")
	s.navigate(RouteDashboard)
	return nil
}

// Signup creates an account. The user verifies the emailed code next.
func (s *AuthService) Signup(ctx context.Context, form SignupForm) error {
	var err error
	if s.Prompt != nil {
		if form.UserName == "" {
			if form.UserName, err = s.Prompt.String("Username: "); err != nil {
				return err
			}
		}
		if form.Email == "" {
			if form.Email, err = s.Prompt.String("Email: "); err != nil {
				return err
			}
		}
		if form.Password == "" {
			if form.Password, err = s.Prompt.Password("Password: "); err != nil {
				return err
			}
			if form.Confirm, err = s.Prompt.Password("Confirm password: "); err != nil {
				return err
			}
		}
	}

	if err := journal.ValidateSignup(form.UserName, form.Email, form.Password, form.Confirm); err != nil {
		return fail(err, "")
	}

	req := api.SignupRequest{UserName: form.UserName, Email: form.Email, Password: form.Password}
	if err := s.API.Signup(ctx, req); err != nil {
		return fail(err, "Failed to create account. Please try again.")
	}

	output.PrintSuccess("Account created successfully!")
	output.PrintInfo("We've sent a verification code to %s", journal.MaskEmail(form.Email))
	s.navigate(RouteVerifyOTP)
	return nil
}

// Verify submits the emailed one-time code and signs the user in.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	var err error
	if code == "" && s.Prompt != nil {
		output.PrintInfo("We've sent a verification code to %s", journal.MaskEmail(email))
		if code, err = s.Prompt.String("Verification code: "); err != nil {
			return err
		}
	}
	if err := journal.ValidateOTP(code); err != nil {
		return fail(err, "")
	}

	if err := s.API.VerifyOTP(ctx, email, code); err != nil {
		return fail(err, "Invalid verification code. Please try again.")
	}

	if err := s.Session.Login(ctx); err != nil {
		logger.Debug("Session hydration after verification failed", "error", err)
	}

	output.PrintSuccess("Your email has been successfully verified")
	if s.Session.IsAuthenticated() {
		s.navigate(RouteDashboard)
	} else {
		s.navigate("/login")
	}
	return nil
}

// ResendOTP asks for a fresh code.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	if err := s.API.ResendOTP(ctx, email); err != nil {
		return fail(err, "Failed to resend OTP. Please try again.")
	}
	output.PrintInfo("A new verification code has been sent to your email")
	return nil
}

// Logout ends the session locally whatever the server says.
func (s *AuthService) Logout(ctx context.Context) error {
	wasAuthenticated := s.Session.IsAuthenticated()
	if err := s.Session.Logout(ctx); err != nil {
		return err
	}
	if wasAuthenticated {
		output.PrintSuccess("✓ Logged out successfully")
	} else {
		output.PrintWarning("Not logged in")
	}
	return nil
}

// Status shows who is signed in and when the access cookie expires.
func (s *AuthService) Status(ctx context.Context) error {
	snap := s.Session.Snapshot()
	if !snap.IsAuthenticated() {
		output.PrintWarning("Not logged in")
		return nil
	}

	record := map[string]interface{}{
		"Username": snap.User.Field("userName"),
		"State":    snap.State.String(),
	}
	if email := snap.User.Field("email"); email != "" {
		record["Email"] = email
	}
	if s.Jar != nil {
		record["Cookies"] = s.Jar.Len()
		expiry, err := s.Jar.AccessTokenExpiry(s.AccessCookie)
		switch {
		case err == nil && !expiry.IsZero():
			record["Access token expires"] = expiry.Local().Format(time.RFC1123)
			if expiry.Before(s.now()) {
				record["Access token expires"] = expiry.Local().Format(time.RFC1123) + " (expired, will refresh on next call)"
			}
		case err != nil:
			logger.Debug("Access token expiry unavailable", "error", err)
		}
	}
	return output.PrintRecord("Session", record)
}
