package journal

import (
	"strings"

	apperrors "github.com/zfogg/moodjournal/pkg/errors"
)

const MinPasswordLength = 6

// ValidateLogin checks the login form.
func ValidateLogin(userName, password string) error {
	if strings.TrimSpace(userName) == "" || password == "" {
		return apperrors.Validation("Please enter your username and password.")
	}
	return nil
}

// ValidateSignup checks the signup form.
func ValidateSignup(userName, email, password, confirm string) error {
	if strings.TrimSpace(userName) == "" || strings.TrimSpace(email) == "" || password == "" {
		return apperrors.Validation("Please fill in all fields.")
	}
	if password != confirm {
		return apperrors.Validation("Passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return apperrors.Validation("Password must be at least 6 characters long")
	}
	return nil
}

// ValidatePasswordChange checks the optional new-password pair on the
// profile form. Leaving both empty is valid and means "keep the password".
func ValidatePasswordChange(newPassword, confirm string) error {
	if (newPassword == "") != (confirm == "") {
		return apperrors.Validation("Both password fields are required to change password.")
	}
	if newPassword != "" && len(newPassword) < MinPasswordLength {
		return apperrors.Validation("New password must be at least 6 characters.")
	}
	if newPassword != confirm {
		return apperrors.Validation("New passwords do not match.")
	}
	return nil
}

// ValidateOTP requires exactly six digits.
func ValidateOTP(code string) error {
	if len(code) != 6 {
		return apperrors.Validation("Please enter a 6-digit verification code")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return apperrors.Validation("Please enter a 6-digit verification code")
		}
	}
	return nil
}

// MaskEmail hides most of the local part. Up to three characters keep only
// the first one; longer ones keep the first two and the last.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	switch {
	case local == "":
		return "***@" + domain
	case len(local) <= 3:
		return local[:1] + "***@" + domain
	default:
		return local[:2] + "***" + local[len(local)-1:] + "@" + domain
	}
}
