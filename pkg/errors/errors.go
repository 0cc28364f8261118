package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/json-iterator/go"
)

// Kind categorizes failures by how they propagate through the client.
type Kind string

const (
	// KindNetwork is a transport failure with no HTTP response at all.
	KindNetwork Kind = "network"
	// KindAuthExpired is a 401/403 that was not (or could no longer be) recovered.
	KindAuthExpired Kind = "auth_expired"
	// KindAuthFinal means the refresh call itself failed; the session is gone.
	KindAuthFinal Kind = "auth_final"
	// KindValidation is any other 4xx, usually a form-level problem.
	KindValidation Kind = "validation"
	// KindServer is a 5xx.
	KindServer Kind = "server"

	KindUnknown Kind = "unknown"
)

// Error is the typed error surfaced to feature code. It replaces poking
// into response bodies for message strings.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
	Suggestion string

	// generic is set when Message is only the HTTP status text.
	generic bool
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a helpful suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *Error) HasSuggestion() bool {
	return e.Suggestion != ""
}

// New creates a new typed error
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Network wraps a transport error. The cause stays reachable through errors.Is/As.
func Network(cause error) *Error {
	err := New(KindNetwork, "Could not reach the journal server", cause)
	err.Suggestion = "Check your internet connection and that api.base_url is correct."
	return err
}

// SessionExpired wraps the error returned by a failed token refresh.
func SessionExpired(cause error) *Error {
	err := New(KindAuthFinal, "Session expired. Please log in again.", cause)
	err.StatusCode = statusOf(cause)
	err.Suggestion = "Run 'journal auth login' to start a new session."
	return err
}

// Validation creates a client-side validation error (no request was sent)
func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

// FromResponse classifies a non-2xx response. The message is taken from a
// JSON body's "message" or "error" field, else the trimmed raw body, else the
// status text.
func FromResponse(status int, body []byte) *Error {
	err := &Error{
		Kind:       kindForStatus(status),
		Message:    messageFromBody(body),
		StatusCode: status,
	}
	if err.Message == "" {
		err.Message = http.StatusText(status)
		err.generic = true
	}
	switch err.Kind {
	case KindAuthExpired:
		err.Suggestion = "Run 'journal auth login' to sign in again."
	case KindServer:
		err.Suggestion = "The server encountered an error. Try again in a few moments."
	}
	return err
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthExpired
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
		return ""
	}

	// Some endpoints answer with a bare JSON string.
	var s string
	if strings.HasPrefix(trimmed, "\"") && json.Unmarshal(body, &s) == nil {
		return s
	}
	return trimmed
}

func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// KindOf returns the kind of err, or KindUnknown if err is not typed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is a typed error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message for err, falling back to fallback
// when err carries nothing useful. A bare status text counts as nothing
// useful when a fallback is given.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" && e.Kind != KindNetwork && !(e.generic && fallback != "") {
		return e.Message
	}
	return fallback
}

// Categorize converts a standard error into a typed Error
func Categorize(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "no such host"),
		strings.Contains(errMsg, "timeout"),
		strings.Contains(errMsg, "context deadline exceeded"):
		return Network(err)
	default:
		return New(KindUnknown, errMsg, err)
	}
}

// Format returns a user-friendly error message
func Format(err error) string {
	if err == nil {
		return ""
	}

	typed := Categorize(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if typed.Kind != KindUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(typed.Kind))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(typed.Message)
	sb.WriteString("\n")

	if typed.HasSuggestion() {
		sb.WriteString("Suggestion: ")
		sb.WriteString(typed.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

type reportedError struct {
	error
}

func (r reportedError) Unwrap() error { return r.error }

// MarkReported wraps err to record that the user has already been shown it.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// IsReported reports whether err, or anything it wraps, was marked reported.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
