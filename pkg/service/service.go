package service

import (
	"time"

	"github.com/zfogg/moodjournal/pkg/api"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/credentials"
	apperrors "github.com/zfogg/moodjournal/pkg/errors"
	"github.com/zfogg/moodjournal/pkg/output"
	"github.com/zfogg/moodjournal/pkg/prompter"
	"github.com/zfogg/moodjournal/pkg/session"
)

// Routes the services navigate to on success.
const (
	RouteDashboard = "/dashboard"
	RouteVerifyOTP = "/verify-otp"
	RouteProfile   = "/profile"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	API       *api.API
	Session   *session.Coordinator
	Navigator client.Navigator
	Prompt    *prompter.Prompter
	// Jar and AccessCookie are optional; they only feed the status view.
	Jar          *credentials.Jar
	AccessCookie string
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) navigate(route string) {
	if d.Navigator != nil {
		d.Navigator.Navigate(route)
	}
}

// fail shows the message for err inline and returns err marked as reported.
// A failed refresh has already told the user their session expired.
func fail(err error, fallback string) error {
	if !apperrors.Is(err, apperrors.KindAuthFinal) {
		output.PrintError("%s", apperrors.MessageOf(err, fallback))
	}
	return apperrors.MarkReported(err)
}
