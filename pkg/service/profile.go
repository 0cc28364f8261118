package service

import (
	"context"
	"fmt"

	"github.com/zfogg/moodjournal/pkg/api"
	"github.com/zfogg/moodjournal/pkg/formatter"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
)

type ProfileService struct {
	Deps
}

// NewProfileService creates a new profile service
func NewProfileService(d Deps) *ProfileService {
	return &ProfileService{Deps: d}
}

// ProfileForm is the profile edit form. Empty fields are left unchanged.
type ProfileForm struct {
	UserName        string
	NewPassword     string
	ConfirmPassword string
}

// Show prints the profile with streak, trend and mood distribution.
func (s *ProfileService) Show(ctx context.Context) error {
	profile, err := s.API.GetProfile(ctx)
	if err != nil {
		return fail(err, "Could not load profile. Check your server.")
	}

	stats := journal.Summarize(*profile, s.now())

	if output.GetOutputFormat() == output.FormatJSON {
		return output.Print("", stats)
	}

	memberSince := "-"
	if stats.JoinDate != "" {
		memberSince = fmt.Sprintf("%s (%d day%s)", journal.FormatJoinDate(stats.JoinDate),
			stats.DaysSinceJoin, formatter.Pluralize(stats.DaysSinceJoin))
	}
	mood := journal.Mood(stats.EmotionalStatus)
	if m, err := journal.ParseMood(stats.EmotionalStatus); err == nil {
		mood = m
	}

	if err := output.PrintRecord("Profile", map[string]interface{}{
		"Username":         stats.UserName,
		"Email":            stats.Email,
		"Member since":     memberSince,
		"Emotional status": mood.String(),
		"Total entries":    stats.TotalEntries,
		"Streak":           fmt.Sprintf("%d day%s", stats.StreakDays, formatter.Pluralize(stats.StreakDays)),
	}); err != nil {
		return err
	}

	w := output.Writer()
	fmt.Fprintln(w)
	formatter.Bold.Fprintln(w, "Emotional trend (last 7 days)")
	headers, rows := formatter.TrendRows(stats.Trend)
	if err := output.PrintTable(headers, rows); err != nil {
		return err
	}

	fmt.Fprintln(w)
	formatter.Bold.Fprintln(w, "Mood distribution")
	lines := formatter.DistributionLines(stats.Distribution)
	if len(lines) == 0 {
		fmt.Fprintln(w, "No entries yet")
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// Update changes the username and/or password.
func (s *ProfileService) Update(ctx context.Context, form ProfileForm) error {
	if err := journal.ValidatePasswordChange(form.NewPassword, form.ConfirmPassword); err != nil {
		return fail(err, "")
	}

	req := api.UpdateProfileRequest{UserName: form.UserName, Password: form.NewPassword}
	if req.Empty() {
		output.PrintWarning("Nothing to update")
		return nil
	}

	if err := s.API.UpdateProfile(ctx, req); err != nil {
		return fail(err, "Failed to update profile. Please try again.")
	}
	output.PrintSuccess("Profile updated successfully!")

	if req.UserName != "" {
		// The current user record changed under us.
		if err := s.Session.Hydrate(ctx); err != nil {
			logger.Debug("Re-hydration after profile update failed", "error", err)
		}
	}
	return nil
}
