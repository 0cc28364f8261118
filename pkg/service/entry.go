package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/zfogg/moodjournal/pkg/errors"
	"github.com/zfogg/moodjournal/pkg/formatter"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/logger"
	"github.com/zfogg/moodjournal/pkg/output"
)

const maxContentLines = 200

type EntryService struct {
	Deps
}

// NewEntryService creates a new entry service
func NewEntryService(d Deps) *EntryService {
	return &EntryService{Deps: d}
}

// EditChanges lists what an edit changes. Nil fields are kept.
type EditChanges struct {
	Title      *string
	Content    *string
	Mood       *journal.Mood
	AddTags    []string
	RemoveTags []string
}

// List prints the dashboard. A failed fetch is shown as a notice and the
// rest of the view still renders, empty.
func (s *EntryService) List(ctx context.Context, search string) error {
	entries, err := s.API.ListEntries(ctx)
	if err != nil {
		logger.Warn("Failed to load journal entries", "error", err)
		if !apperrors.Is(err, apperrors.KindAuthFinal) {
			output.PrintError("Failed to load journal entries.")
		}
		entries = nil
	}

	filtered := journal.Filter(entries, search)

	if output.GetOutputFormat() == output.FormatJSON {
		return output.Print("", filtered)
	}

	output.PrintInfo("%d entr%s • Continue your journaling journey", len(entries), entryPlural(len(entries)))

	if len(filtered) == 0 {
		if search != "" {
			output.PrintWarning("No entries found")
			output.PrintInfo("Try different search terms or create a new entry")
		} else {
			output.PrintInfo("Start Your Journey")
			output.PrintInfo("Your first journal entry is just a command away: journal entry create")
		}
		return nil
	}
	return formatter.PrintEntries(filtered)
}

// Show prints one entry.
func (s *EntryService) Show(ctx context.Context, id journal.ID) error {
	entry, err := s.API.GetEntry(ctx, id)
	if err != nil {
		return fail(err, "Failed to load entry.")
	}
	return formatter.PrintEntry(*entry)
}

// Compose prompts for whatever the draft is missing.
func (s *EntryService) Compose(d *journal.Draft) error {
	if s.Prompt == nil {
		return nil
	}
	var err error
	if d.Title == "" {
		if d.Title, err = s.Prompt.String("Title: "); err != nil {
			return err
		}
	}
	if d.Content == "" {
		if d.Content, err = s.Prompt.Multiline("How are you feeling today?", maxContentLines); err != nil {
			return err
		}
	}
	if d.Mood == "" {
		options := make([]string, len(journal.Moods))
		for i, m := range journal.Moods {
			options[i] = m.String()
		}
		idx, err := s.Prompt.Select("Mood:", options)
		if err != nil {
			return err
		}
		d.ToggleMood(journal.Moods[idx])
	}
	return nil
}

// Create validates and saves a new entry.
func (s *EntryService) Create(ctx context.Context, d journal.Draft) error {
	if err := d.Validate(); err != nil {
		return fail(err, "")
	}

	created, err := s.API.CreateEntry(ctx, d.Payload())
	if err != nil {
		return fail(err, "Failed to save entry. Please try again.")
	}

	output.PrintSuccess("Entry saved successfully!")
	if created != nil && created.ID != "" {
		output.PrintInfo("Your journal entry has been created (id %s).", created.ID)
	} else {
		output.PrintInfo("Your journal entry has been created.")
	}
	s.navigate(RouteDashboard)
	return nil
}

// Edit loads the entry, applies changes and saves it.
func (s *EntryService) Edit(ctx context.Context, id journal.ID, changes EditChanges) error {
	entry, err := s.API.GetEntry(ctx, id)
	if err != nil {
		return fail(err, "Failed to load entry.")
	}

	d := journal.DraftFrom(*entry)
	if changes.Title != nil {
		d.Title = *changes.Title
	}
	if changes.Content != nil {
		d.Content = *changes.Content
	}
	if changes.Mood != nil {
		d.Mood = *changes.Mood
	}
	for _, tag := range changes.RemoveTags {
		d.RemoveTag(strings.ToLower(strings.TrimSpace(tag)))
	}
	for _, tag := range changes.AddTags {
		d.AddTag(tag)
	}

	if err := d.Validate(); err != nil {
		return fail(err, "")
	}

	if _, err := s.API.UpdateEntry(ctx, id, d.Payload()); err != nil {
		return fail(err, "Failed to update entry. Please try again.")
	}

	output.PrintSuccess("Entry updated successfully!")
	output.PrintInfo("Your journal entry has been updated.")
	s.navigate(RouteDashboard)
	return nil
}

// Delete removes an entry, asking first unless force is set.
func (s *EntryService) Delete(ctx context.Context, id journal.ID, force bool) error {
	if !force && s.Prompt != nil {
		ok, err := s.Prompt.Confirm(fmt.Sprintf("Delete entry %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			output.PrintInfo("Cancelled")
			return nil
		}
	}

	if err := s.API.DeleteEntry(ctx, id); err != nil {
		return fail(err, "Failed to delete entry. Please try again.")
	}
	output.PrintSuccess("Your journal entry has been successfully deleted.")
	return nil
}

func entryPlural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
