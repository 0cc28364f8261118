package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/moodjournal/pkg/config"
	apperrors "github.com/zfogg/moodjournal/pkg/errors"
	"github.com/zfogg/moodjournal/pkg/journal"
)

const twoEntries = `[
	{"id":1,"title":"Morning walk","content":"Sunny","tags":["outdoors"],"sentiments":"HAPPY","date":"2024-03-10"},
	{"id":"2","title":"Rainy day","content":"Stayed in","tags":["home"],"sentiments":"SAD","date":"2024-03-09"}
]`

func TestListEntries(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal", http.StatusOK, twoEntries)

	require.NoError(t, NewEntryService(e.deps).List(context.Background(), ""))

	out := e.out.String()
	assert.Contains(t, out, "2 entries • Continue your journaling journey")
	assert.Contains(t, out, "Morning walk")
	assert.Contains(t, out, "Rainy day")
}

func TestListEntriesSearch(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal", http.StatusOK, twoEntries)
	entries := NewEntryService(e.deps)

	require.NoError(t, entries.List(context.Background(), "HOME"))
	assert.Contains(t, e.out.String(), "Rainy day")
	assert.NotContains(t, e.out.String(), "Morning walk")

	e.out.Reset()
	require.NoError(t, entries.List(context.Background(), "nothing matches"))
	assert.Contains(t, e.out.String(), "No entries found")
	assert.Contains(t, e.out.String(), "Try different search terms or create a new entry")
}

func TestListEntriesEmpty(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal", http.StatusOK, `[]`)

	require.NoError(t, NewEntryService(e.deps).List(context.Background(), ""))

	assert.Contains(t, e.out.String(), "0 entries")
	assert.Contains(t, e.out.String(), "Start Your Journey")
}

func TestListEntriesFailureStillRenders(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal", http.StatusInternalServerError, "")

	require.NoError(t, NewEntryService(e.deps).List(context.Background(), ""))

	assert.Contains(t, e.out.String(), "Failed to load journal entries.")
	assert.Contains(t, e.out.String(), "Start Your Journey")
}

func TestListEntriesJSON(t *testing.T) {
	e := newEnv(t, "")
	config.Set("output.format", "json")
	t.Cleanup(func() { config.Set("output.format", "text") })
	e.server.respond("GET /journal", http.StatusOK, twoEntries)

	require.NoError(t, NewEntryService(e.deps).List(context.Background(), "walk"))

	assert.Contains(t, e.out.String(), `"Morning walk"`)
	assert.NotContains(t, e.out.String(), "Rainy day")
}

func TestShowEntry(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal/7", http.StatusOK,
		`{"id":7,"title":"Morning walk","content":"Sunny","tags":["outdoors"],"sentiments":"HAPPY","date":"2024-03-10"}`)

	require.NoError(t, NewEntryService(e.deps).Show(context.Background(), "7"))

	assert.Contains(t, e.out.String(), "Sunday, March 10, 2024")
	assert.Contains(t, e.out.String(), "Mood: 😊 Happy")
}

func TestCreateEntry(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("POST /journal", http.StatusOK, `{"id":12,"title":"Hello"}`)

	d := journal.Draft{Title: " Hello ", Content: "World", Mood: mustMood(t, "happy")}
	d.AddTag("Work")
	require.NoError(t, NewEntryService(e.deps).Create(context.Background(), d))

	posts := e.server.calls("POST /journal")
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"title":"Hello","content":"World","tags":["work"],"sentiments":"HAPPY"}`, posts[0].body)
	assert.Contains(t, e.out.String(), "Entry saved successfully!")
	assert.Contains(t, e.out.String(), "id 12")
	assert.Equal(t, RouteDashboard, e.router.Current())
}

func TestCreateEntryEmptyResponse(t *testing.T) {
	e := newEnv(t, "")

	d := journal.Draft{Title: "Hello", Content: "World", Mood: journal.Neutral}
	require.NoError(t, NewEntryService(e.deps).Create(context.Background(), d))

	assert.Contains(t, e.out.String(), "Your journal entry has been created.")
}

func TestCreateEntryValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft journal.Draft
		want  string
	}{
		{"missing content", journal.Draft{Title: "Hello", Mood: journal.Happy}, "Please fill in both title and content."},
		{"missing mood", journal.Draft{Title: "Hello", Content: "World"}, "Please select your mood."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, "")

			err := NewEntryService(e.deps).Create(context.Background(), tt.draft)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
			assert.Contains(t, e.out.String(), tt.want)
			assert.Empty(t, e.server.calls("POST /journal"))
		})
	}
}

func TestCreateEntryServerFailure(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("POST /journal", http.StatusInternalServerError, "")

	err := NewEntryService(e.deps).Create(context.Background(), journal.Draft{Title: "a", Content: "b", Mood: journal.Sad})

	require.Error(t, err)
	assert.Contains(t, e.out.String(), "Failed to save entry. Please try again.")
	assert.Empty(t, e.router.Current())
}

func TestComposePromptsForMissingFields(t *testing.T) {
	e := newEnv(t, "Hello\nline one\nline two\n\n5\n")

	d := journal.Draft{}
	require.NoError(t, NewEntryService(e.deps).Compose(&d))

	assert.Equal(t, "Hello", d.Title)
	assert.Equal(t, "line one\nline two", d.Content)
	assert.Equal(t, journal.Moods[4], d.Mood)
}

func TestComposeKeepsGivenFields(t *testing.T) {
	e := newEnv(t, "")

	d := journal.Draft{Title: "t"}
	require.NoError(t, NewEntryService(e.deps).Compose(&d))

	assert.Equal(t, journal.Draft{Title: "t"}, d)
}

func TestEditEntry(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal/3", http.StatusOK,
		`{"id":3,"title":"Old","content":"Body","tags":["a","b"],"sentiments":"SAD","date":"2024-03-10"}`)

	title := "New"
	mood := journal.Excited
	err := NewEntryService(e.deps).Edit(context.Background(), "3", EditChanges{
		Title:      &title,
		Mood:       &mood,
		AddTags:    []string{"c", "A"},
		RemoveTags: []string{" B "},
	})

	require.NoError(t, err)
	puts := e.server.calls("PUT /journal/3")
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"title":"New","content":"Body","tags":["a","c"],"sentiments":"EXCITED"}`, puts[0].body)
	assert.Contains(t, e.out.String(), "Entry updated successfully!")
	assert.Equal(t, RouteDashboard, e.router.Current())
}

func TestEditEntryFailure(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /journal/3", http.StatusOK, `{"id":3,"title":"Old","content":"Body","sentiments":"SAD"}`)
	e.server.respond("PUT /journal/3", http.StatusBadRequest, "")

	err := NewEntryService(e.deps).Edit(context.Background(), "3", EditChanges{})

	require.Error(t, err)
	assert.Contains(t, e.out.String(), "Failed to update entry. Please try again.")
}

func TestDeleteEntry(t *testing.T) {
	e := newEnv(t, "")

	require.NoError(t, NewEntryService(e.deps).Delete(context.Background(), "5", true))

	assert.Len(t, e.server.calls("DELETE /journal/5"), 1)
	assert.Contains(t, e.out.String(), "Your journal entry has been successfully deleted.")
}

func TestDeleteEntryConfirmation(t *testing.T) {
	e := newEnv(t, "n\n")

	require.NoError(t, NewEntryService(e.deps).Delete(context.Background(), "5", false))

	assert.Empty(t, e.server.calls("DELETE /journal/5"))
	assert.Contains(t, e.out.String(), "Cancelled")
}

func TestDeleteEntryFailure(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("DELETE /journal/5", http.StatusInternalServerError, "")

	err := NewEntryService(e.deps).Delete(context.Background(), "5", true)

	require.Error(t, err)
	assert.True(t, apperrors.IsReported(err))
	assert.Contains(t, e.out.String(), "Failed to delete entry. Please try again.")
}

func TestEntryCallAfterFailedRefreshIsQuiet(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /users/me", http.StatusOK, `{"userName":"alice"}`)
	require.NoError(t, e.deps.Session.Hydrate(context.Background()))
	e.server.respond("DELETE /journal/5", http.StatusUnauthorized, "")

	err := NewEntryService(e.deps).Delete(context.Background(), "5", true)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindAuthFinal))
	assert.False(t, e.deps.Session.IsAuthenticated())
	assert.Len(t, e.server.calls("POST /public/refresh"), 1)
	assert.Contains(t, e.out.String(), "Session expired. Please log in again.")
	assert.NotContains(t, e.out.String(), "Failed to delete entry")
}
