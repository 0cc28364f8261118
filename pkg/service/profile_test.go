package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/moodjournal/pkg/config"
)

const profileBody = `{
	"userName":"alice",
	"email":"alice@example.com",
	"id":{"date":"2024-03-01T09:30:00"},
	"journalEntryList":[
		{"id":1,"title":"a","content":"x","sentiments":"HAPPY","date":"2024-03-10"},
		{"id":2,"title":"b","content":"y","sentiments":"SAD","date":"2024-03-09"},
		{"id":3,"title":"c","content":"z","sentiments":"HAPPY","date":"2024-03-09"}
	]
}`

func TestShowProfile(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /users", http.StatusOK, profileBody)

	require.NoError(t, NewProfileService(e.deps).Show(context.Background()))

	out := e.out.String()
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Email: alice@example.com")
	assert.Contains(t, out, "Member since: March 1, 2024")
	assert.Contains(t, out, "Emotional status: 😊 Happy")
	assert.Contains(t, out, "Total entries: 3")
	assert.Contains(t, out, "Streak: 2 days")
	assert.Contains(t, out, "Emotional trend (last 7 days)")
	assert.Contains(t, out, "03-10")
	assert.Contains(t, out, "Mood distribution")
	assert.Contains(t, out, "2 (66%)")
}

func TestShowProfileWithoutEntries(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /users", http.StatusOK, `{"userName":"alice","journalEntryList":[]}`)

	require.NoError(t, NewProfileService(e.deps).Show(context.Background()))

	out := e.out.String()
	assert.Contains(t, out, "Member since: -")
	assert.Contains(t, out, "Streak: 0 days")
	assert.Contains(t, out, "No entries yet")
}

func TestShowProfileJSON(t *testing.T) {
	e := newEnv(t, "")
	config.Set("output.format", "json")
	t.Cleanup(func() { config.Set("output.format", "text") })
	e.server.respond("GET /users", http.StatusOK, profileBody)

	require.NoError(t, NewProfileService(e.deps).Show(context.Background()))

	assert.Contains(t, e.out.String(), `"StreakDays": 2`)
}

func TestShowProfileFailure(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /users", http.StatusInternalServerError, "")

	err := NewProfileService(e.deps).Show(context.Background())

	require.Error(t, err)
	assert.Contains(t, e.out.String(), "Could not load profile. Check your server.")
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("GET /users/me", http.StatusOK, `{"userName":"alicia"}`)

	err := NewProfileService(e.deps).Update(context.Background(), ProfileForm{UserName: "alicia"})

	require.NoError(t, err)
	puts := e.server.calls("PUT /users/update-user")
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"userName":"alicia"}`, puts[0].body)
	assert.Contains(t, e.out.String(), "Profile updated successfully!")
	assert.Equal(t, "alicia", e.deps.Session.Snapshot().User.Field("userName"))
}

func TestUpdateProfilePassword(t *testing.T) {
	e := newEnv(t, "")

	err := NewProfileService(e.deps).Update(context.Background(), ProfileForm{NewPassword: "secret12", ConfirmPassword: "secret12"})

	require.NoError(t, err)
	puts := e.server.calls("PUT /users/update-user")
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"password":"secret12"}`, puts[0].body)
	assert.Empty(t, e.server.calls("GET /users/me"))
}

func TestUpdateProfileRejectsMismatch(t *testing.T) {
	e := newEnv(t, "")

	err := NewProfileService(e.deps).Update(context.Background(), ProfileForm{NewPassword: "secret12", ConfirmPassword: "secret13"})

	require.Error(t, err)
	assert.Empty(t, e.server.calls("PUT /users/update-user"))
}

func TestUpdateProfileNothingToDo(t *testing.T) {
	e := newEnv(t, "")

	require.NoError(t, NewProfileService(e.deps).Update(context.Background(), ProfileForm{}))

	assert.Contains(t, e.out.String(), "Nothing to update")
	assert.Empty(t, e.server.calls("PUT /users/update-user"))
}

func TestUpdateProfileFailure(t *testing.T) {
	e := newEnv(t, "")
	e.server.respond("PUT /users/update-user", http.StatusInternalServerError, "")

	err := NewProfileService(e.deps).Update(context.Background(), ProfileForm{UserName: "alicia"})

	require.Error(t, err)
	assert.Contains(t, e.out.String(), "Failed to update profile. Please try again.")
}
