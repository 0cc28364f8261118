package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	apperrors "github.com/zfogg/moodjournal/pkg/errors"
)

const dateLayout = "2006-01-02"

// ID identifies an entry. The server may send it as a string or a number.
type ID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(x)
	case float64:
		*id = ID(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("entry id: unexpected JSON %s", string(data))
	}
	return nil
}

// Entry is a journal entry as the API returns it.
type Entry struct {
	ID         ID       `json:"id,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Sentiments Mood     `json:"sentiments,omitempty"`
	Date       string   `json:"date,omitempty"`
}

// Day returns the YYYY-MM-DD part of the entry date.
func (e Entry) Day() string {
	return day(e.Date)
}

// Time parses Day. ok is false when the date is missing or malformed.
func (e Entry) Time() (time.Time, bool) {
	return parseDay(e.Date)
}

func day(s string) string {
	if len(s) > len(dateLayout) {
		return s[:len(dateLayout)]
	}
	return s
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, day(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Filter keeps entries whose title, content or any tag contains term,
// ignoring case. An empty term keeps everything.
func Filter(entries []Entry, term string) []Entry {
	needle := strings.ToLower(term)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Content), needle) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Remove returns entries without the one whose id is id.
func Remove(entries []Entry, id ID) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Draft is an entry being written or edited.
type Draft struct {
	Title   string
	Content string
	Mood    Mood
	Tags    []string
}

// DraftFrom pre-fills a draft for editing e.
func DraftFrom(e Entry) Draft {
	return Draft{
		Title:   e.Title,
		Content: e.Content,
		Mood:    e.Sentiments,
		Tags:    append([]string(nil), e.Tags...),
	}
}

// AddTag trims and lower-cases tag and appends it unless it is empty or
// already present. It reports whether the tag was added.
func (d *Draft) AddTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, t := range d.Tags {
		if t == tag {
			return false
		}
	}
	d.Tags = append(d.Tags, tag)
	return true
}

// RemoveTag drops tag if present.
func (d *Draft) RemoveTag(tag string) {
	kept := d.Tags[:0]
	for _, t := range d.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	d.Tags = kept
}

// ToggleMood selects m, or clears the mood if m is already selected.
func (d *Draft) ToggleMood(m Mood) {
	if d.Mood == m {
		d.Mood = ""
		return
	}
	d.Mood = m
}

// Validate returns the first problem that keeps the draft from being saved.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return apperrors.Validation("Please fill in both title and content.")
	}
	if d.Mood == "" {
		return apperrors.Validation("Please select your mood.")
	}
	if !d.Mood.Valid() {
		return apperrors.Validation("Unknown mood " + strconv.Quote(string(d.Mood)) + ".")
	}
	return nil
}

// Payload is the body sent to create or update an entry.
type Payload struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Sentiments Mood     `json:"sentiments"`
}

// Payload trims the text fields. Tags are always sent as a list.
func (d Draft) Payload() Payload {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Payload{
		Title:      strings.TrimSpace(d.Title),
		Content:    strings.TrimSpace(d.Content),
		Tags:       tags,
		Sentiments: d.Mood,
	}
}
