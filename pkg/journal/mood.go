package journal

import (
	"fmt"
	"strings"
)

// Mood is the sentiment attached to an entry, in the server's upper-case form.
type Mood string

const (
	Happy   Mood = "HAPPY"
	Excited Mood = "EXCITED"
	Neutral Mood = "NEUTRAL"
	Anxious Mood = "ANXIOUS"
	Sad     Mood = "SAD"
)

// Moods lists every mood in display order.
var Moods = []Mood{Happy, Excited, Neutral, Anxious, Sad}

var moodEmoji = map[Mood]string{
	Happy:   "😊",
	Excited: "🤩",
	Neutral: "😐",
	Anxious: "😰",
	Sad:     "😔",
}

// ParseMood accepts any casing of a known mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q (want one of happy, excited, neutral, anxious, sad)", s)
	}
	return m, nil
}

// Valid reports whether m is one of Moods.
func (m Mood) Valid() bool {
	_, ok := moodEmoji[m]
	return ok
}

// Emoji returns the mood's emoji, or "" for an unknown mood.
func (m Mood) Emoji() string {
	return moodEmoji[m]
}

// Label is the capitalised name, e.g. "Happy".
func (m Mood) Label() string {
	if m == "" {
		return ""
	}
	s := strings.ToLower(string(m))
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m Mood) String() string {
	if e := m.Emoji(); e != "" {
		return e + " " + m.Label()
	}
	return m.Label()
}
