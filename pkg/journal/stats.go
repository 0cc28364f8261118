package journal

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Profile is the signed-in user's record including every entry.
type Profile struct {
	UserName string    `json:"userName"`
	Email    string    `json:"email"`
	ID       ProfileID `json:"id"`
	Entries  []Entry   `json:"journalEntryList"`
}

// ProfileID carries the account creation timestamp.
type ProfileID struct {
	Date string `json:"date"`
}

// JoinDate is the YYYY-MM-DD the account was created, or "".
func (p Profile) JoinDate() string {
	if p.ID.Date == "" {
		return ""
	}
	return day(p.ID.Date)
}

// Streak counts consecutive days, walking back from the most recent entry
// date. Entries on the same day count once. No entries is a streak of 0.
func Streak(entries []Entry) int {
	seen := make(map[string]bool)
	var days []time.Time
	for _, e := range entries {
		t, ok := e.Time()
		if !ok || seen[e.Day()] {
			continue
		}
		seen[e.Day()] = true
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

// TrendPoint is one day of the emotional trend.
type TrendPoint struct {
	// Date is MM-DD.
	Date   string
	Counts map[Mood]int
}

// Trend counts moods per day over the seven days ending on now. Entries
// without a mood count as neutral; unknown moods are ignored.
func Trend(entries []Entry, now time.Time) []TrendPoint {
	index := make(map[string]int, 7)
	points := make([]TrendPoint, 7)
	for i := 0; i < 7; i++ {
		d := now.AddDate(0, 0, i-6).Format(dateLayout)
		index[d] = i
		counts := make(map[Mood]int, len(Moods))
		for _, m := range Moods {
			counts[m] = 0
		}
		points[i] = TrendPoint{Date: d[5:], Counts: counts}
	}

	for _, e := range entries {
		i, ok := index[e.Day()]
		if !ok {
			continue
		}
		m := e.Sentiments
		if m == "" {
			m = Neutral
		}
		m = Mood(strings.ToUpper(string(m)))
		if _, known := points[i].Counts[m]; known {
			points[i].Counts[m]++
		}
	}
	return points
}

// Slice is one mood's share of all entries.
type Slice struct {
	Mood  Mood
	Count int
}

// Distribution counts entries per mood in Moods order, dropping moods with
// no entries. Entries without a mood count as neutral.
func Distribution(entries []Entry) []Slice {
	counts := make(map[Mood]int, len(Moods))
	for _, e := range entries {
		m := Mood(strings.ToUpper(string(e.Sentiments)))
		if m == "" {
			m = Neutral
		}
		counts[m]++
	}

	var out []Slice
	for _, m := range Moods {
		if counts[m] > 0 {
			out = append(out, Slice{Mood: m, Count: counts[m]})
		}
	}
	return out
}

// LatestSentiment is the lower-case mood of the most recent entry, or
// "neutral" if there is none.
func LatestSentiment(entries []Entry) string {
	if len(entries) == 0 {
		return "neutral"
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day() > sorted[j].Day() })

	if sorted[0].Sentiments == "" {
		return "neutral"
	}
	return strings.ToLower(string(sorted[0].Sentiments))
}

// DaysSince counts whole days between date and now, rounding up. ok is false
// when date is empty or malformed.
func DaysSince(date string, now time.Time) (int, bool) {
	t, ok := parseDay(date)
	if !ok {
		return 0, false
	}
	diff := math.Abs(now.Sub(t).Hours() / 24)
	return int(math.Ceil(diff)), true
}

// Stats is everything the profile view derives from a Profile.
type Stats struct {
	UserName        string
	Email           string
	JoinDate        string
	DaysSinceJoin   int
	EmotionalStatus string
	TotalEntries    int
	StreakDays      int
	Trend           []TrendPoint
	Distribution    []Slice
}

// Summarize derives profile statistics as of now.
func Summarize(p Profile, now time.Time) Stats {
	s := Stats{
		UserName:        p.UserName,
		Email:           p.Email,
		JoinDate:        p.JoinDate(),
		EmotionalStatus: LatestSentiment(p.Entries),
		TotalEntries:    len(p.Entries),
		StreakDays:      Streak(p.Entries),
		Trend:           Trend(p.Entries, now),
		Distribution:    Distribution(p.Entries),
	}
	if days, ok := DaysSince(s.JoinDate, now); ok {
		s.DaysSinceJoin = days
	}
	return s
}

// FormatLongDate renders YYYY-MM-DD as "Monday, January 2, 2006". Malformed
// input is returned unchanged.
func FormatLongDate(date string) string {
	t, ok := parseDay(date)
	if !ok {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatJoinDate renders YYYY-MM-DD as "January 2, 2006".
func FormatJoinDate(date string) string {
	t, ok := parseDay(date)
	if !ok {
		return date
	}
	return t.Format("January 2, 2006")
}
