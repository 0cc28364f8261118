package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/output"
)

var (
	Bold = color.New(color.Bold)
	Dim  = color.New(color.Faint)
)

const (
	titleWidth   = 40
	previewWidth = 120
	barWidth     = 20
	maxListTags  = 3
)

// EntryRows renders entries as table rows: ID, DATE, MOOD, TITLE, TAGS.
// Only the first three tags are shown, like the dashboard cards.
func EntryRows(entries []journal.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		tags := e.Tags
		more := ""
		if len(tags) > maxListTags {
			more = fmt.Sprintf(" +%d", len(tags)-maxListTags)
			tags = tags[:maxListTags]
		}
		rows = append(rows, []string{
			string(e.ID),
			e.Day(),
			e.Sentiments.Emoji(),
			Truncate(e.Title, titleWidth),
			strings.Join(tags, ", ") + more,
		})
	}
	return rows
}

// PrintEntries prints the dashboard list.
func PrintEntries(entries []journal.Entry) error {
	return output.PrintTable([]string{"ID", "DATE", "MOOD", "TITLE", "TAGS"}, EntryRows(entries))
}

// PrintEntry prints one entry in full.
func PrintEntry(e journal.Entry) error {
	if output.GetOutputFormat() == output.FormatJSON {
		return output.Print("", e)
	}

	w := output.Writer()
	Bold.Fprintln(w, e.Title)
	Dim.Fprintln(w, journal.FormatLongDate(e.Day()))
	if e.Sentiments != "" {
		fmt.Fprintf(w, "Mood: %s\n", e.Sentiments)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, e.Content)
	return nil
}

// Preview shortens content to one line for confirmations.
func Preview(content string) string {
	return Truncate(strings.Join(strings.Fields(content), " "), previewWidth)
}

// TrendRows renders the seven-day trend as rows: DATE then one count per
// mood in journal.Moods order.
func TrendRows(points []journal.TrendPoint) (headers []string, rows [][]string) {
	headers = []string{"DATE"}
	for _, m := range journal.Moods {
		headers = append(headers, m.Emoji())
	}
	for _, p := range points {
		row := []string{p.Date}
		for _, m := range journal.Moods {
			row = append(row, fmt.Sprintf("%d", p.Counts[m]))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// DistributionLines renders each mood's share as a bar.
func DistributionLines(slices []journal.Slice) []string {
	total := 0
	for _, s := range slices {
		total += s.Count
	}
	if total == 0 {
		return nil
	}

	lines := make([]string, 0, len(slices))
	for _, s := range slices {
		n := s.Count * barWidth / total
		if n == 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%s %-8s %-*s %d (%d%%)",
			s.Mood.Emoji(), s.Mood.Label(), barWidth, strings.Repeat("█", n), s.Count, s.Count*100/total))
	}
	return lines
}

// Truncate shortens s to at most length runes, ending in "...".
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	if length <= 3 {
		return string([]rune(s)[:length])
	}
	return string([]rune(s)[:length-3]) + "..."
}

// Pluralize returns "s" unless count is 1.
func Pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
