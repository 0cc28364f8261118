package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/moodjournal/pkg/config"
	"github.com/zfogg/moodjournal/pkg/journal"
	"github.com/zfogg/moodjournal/pkg/output"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	config.Set("output.format", "text")
	buf := &bytes.Buffer{}
	prev := output.SetWriter(buf)
	t.Cleanup(func() { output.SetWriter(prev) })
	return buf
}

func TestEntryRows(t *testing.T) {
	entries := []journal.Entry{
		{ID: "1", Date: "2024-03-10T08:00:00", Sentiments: journal.Happy, Title: "Morning", Tags: []string{"a", "b", "c", "d", "e"}},
		{ID: "2", Date: "2024-03-09", Title: strings.Repeat("x", 50)},
	}

	rows := EntryRows(entries)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2024-03-10", "😊", "Morning", "a, b, c +2"}, rows[0])
	assert.Equal(t, "", rows[1][2])
	assert.Len(t, rows[1][3], titleWidth)
	assert.True(t, strings.HasSuffix(rows[1][3], "..."))
}

func TestPrintEntry(t *testing.T) {
	buf := capture(t)

	require.NoError(t, PrintEntry(journal.Entry{
		Title: "Morning", Date: "2024-03-10", Sentiments: journal.Sad, Tags: []string{"rain"}, Content: "Grey skies.",
	}))

	assert.Equal(t, "Morning\nSunday, March 10, 2024\nMood: 😔 Sad\nTags: rain\n\nGrey skies.\n", buf.String())
}

func TestPrintEntries(t *testing.T) {
	buf := capture(t)

	require.NoError(t, PrintEntries([]journal.Entry{{ID: "7", Date: "2024-03-10", Title: "Hi"}}))

	assert.Contains(t, buf.String(), "ID")
	assert.Contains(t, buf.String(), "Hi")
}

func TestTrendRows(t *testing.T) {
	points := []journal.TrendPoint{{Date: "03-10", Counts: map[journal.Mood]int{journal.Happy: 2, journal.Sad: 1}}}

	headers, rows := TrendRows(points)

	assert.Equal(t, []string{"DATE", "😊", "🤩", "😐", "😰", "😔"}, headers)
	assert.Equal(t, [][]string{{"03-10", "2", "0", "0", "0", "1"}}, rows)
}

func TestDistributionLines(t *testing.T) {
	lines := DistributionLines([]journal.Slice{{Mood: journal.Happy, Count: 3}, {Mood: journal.Sad, Count: 1}})

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "😊 Happy"))
	assert.True(t, strings.HasSuffix(lines[0], "3 (75%)"))
	assert.Equal(t, 15, strings.Count(lines[0], "█"))
	assert.Equal(t, 5, strings.Count(lines[1], "█"))

	assert.Nil(t, DistributionLines(nil))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"short", 10, "short"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.input, tt.length), tt.input)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "one two three", Preview("one\n two\t\tthree "))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "s", Pluralize(0))
	assert.Equal(t, "", Pluralize(1))
	assert.Equal(t, "s", Pluralize(2))
}
