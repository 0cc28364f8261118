package output

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/zfogg/moodjournal/pkg/client"
	"github.com/zfogg/moodjournal/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var codec = json.ConfigCompatibleWithStandardLibrary

var (
	mu     sync.Mutex
	writer io.Writer = color.Output
)

// SetWriter redirects all output to w and returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := writer
	writer = w
	return prev
}

// Writer returns the current output destination.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return writer
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Print outputs data in the configured format with optional title
func Print(title string, data interface{}) error {
	if GetOutputFormat() == FormatJSON {
		return printJSON(data)
	}
	if title != "" {
		fmt.Fprintf(Writer(), "%s:\n", title)
	}
	return printJSON(data)
}

// PrintTable writes rows under bold headers. With the json format the rows
// are emitted as a list of objects keyed by header instead.
func PrintTable(headers []string, rows [][]string) error {
	if GetOutputFormat() == FormatJSON {
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					rec[h] = row[i]
				}
			}
			records = append(records, rec)
		}
		return printJSON(records)
	}

	w := tabwriter.NewWriter(Writer(), 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)
	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// PrintRecord outputs a single record with keys in sorted order.
func PrintRecord(title string, record map[string]interface{}) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return printJSON(record)
	case FormatTable:
		rows := make([][]string, 0, len(record))
		for _, k := range sortedKeys(record) {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		return PrintTable([]string{"Field", "Value"}, rows)
	}

	w := Writer()
	if title != "" {
		fmt.Fprintf(w, "%s:\n", title)
	}
	bold := color.New(color.Bold)
	for _, key := range sortedKeys(record) {
		bold.Fprint(w, key+": ")
		fmt.Fprintf(w, "%v\n", record[key])
	}
	return nil
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Writer(), msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Writer(), "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Writer(), msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Writer(), "Warning: "+msg+"\n", args...)
}

// Toaster shows client notifications as single colored lines.
type Toaster struct{}

// Notify implements client.Notifier.
func (Toaster) Notify(level client.Level, message string) {
	switch level {
	case client.LevelSuccess:
		PrintSuccess("%s", message)
	case client.LevelWarning:
		PrintWarning("%s", message)
	case client.LevelError:
		PrintError("%s", message)
	default:
		PrintInfo("%s", message)
	}
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := codec.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatAsPrettyJSON converts data to an indented JSON string
func FormatAsPrettyJSON(data interface{}) (string, error) {
	b, err := codec.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printJSON(data interface{}) error {
	s, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Writer(), s)
	return err
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
