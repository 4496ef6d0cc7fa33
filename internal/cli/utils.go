// Package cli provides output formatting for the tanya command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAnswer writes an answer to w in the given format. With showSources
// the text format lists the retrieved segments below the answer.
func WriteAnswer(w io.Writer, answer *models.Answer, format OutputFormat, showSources bool) error {
	if format == OutputJSON {
		return writeJSON(w, answer)
	}
	fmt.Fprintf(w, "\n%s\n", answer.Text)
	if showSources && len(answer.Sources) > 0 {
		fmt.Fprintf(w, "\n--- Sources (%dms) ---\n", answer.TookMs)
		for i, c := range answer.Sources {
			fmt.Fprintf(w, "[%d] %s #%d | Score: %.4f\n", i+1, c.Source, c.SequenceIndex, c.Score)
			fmt.Fprintf(w, "    %s\n", utils.Truncate(strings.Join(strings.Fields(c.Text), " "), 120))
		}
	}
	fmt.Fprintln(w)
	return nil
}

// WriteStatus writes a session status to w in the given format.
func WriteStatus(w io.Writer, status *models.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	if status.State != models.StateReady {
		fmt.Fprintln(w, "No document loaded.")
		return nil
	}
	fmt.Fprintf(w, "Source:     %s\n", status.Source)
	fmt.Fprintf(w, "Segments:   %d\n", status.Segments)
	fmt.Fprintf(w, "Dimensions: %d\n", status.Dimensions)
	if status.BuiltAt != nil {
		fmt.Fprintf(w, "Built at:   %s\n", status.BuiltAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
