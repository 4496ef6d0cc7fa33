package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/tanya/internal/models"
)

func sampleAnswer() *models.Answer {
	return &models.Answer{
		Query:  "What do electric vehicles use?",
		Text:   "Batteries.",
		TookMs: 12,
		Sources: []models.Citation{
			{Source: "ev.pdf", SequenceIndex: 0, Score: 0.91, Text: "Electric vehicles use\nbatteries."},
		},
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAnswer(), OutputJSON, false); err != nil {
		t.Fatalf("WriteAnswer(json): %v", err)
	}
	var decoded models.Answer
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Text != "Batteries." || len(decoded.Sources) != 1 || decoded.Sources[0].Source != "ev.pdf" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteAnswer_Text(t *testing.T) {
	tests := []struct {
		name        string
		showSources bool
		want        []string
		notWant     []string
	}{
		{"answer only", false, []string{"Batteries."}, []string{"Sources"}},
		{"with sources", true, []string{"Batteries.", "Sources (12ms)", "[1] ev.pdf #0 | Score: 0.9100", "Electric vehicles use batteries."}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteAnswer(&buf, sampleAnswer(), OutputText, tt.showSources); err != nil {
				t.Fatal(err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteStatus(&buf, &models.Status{State: models.StateEmpty}, OutputText)
	if !strings.Contains(buf.String(), "No document loaded") {
		t.Errorf("got %q", buf.String())
	}

	built := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	buf.Reset()
	_ = WriteStatus(&buf, &models.Status{State: models.StateReady, Source: "ev.pdf", Segments: 4, Dimensions: 768, BuiltAt: &built}, OutputText)
	for _, s := range []string{"ev.pdf", "Segments:   4", "768", "2024-01-02 03:04:05"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("missing %q in %q", s, buf.String())
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
