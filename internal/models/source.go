package models

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind is the format of a source, resolved once at the boundary.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindPDF
	KindHTML
	KindWord
	KindSpreadsheet
	KindText
)

var kindNames = map[SourceKind]string{
	KindUnknown:     "unknown",
	KindPDF:         "pdf",
	KindHTML:        "html",
	KindWord:        "word",
	KindSpreadsheet: "spreadsheet",
	KindText:        "text",
}

func (k SourceKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Uploadable reports whether the kind may be uploaded through the HTTP API.
func (k SourceKind) Uploadable() bool {
	return k == KindPDF || k == KindWord
}

var extKinds = map[string]SourceKind{
	".pdf":  KindPDF,
	".docx": KindWord,
	".odt":  KindWord,
	".rtf":  KindWord,
	".html": KindHTML,
	".htm":  KindHTML,
	".xlsx": KindSpreadsheet,
	".ods":  KindSpreadsheet,
	".txt":  KindText,
	".md":   KindText,
}

// IsURL reports whether ref is an absolute http(s) URL.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveSourceKind maps a file name or URL to its kind. URLs are always HTML;
// the fetcher may still detect a PDF from the response content type.
func ResolveSourceKind(ref string) (SourceKind, error) {
	if IsURL(ref) {
		return KindHTML, nil
	}
	ext := strings.ToLower(filepath.Ext(ref))
	if k, ok := extKinds[ext]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedSource, ref)
}
