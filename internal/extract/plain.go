package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var blankLines = regexp.MustCompile(`\n[ \t\r]*\n`)

// extractPlain splits text on blank lines. Invalid UTF-8 sequences are
// replaced with the replacement character.
func extractPlain(content []byte) ([]string, error) {
	text := string(content)
	if !utf8.Valid(content) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return blankLines.Split(text, -1), nil
}
