package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// extractWordCat handles the word-processor formats other than .docx
// (.odt, .rtf). Each non-empty line is one paragraph.
func extractWordCat(content []byte) ([]string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	return strings.Split(text, "\n"), nil
}
