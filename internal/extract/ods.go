package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// odsContentPath is the path to the main content inside an .ods zip.
const odsContentPath = "content.xml"

var (
	odsTable   = regexp.MustCompile(`(?s)<table:table(?:\s[^>]*)?>.*?</table:table>`)
	odsRow     = regexp.MustCompile(`(?s)<table:table-row[^>]*>.*?</table:table-row>`)
	odsTextP   = regexp.MustCompile(`(?s)<text:p[^>]*>(.*?)</text:p>`)
	xmlElement = regexp.MustCompile(`<[^>]+>`)
)

// extractODS returns one text per sheet of an OpenDocument spreadsheet, with
// the same row/cell layout as extractExcel.
func extractODS(content []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract ODS: not a zip: %w", err)
	}
	contentXML, err := readZipFile(zr, odsContentPath)
	if err != nil {
		return nil, fmt.Errorf("extract ODS: %w", err)
	}
	if contentXML == nil {
		return nil, fmt.Errorf("extract ODS: %s not found", odsContentPath)
	}

	var sheets []string
	for _, table := range odsTable.FindAllString(string(contentXML), -1) {
		var b strings.Builder
		for _, row := range odsRow.FindAllString(table, -1) {
			var cells []string
			for _, p := range odsTextP.FindAllStringSubmatch(row, -1) {
				cell := html.UnescapeString(xmlElement.ReplaceAllString(p[1], ""))
				cells = append(cells, strings.TrimSpace(cell))
			}
			if len(cells) > 0 {
				b.WriteString(strings.Join(cells, "\t"))
				b.WriteByte('\n')
			}
		}
		sheets = append(sheets, b.String())
	}
	return sheets, nil
}
