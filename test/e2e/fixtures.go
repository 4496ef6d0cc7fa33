package e2e

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions lists the formats the e2e tests render the corpus
// into. PDF is covered by the extract package tests; .odt and .rtf go through
// the same Word path as .docx.
var SupportedFileExtensions = []string{
	".txt", ".md", ".html", ".docx", ".xlsx", ".ods",
}

// RenderSource renders sections as a file of the given extension so that the
// extractor yields exactly one block per section.
func RenderSource(ext string, sections []string) ([]byte, error) {
	switch ext {
	case ".txt", ".md":
		return []byte(strings.Join(sections, "\n\n")), nil
	case ".html":
		return htmlPage(sections), nil
	case ".docx":
		return docxFile(sections)
	case ".xlsx":
		return xlsxFile(sections)
	case ".ods":
		return odsFile(sections)
	default:
		return nil, fmt.Errorf("no fixture for %q", ext)
	}
}

func htmlPage(sections []string) []byte {
	var b strings.Builder
	b.WriteString("<html><head><title>Handbook</title><script>var x = 1;</script></head><body>")
	for _, s := range sections {
		b.WriteString("<p>" + html.EscapeString(s) + "</p>")
	}
	b.WriteString("</body></html>")
	return []byte(b.String())
}

func zipFile(name, body string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create(name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write([]byte(body)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func docxFile(sections []string) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, s := range sections {
		b.WriteString(`<w:p><w:r><w:t>` + html.EscapeString(s) + `</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return zipFile("word/document.xml", b.String())
}

// odsFile writes one table per section.
func odsFile(sections []string) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<office:document-content><office:body><office:spreadsheet>`)
	for i, s := range sections {
		fmt.Fprintf(&b, `<table:table table:name="Sheet%d"><table:table-row><table:table-cell><text:p>%s</text:p></table:table-cell></table:table-row></table:table>`,
			i+1, html.EscapeString(s))
	}
	b.WriteString(`</office:spreadsheet></office:body></office:document-content>`)
	return zipFile("content.xml", b.String())
}

// xlsxFile writes one sheet per section.
func xlsxFile(sections []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, s := range sections {
		sheet := fmt.Sprintf("Sheet%d", i+1)
		if i > 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellValue(sheet, "A1", s); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
