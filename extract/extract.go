// Package extract pulls plain text out of uploaded files. PDFs are parsed
// page by page; everything else must be UTF-8 text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Text extracts the textual content of the named file. The whole file is
// buffered in memory; uploads are expected to be small (essays, source
// files, slide notes).
func Text(filename string, r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fromPDF(raw)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file %s must be text-based or PDF (UTF-8 encoded)", filename)
	}
	return strings.TrimSpace(string(raw)), nil
}

func fromPDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
