package fetch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"readscore/internal/port"
)

// FileReader reads text files as-is and strips markup from HTML files.
type FileReader struct{}

func NewFileReader() *FileReader {
	return &FileReader{}
}

func (r *FileReader) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return HTMLText(data)
	default:
		return string(data), nil
	}
}

// HTMLText returns the visible text of an HTML document. Block elements
// are separated by newlines so sentence boundaries survive.
func HTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, template, head").Remove()

	var parts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td, figcaption").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p, li, blockquote").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(parts, "\n"), nil
}

var _ port.FileReader = (*FileReader)(nil)
