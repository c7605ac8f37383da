// Package textextract converts stored CV documents into normalized plain
// text. Supported formats are plain text (UTF-8 with a Latin-1 fallback),
// PDF and DOCX. Extraction returns a tagged result so callers can surface
// failures without exceptions crossing the component boundary.
package textextract

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/logger"
)

// UnsupportedFormatError reports a file extension the extractor does not
// handle.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Extension)
}

// Result is the tagged outcome of one extraction. On failure Success is
// false and Error describes the cause; Err carries the typed error for
// callers inside the process.
type Result struct {
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
	FileType string `json:"file_type"`

	// Extraction metadata, populated per format.
	Encoding   string `json:"encoding,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Paragraphs int    `json:"paragraphs,omitempty"`
	Tables     int    `json:"tables,omitempty"`

	// CleanedText is only set by ExtractAndClean.
	CleanedText string `json:"cleaned_text,omitempty"`

	Err error `json:"-"`
}

// Extractor converts document byte streams into plain text.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor.
func New(log *zap.Logger) *Extractor {
	return &Extractor{logger: logger.OrNop(log)}
}

// Extract reads the document from r and extracts its text based on the
// declared file name or extension. It never returns a Go error: failures
// are reported through the tagged Result.
func (e *Extractor) Extract(r io.Reader, filename string) *Result {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		// Allow callers to pass a bare extension or format name.
		ext = "." + strings.ToLower(strings.TrimPrefix(filename, "."))
	}

	switch ext {
	case ".txt", ".text":
		return e.extractText(r)
	case ".pdf":
		return e.extractPDF(r)
	case ".docx":
		return e.extractDOCX(r)
	default:
		err := &UnsupportedFormatError{Extension: ext}
		e.logger.Warn("rejected document", zap.String("extension", ext))
		return &Result{
			Success:  false,
			Error:    err.Error(),
			FileType: strings.TrimPrefix(ext, "."),
			Err:      err,
		}
	}
}

// ExtractAndClean extracts the document and, on success, attaches the
// cleaned single-line text.
func (e *Extractor) ExtractAndClean(r io.Reader, filename string) *Result {
	result := e.Extract(r, filename)
	if result.Success {
		result.CleanedText = Clean(result.Text)
	}
	return result
}

// extractText decodes the stream as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8, and records which encoding was used.
func (e *Extractor) extractText(r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{
			Success:  false,
			Error:    fmt.Sprintf("failed to read file: %v", err),
			FileType: "txt",
			Err:      err,
		}
	}

	encoding := "utf-8"
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		encoding = "latin-1"
		text = decodeLatin1(data)
	}

	return &Result{
		Success:  true,
		Text:     strings.TrimSpace(text),
		FileType: "txt",
		Encoding: encoding,
	}
}

// decodeLatin1 maps each byte to the Unicode code point of the same value.
// Every byte sequence is valid Latin-1, so this cannot fail.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean normalizes extracted text: blank lines are dropped, remaining lines
// are joined with single spaces, and any run of whitespace collapses to one
// space.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	joined := strings.Join(lines, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(joined, " "))
}
