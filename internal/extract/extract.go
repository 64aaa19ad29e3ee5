package extract

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Media types accepted at upload time.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// zipMagic prefixes every OOXML container, including .docx files uploaded with a .doc name.
var zipMagic = []byte("PK\x03\x04")

// RawDocument is an uploaded file as handed over by the upload collaborator.
type RawDocument struct {
	Data      []byte
	MediaType string
	Filename  string
}

// ExtractionError means the payload is not a readable document of its declared type.
type ExtractionError struct {
	MediaType string
	Filename  string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("extract %s (%s): %v", e.Filename, e.MediaType, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.MediaType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Extract(doc RawDocument) (string, error)
}

// DocumentExtractor is the default Extractor.
type DocumentExtractor struct{}

func New() DocumentExtractor {
	return DocumentExtractor{}
}

func (DocumentExtractor) Extract(doc RawDocument) (string, error) {
	return Extract(doc)
}

// Extract returns the flattened text of doc. Failures are always *ExtractionError.
func Extract(doc RawDocument) (string, error) {
	text, err := extractText(baseMediaType(doc.MediaType), doc.Data)
	if err != nil {
		return "", &ExtractionError{MediaType: doc.MediaType, Filename: doc.Filename, Err: err}
	}
	return normalizeWhitespace(text), nil
}

// baseMediaType drops parameters such as "; charset=binary".
func baseMediaType(v string) string {
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(v))
}

func extractText(mediaType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	switch mediaType {
	case MediaTypeText:
		return string(data), nil

	case MediaTypePDF:
		return extractPDFText(data)

	case MediaTypeDOCX:
		return extractDocxText(data)

	case MediaTypeDOC:
		if bytes.HasPrefix(data, zipMagic) {
			return extractDocxText(data)
		}
		return "", fmt.Errorf("%w: legacy binary .doc", ErrUnsupportedFormat)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some truncated xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	var firstErr error
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to read pdf page %d: %w", i, err)
			}
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}
	// a single unreadable page is tolerated, an unreadable document is not
	if textBuilder.Len() == 0 && firstErr != nil {
		return "", firstErr
	}
	return textBuilder.String(), nil
}

var (
	reParagraphEnd = regexp.MustCompile(`</w:p>`)
	reLineBreak    = regexp.MustCompile(`<w:(br|cr)\s*/>`)
	reTab          = regexp.MustCompile(`<w:tab\s*/>`)
	reTags         = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent is the raw document.xml; flatten it to text.
	xml := doc.Editable().GetContent()
	xml = reParagraphEnd.ReplaceAllString(xml, "\n")
	xml = reLineBreak.ReplaceAllString(xml, "\n")
	xml = reTab.ReplaceAllString(xml, "\t")
	txt := reTags.ReplaceAllString(xml, "")
	return html.UnescapeString(txt), nil
}

var (
	reBlanks   = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines = regexp.MustCompile(`\n\s*\n+`)
)

// normalizeWhitespace collapses blank runs but keeps line structure.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = reBlanks.ReplaceAllString(s, " ")
	s = reNewlines.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
