// Package extractor opens password-protected SBI statement PDFs and
// reconstructs their table rows in memory-bounded page batches.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Failure classes surfaced to callers. Everything else is an opaque
// internal error.
var (
	// ErrAuthentication means decryption failed or the password is wrong,
	// as signalled explicitly by the PDF library.
	ErrAuthentication = errors.New("wrong password or unreadable encryption")
	// ErrEmptyDocument means the PDF decoded fine but has zero pages.
	ErrEmptyDocument = errors.New("pdf has no pages")
	// ErrFormatMismatch means the first page carries neither an SBI issuer
	// marker nor an "Account Number" token, so the document is not an SBI
	// statement and no table extraction is attempted.
	ErrFormatMismatch = errors.New("first page has no SBI/State Bank header")
)

// DefaultBatchSize is the number of pages decoded per batch. It is a pure
// memory knob: output is identical for any batch size >= 1.
const DefaultBatchSize = 15

var (
	issuerPattern = regexp.MustCompile(`(?i)State\s*Bank|SBI|Account\s*Number`)
	periodPattern = regexp.MustCompile(`(?i)Statement\s*From\s*:\s*(\d{2}-\d{2}-\d{4})\s*to\s*(\d{2}-\d{2}-\d{4})`)
)

// Document is an opened, decrypted statement PDF.
type Document struct {
	reader *pdf.Reader

	PageCount     int
	StatementFrom string // DD-MM-YYYY, "" when the first page lacks a period line
	StatementTo   string
	BatchSize     int
}

// Open decrypts the document, validates that it is an SBI statement, and
// extracts the header metadata from the first page. It fails with
// ErrAuthentication, ErrEmptyDocument or ErrFormatMismatch for the
// recognized bad-input classes.
func Open(data []byte, password string) (doc *Document, err error) {
	// The PDF library can panic on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	// The library keeps calling the password func until it returns "";
	// offer the password once, then give up so a wrong password surfaces
	// as ErrInvalidPassword instead of looping.
	offered := false
	reader, openErr := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
	if openErr != nil {
		if errors.Is(openErr, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %v", ErrAuthentication, openErr)
		}
		return nil, fmt.Errorf("open pdf: %w", openErr)
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return nil, ErrEmptyDocument
	}

	firstText := pageText(reader.Page(1))
	if !issuerPattern.MatchString(firstText) {
		return nil, ErrFormatMismatch
	}

	doc = &Document{
		reader:    reader,
		PageCount: pageCount,
		BatchSize: DefaultBatchSize,
	}
	if m := periodPattern.FindStringSubmatch(firstText); m != nil {
		doc.StatementFrom, doc.StatementTo = m[1], m[2]
	}
	return doc, nil
}

// pageText rebuilds a page's text line by line from its positioned spans.
func pageText(p pdf.Page) string {
	if p.V.IsNull() {
		return ""
	}
	var b strings.Builder
	for _, ln := range linesFromTexts(p.Content().Text) {
		b.WriteString(joinSpans(ln.spans))
		b.WriteByte('\n')
	}
	return b.String()
}
