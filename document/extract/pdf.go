package extract

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/hrygo/docbrief/document"
)

const pdfHeader = "%PDF-"

// PDFExtractor parses the text layer of a stored PDF. A scanned PDF with no
// text layer yields empty output; the pipeline treats that as a terminal
// empty-text condition rather than an extraction failure.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, doc *document.UploadedDocument) (document.ExtractedText, error) {
	data, err := os.ReadFile(doc.StoredPath)
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.Wrap(err, "read stored file")}
	}

	// The declared content type is client-supplied; the magic bytes are not.
	if len(data) < len(pdfHeader) || string(data[:len(pdfHeader)]) != pdfHeader {
		return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.New("missing %PDF header")}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.Wrap(err, "open pdf")}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.Wrap(err, "extract text layer")}
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.Wrap(err, "read text layer")}
	}

	return document.ExtractedText{Raw: collapseWhitespace(string(raw)), Source: doc}, nil
}

// collapseWhitespace normalizes the ragged spacing PDF text layers produce
// into single-space separated words.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
