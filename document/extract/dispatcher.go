// Package extract turns a stored document into plain text. One extractor
// runs per request, selected by media type: PDFs go through the text-layer
// parser, raster images through OCR.
package extract

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/docbrief/document"
)

// Extractor produces plain text from one stored document.
type Extractor interface {
	Extract(ctx context.Context, doc *document.UploadedDocument) (document.ExtractedText, error)
}

// Dispatcher routes a document to the extractor for its media type.
// Extractors may be nil when their backend is not configured; a request
// hitting a nil slot fails with an ExtractionError rather than a panic.
type Dispatcher struct {
	pdf Extractor
	ocr Extractor
}

func NewDispatcher(pdf, ocr Extractor) *Dispatcher {
	return &Dispatcher{pdf: pdf, ocr: ocr}
}

func (d *Dispatcher) Extract(ctx context.Context, doc *document.UploadedDocument) (document.ExtractedText, error) {
	switch {
	case doc.MediaType == document.MediaTypePDF:
		if d.pdf == nil {
			return document.ExtractedText{}, &ExtractionError{Stage: StagePDFParse, Err: errors.New("pdf extractor not configured")}
		}
		return d.pdf.Extract(ctx, doc)
	case doc.MediaType.IsImage():
		if d.ocr == nil {
			return document.ExtractedText{}, &ExtractionError{Stage: StageOCR, Err: errors.New("ocr backend not configured")}
		}
		return d.ocr.Extract(ctx, doc)
	default:
		return document.ExtractedText{}, &UnsupportedFormatError{MediaType: doc.MediaType}
	}
}
