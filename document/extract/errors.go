package extract

import (
	"fmt"

	"github.com/hrygo/docbrief/document"
)

// Stage names for ExtractionError. Each maps to exactly one extraction
// strategy.
const (
	StagePDFParse = "pdf-parse"
	StageOCR      = "ocr"
)

// ExtractionError reports a failure inside one extraction strategy.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError means no extractor exists for the media type. With
// intake validation in front of the dispatcher this indicates a programming
// error, not bad user input.
type UnsupportedFormatError struct {
	MediaType document.MediaType
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no extractor for media type %q", e.MediaType)
}
