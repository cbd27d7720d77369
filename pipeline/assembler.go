package pipeline

import (
	"github.com/hrygo/docbrief/ai/summarize"
	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/internal/strutil"
)

// PreviewLimit caps the original-text preview carried in the result. A
// truncated preview ends with the ellipsis marker; text at or under the
// limit is carried verbatim.
const PreviewLimit = 1000

// ProcessingResult is the immutable outcome of one fully processed request.
type ProcessingResult struct {
	OriginalText string            `json:"originalText"`
	Summaries    map[string]string `json:"summaries"`
	FileName     string            `json:"fileName"`
	FileSize     int64             `json:"fileSize"`
	Success      bool              `json:"success"`
}

// Assemble builds the result from the extracted text, the settled summary
// set and the upload metadata. Pure; cannot fail on well-formed inputs.
func Assemble(text document.ExtractedText, set summarize.SummarySet, doc *document.UploadedDocument) *ProcessingResult {
	return &ProcessingResult{
		OriginalText: strutil.Truncate(text.Raw, PreviewLimit),
		Summaries:    set.Texts(),
		FileName:     doc.Filename,
		FileSize:     doc.Size,
		Success:      true,
	}
}
