// Package pipeline drives one summarization request end to end: validate,
// store, extract, summarize, assemble. Each request is a single linear
// traversal with one concurrent region, the three-way summarization
// fan-out. The transient stored file is released on every exit path.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hrygo/docbrief/ai/summarize"
	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/document/extract"
	"github.com/hrygo/docbrief/metrics"
)

// Upload is the raw intake of one request, before any validation.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Store persists the transient copy of an upload and releases it.
type Store interface {
	Save(filename string, mediaType document.MediaType, r io.Reader) (*document.UploadedDocument, error)
	Cleanup(doc *document.UploadedDocument) error
}

// Summarizer produces the complete summary set for one text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summarize.SummarySet, error)
}

// Pipeline wires the per-request stages together.
type Pipeline struct {
	store      Store
	extractor  extract.Extractor
	summarizer Summarizer
	exporter   *metrics.Exporter
	maxBytes   int64
}

func New(store Store, extractor extract.Extractor, summarizer Summarizer, exporter *metrics.Exporter, maxBytes int64) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = document.MaxDocumentBytes
	}
	return &Pipeline{
		store:      store,
		extractor:  extractor,
		summarizer: summarizer,
		exporter:   exporter,
		maxBytes:   maxBytes,
	}
}

// Process runs one request through the pipeline. The stored copy created
// here is removed exactly once before Process returns, on success and on
// every failure path alike; a cleanup failure is logged and never masks the
// stage error.
func (p *Pipeline) Process(ctx context.Context, upload Upload) (result *ProcessingResult, err error) {
	start := time.Now()
	p.exporter.RequestStarted()
	defer p.exporter.RequestFinished()

	mediaType, err := document.Validate(upload.ContentType, upload.Size, p.maxBytes)
	if err != nil {
		p.exporter.RecordRequest(upload.ContentType, statusOf(err), time.Since(start))
		return nil, err
	}
	defer func() {
		p.exporter.RecordRequest(string(mediaType), statusOf(err), time.Since(start))
	}()

	doc, err := p.store.Save(upload.Filename, mediaType, upload.Content)
	if err != nil {
		return nil, err
	}
	p.exporter.RecordUpload(string(mediaType), doc.Size)
	defer func() {
		if cerr := p.store.Cleanup(doc); cerr != nil {
			slog.Error("cleanup of stored file failed", "path", doc.StoredPath, "error", cerr)
		}
	}()

	extractStart := time.Now()
	text, err := p.extractor.Extract(ctx, doc)
	p.exporter.RecordExtraction(stageFor(mediaType), time.Since(extractStart), err == nil)
	if err != nil {
		return nil, err
	}
	if text.IsEmpty() {
		return nil, &EmptyTextError{}
	}

	fanoutStart := time.Now()
	set, err := p.summarizer.Summarize(ctx, text.Raw)
	p.exporter.RecordFanoutLatency(time.Since(fanoutStart))
	if err != nil {
		return nil, err
	}
	for length, res := range set {
		p.exporter.RecordSummary(string(length), res.Fallback)
	}

	return Assemble(text, set, doc), nil
}

func stageFor(mt document.MediaType) string {
	if mt.IsImage() {
		return extract.StageOCR
	}
	return extract.StagePDFParse
}

// statusOf classifies a pipeline outcome for the request counter.
func statusOf(err error) string {
	switch err.(type) {
	case nil:
		return "success"
	case *document.ValidationError:
		return "validation_error"
	case *extract.UnsupportedFormatError:
		return "validation_error"
	case *extract.ExtractionError:
		return "extraction_error"
	case *EmptyTextError:
		return "empty_text"
	case *summarize.SummarizationError:
		return "summarization_error"
	default:
		return "internal_error"
	}
}
