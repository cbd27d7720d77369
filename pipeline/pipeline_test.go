package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/docbrief/ai/summarize"
	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/document/extract"
	"github.com/hrygo/docbrief/metrics"
)

type fakeStore struct {
	saveErr     error
	cleanupErr  error
	saves       int
	cleanups    int
	lastCleaned *document.UploadedDocument
}

func (s *fakeStore) Save(filename string, mediaType document.MediaType, r io.Reader) (*document.UploadedDocument, error) {
	s.saves++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	data, _ := io.ReadAll(r)
	return &document.UploadedDocument{
		Filename:   filename,
		MediaType:  mediaType,
		Size:       int64(len(data)),
		StoredPath: "/tmp/" + filename,
	}, nil
}

func (s *fakeStore) Cleanup(doc *document.UploadedDocument) error {
	s.cleanups++
	s.lastCleaned = doc
	return s.cleanupErr
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(_ context.Context, doc *document.UploadedDocument) (document.ExtractedText, error) {
	if e.err != nil {
		return document.ExtractedText{}, e.err
	}
	return document.ExtractedText{Raw: e.text, Source: doc}, nil
}

type stubSummarizer struct {
	set summarize.SummarySet
	err error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (summarize.SummarySet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

func fullSet() summarize.SummarySet {
	return summarize.SummarySet{
		summarize.LengthShort:  {Text: "short summary"},
		summarize.LengthMedium: {Text: "medium summary"},
		summarize.LengthLong:   {Text: "long summary"},
	}
}

func newTestPipeline(store Store, ex extract.Extractor, sum Summarizer) *Pipeline {
	return New(store, ex, sum, metrics.NewExporter(metrics.Config{}), 0)
}

func pdfUpload(content string) Upload {
	return Upload{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func TestProcessSuccess(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &stubExtractor{text: "extracted body"}, &stubSummarizer{set: fullSet()})

	result, err := p.Process(context.Background(), pdfUpload("%PDF data"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "report.pdf", result.FileName)
	assert.Equal(t, "extracted body", result.OriginalText)
	assert.Len(t, result.Summaries, 3)
	assert.Equal(t, "short summary", result.Summaries["short"])

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, store.cleanups, "cleanup must run exactly once on success")
}

func TestProcessValidationFailureSkipsStorage(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &stubExtractor{text: "x"}, &stubSummarizer{set: fullSet()})

	_, err := p.Process(context.Background(), Upload{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Size:        10,
		Content:     strings.NewReader("plain text"),
	})

	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, store.saves, "nothing is stored for a rejected upload")
	assert.Equal(t, 0, store.cleanups)
}

func TestProcessOversizeRejected(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &stubExtractor{text: "x"}, &stubSummarizer{set: fullSet()})

	_, err := p.Process(context.Background(), Upload{
		Filename:    "big.pdf",
		ContentType: "application/pdf",
		Size:        document.MaxDocumentBytes + 1,
		Content:     strings.NewReader("data"),
	})

	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, store.saves)
}

func TestProcessExtractionFailureCleansUp(t *testing.T) {
	store := &fakeStore{}
	exErr := &extract.ExtractionError{Stage: extract.StagePDFParse, Err: assert.AnError}
	p := newTestPipeline(store, &stubExtractor{err: exErr}, &stubSummarizer{set: fullSet()})

	_, err := p.Process(context.Background(), pdfUpload("%PDF data"))

	var got *extract.ExtractionError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 1, store.cleanups, "cleanup must run on extraction failure")
}

func TestProcessEmptyTextCleansUp(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &stubExtractor{text: "   \n "}, &stubSummarizer{set: fullSet()})

	_, err := p.Process(context.Background(), pdfUpload("%PDF data"))

	var emptyErr *EmptyTextError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 1, store.cleanups, "cleanup must run on the empty-text path")
}

func TestProcessSummarizationFailureCleansUp(t *testing.T) {
	store := &fakeStore{}
	sumErr := &summarize.SummarizationError{Reason: "quota exceeded", Quota: true}
	p := newTestPipeline(store, &stubExtractor{text: "body"}, &stubSummarizer{err: sumErr})

	_, err := p.Process(context.Background(), pdfUpload("%PDF data"))

	var got *summarize.SummarizationError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 1, store.cleanups, "cleanup must run on summarization failure")
}

func TestProcessCleanupErrorDoesNotMaskResult(t *testing.T) {
	store := &fakeStore{cleanupErr: assert.AnError}
	p := newTestPipeline(store, &stubExtractor{text: "body"}, &stubSummarizer{set: fullSet()})

	result, err := p.Process(context.Background(), pdfUpload("%PDF data"))
	require.NoError(t, err, "a failing cleanup must not fail the request")
	assert.True(t, result.Success)
}

func TestProcessCleanupErrorDoesNotMaskStageError(t *testing.T) {
	store := &fakeStore{cleanupErr: assert.AnError}
	p := newTestPipeline(store, &stubExtractor{text: "  "}, &stubSummarizer{set: fullSet()})

	_, err := p.Process(context.Background(), pdfUpload("%PDF data"))

	var emptyErr *EmptyTextError
	require.ErrorAs(t, err, &emptyErr, "the stage error survives a failing cleanup")
}

func TestProcessFallbackEntriesStillSucceed(t *testing.T) {
	store := &fakeStore{}
	set := summarize.SummarySet{
		summarize.LengthShort:  {Text: summarize.FallbackText, Fallback: true},
		summarize.LengthMedium: {Text: summarize.FallbackText, Fallback: true},
		summarize.LengthLong:   {Text: summarize.FallbackText, Fallback: true},
	}
	p := newTestPipeline(store, &stubExtractor{text: "body"}, &stubSummarizer{set: set})

	result, err := p.Process(context.Background(), pdfUpload("%PDF data"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	for _, k := range []string{"short", "medium", "long"} {
		assert.Equal(t, summarize.FallbackText, result.Summaries[k])
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "success"},
		{err: &document.ValidationError{Reason: "r"}, want: "validation_error"},
		{err: &extract.UnsupportedFormatError{}, want: "validation_error"},
		{err: &extract.ExtractionError{Stage: "ocr"}, want: "extraction_error"},
		{err: &EmptyTextError{}, want: "empty_text"},
		{err: &summarize.SummarizationError{Reason: "r"}, want: "summarization_error"},
		{err: assert.AnError, want: "internal_error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err))
	}
}
