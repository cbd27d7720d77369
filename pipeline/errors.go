package pipeline

// EmptyTextError means extraction completed but produced no usable text,
// e.g. a scanned-image-only PDF or a photograph with nothing to read. It is
// a terminal per-request condition, not an extractor crash.
type EmptyTextError struct{}

func (e *EmptyTextError) Error() string {
	return "no text could be extracted from the document"
}
