package summarize

import "fmt"

// SummarizationError aborts the whole request. Per-call failures never
// produce it; only conditions that would equally fail every call do, such as
// quota exhaustion or malformed input text.
type SummarizationError struct {
	Reason string
	Quota  bool
	Err    error
}

func (e *SummarizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summarization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("summarization failed: %s", e.Reason)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}
