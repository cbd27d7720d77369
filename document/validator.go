package document

import "fmt"

// MaxDocumentBytes is the hard upload size cap enforced by the intake
// validator. The transport layer applies the same cap advisorily, but the
// pipeline re-validates and does not trust that boundary.
const MaxDocumentBytes = 10 * 1024 * 1024

// ValidationError rejects a candidate upload before any storage or
// extraction side effect happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate checks the declared media type and byte size against intake
// policy. It returns the parsed media type on success, or a
// *ValidationError naming the failed check. No state is created here.
func Validate(declaredType string, size int64, maxBytes int64) (MediaType, error) {
	if maxBytes <= 0 {
		maxBytes = MaxDocumentBytes
	}

	mt, ok := ParseMediaType(declaredType)
	if !ok {
		return "", &ValidationError{
			Reason: fmt.Sprintf("unsupported content type %q: only PDF, JPEG and PNG are accepted", declaredType),
		}
	}

	if size > maxBytes {
		return "", &ValidationError{
			Reason: fmt.Sprintf("file too large: %d bytes exceeds the %d MiB limit", size, maxBytes/(1024*1024)),
		}
	}

	return mt, nil
}
