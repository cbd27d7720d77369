// Package document defines the core value types for one summarization
// request: the uploaded document, its media type, and the text extracted
// from it.
package document

import "strings"

// MediaType identifies the declared content type of an upload. The set is
// closed: extractors are selected at build time, not registered dynamically.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
)

// ParseMediaType maps a declared content type to a supported MediaType.
// Parameters after the media type (e.g. "; charset=utf-8") are ignored.
func ParseMediaType(s string) (MediaType, bool) {
	if idx := strings.IndexByte(s, ';'); idx >= 0 {
		s = s[:idx]
	}
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypePDF:
		return MediaTypePDF, true
	case MediaTypeJPEG:
		return MediaTypeJPEG, true
	case MediaTypePNG:
		return MediaTypePNG, true
	}
	return "", false
}

// IsImage reports whether the media type is a raster image.
func (m MediaType) IsImage() bool {
	return m == MediaTypeJPEG || m == MediaTypePNG
}

// UploadedDocument is the pipeline's view of one received file. It is owned
// exclusively by the request that created it; the stored copy is removed by
// the store's cleanup when the request finishes, on every exit path.
type UploadedDocument struct {
	Filename   string
	MediaType  MediaType
	Size       int64
	StoredPath string
}

// ExtractedText is the plain-text content produced by exactly one extractor.
// It is never nil-valued; an empty or whitespace-only Raw is a terminal
// condition for the pipeline, not a valid result.
type ExtractedText struct {
	Raw    string
	Source *UploadedDocument
}

// IsEmpty reports whether the extraction yielded no usable text.
func (t ExtractedText) IsEmpty() bool {
	return strings.TrimSpace(t.Raw) == ""
}
