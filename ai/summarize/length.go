// Package summarize generates the three fixed-length summaries of one
// document: a fan-out orchestrator over a per-call client that degrades to a
// fallback string instead of failing the request.
package summarize

import "fmt"

// Length selects the granularity of one summary. The set is fixed; prompt
// template and expected output size follow from it.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Lengths returns all length classes in canonical order.
func Lengths() []Length {
	return []Length{LengthShort, LengthMedium, LengthLong}
}

func (l Length) instruction() string {
	switch l {
	case LengthShort:
		return "in 2 to 3 sentences"
	case LengthMedium:
		return "in 1 to 2 paragraphs"
	case LengthLong:
		return "in 3 to 4 paragraphs"
	}
	return ""
}

func (l Length) prompt(text string) string {
	return fmt.Sprintf("Summarize the following document %s:\n\n%s", l.instruction(), text)
}
