// Package textx splits raw document text into ordered sentence slices.
//
// The segmentation is a deliberately simple terminator heuristic, not an NLP
// model: a sentence is a maximal run of characters other than '.', '!' or
// '?', optionally followed by one terminator. It exists so that the same text
// always yields the same slices, which is what sentence reconciliation
// depends on.
package textx

import "strings"

// Slice is an ephemeral sentence extracted from text. It is never persisted;
// it is input to reconciliation. Offsets are byte offsets into the source
// text, end exclusive, such that text[Start:End] == Content.
type Slice struct {
	Content string
	Start   int
	End     int
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// Segment splits text into sentence slices ordered by Start ascending.
//
// Slices whose content is empty after trimming are dropped, so consecutive
// terminators or terminator-only runs may leave positional gaps between the
// returned offsets. That is expected. Segment is a pure function: identical
// input always yields identical output.
func Segment(text string) []Slice {
	var slices []Slice

	i := 0
	for i < len(text) {
		// A run must begin with at least one non-terminator character.
		if isTerminator(text[i]) {
			i++
			continue
		}

		j := i
		for j < len(text) && !isTerminator(text[j]) {
			j++
		}
		// Include the single trailing terminator, if any.
		if j < len(text) {
			j++
		}

		snippet := text[i:j]
		trimmed := strings.TrimSpace(snippet)
		if trimmed != "" {
			leading := strings.Index(snippet, trimmed)
			start := i + leading
			slices = append(slices, Slice{
				Content: trimmed,
				Start:   start,
				End:     start + len(trimmed),
			})
		}

		i = j
	}

	return slices
}
