package editblock

import "strings"

// FailureReason classifies why an edit could not, or only awkwardly could,
// be applied.
type FailureReason int

const (
	// NoMatch means the search text does not occur in the current buffer.
	// It rejects the whole apply operation.
	NoMatch FailureReason = iota
	// MalformedBlock means an empty search text outside the new-file rule.
	MalformedBlock
	// AmbiguousMatch means the search text occurs more than once. The
	// leftmost occurrence is used and the match is recorded as an advisory;
	// it never blocks success.
	AmbiguousMatch
)

func (r FailureReason) String() string {
	switch r {
	case NoMatch:
		return "no match"
	case MalformedBlock:
		return "malformed block"
	case AmbiguousMatch:
		return "ambiguous match"
	default:
		return "unknown"
	}
}

// Advisory is a non-fatal note attached to a successful outcome.
type Advisory struct {
	Index  int
	Reason FailureReason
}

// Outcome is the tagged result of applying an EditSet. Exactly one of the two
// shapes is populated: Applied carries the new content and applied count,
// Rejected carries the failing index, reason and a bounded search preview.
// Only an Applied outcome may ever be persisted by the caller.
type Outcome struct {
	Applied bool

	// Applied shape.
	Content      string
	AppliedCount int
	Advisories   []Advisory

	// Rejected shape.
	FailedIndex   int
	Reason        FailureReason
	SearchPreview string
}

// searchPreviewLen bounds the unmatched-search excerpt surfaced on rejection.
const searchPreviewLen = 80

// Apply turns (original, edits) into a new buffer or a structured rejection.
// Edits run in order against the progressively patched buffer, so later edits
// see the effect of earlier ones. The operation is all-or-nothing: the first
// fatal failure rejects the whole set and no patched buffer is returned.
// Apply never panics on data-shaped input and never mutates its arguments.
func Apply(original string, edits EditSet) Outcome {
	buffer := original
	var advisories []Advisory

	for i, edit := range edits {
		// New-file rule: the only context in which an empty search is legal.
		if i == 0 && buffer == "" && edit.Search == "" {
			buffer = edit.Replace
			continue
		}
		if edit.Search == "" {
			return rejected(i, MalformedBlock, edit.Search)
		}

		at := strings.Index(buffer, edit.Search)
		if at < 0 {
			return rejected(i, NoMatch, edit.Search)
		}
		// A second (possibly overlapping) occurrence makes the match
		// ambiguous; the leftmost one still wins deterministically.
		if strings.Contains(buffer[at+1:], edit.Search) {
			advisories = append(advisories, Advisory{Index: i, Reason: AmbiguousMatch})
		}

		buffer = buffer[:at] + edit.Replace + buffer[at+len(edit.Search):]
	}

	return Outcome{
		Applied:      true,
		Content:      buffer,
		AppliedCount: len(edits),
		Advisories:   advisories,
	}
}

func rejected(index int, reason FailureReason, search string) Outcome {
	return Outcome{
		FailedIndex:   index,
		Reason:        reason,
		SearchPreview: preview(search),
	}
}

func preview(s string) string {
	if len(s) <= searchPreviewLen {
		return s
	}
	return s[:searchPreviewLen]
}
