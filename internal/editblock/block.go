// Package editblock implements the search/replace edit-block protocol: it
// extracts delimited edit operations from freeform model output and applies
// them to a file buffer under an exact-match contract. All functions here are
// pure; file I/O belongs to the caller.
package editblock

import "strings"

// Marker lines delimiting one edit block. A marker only counts when it is the
// entire line (a trailing CR from CRLF input is tolerated).
const (
	SearchMarker  = "<<<<<<< SEARCH"
	DividerMarker = "======="
	ReplaceMarker = ">>>>>>> REPLACE"
)

// Edit is one (search, replace) pair, immutable once parsed. Search may be
// empty only under the new-file rule checked by Apply.
type Edit struct {
	Search  string
	Replace string
}

// EditSet is an ordered sequence of edits. Order is the order of first
// appearance in the source text and is semantically significant: edits are
// applied sequentially against the progressively patched buffer.
type EditSet []Edit

// ParseDiagnostic records a block that failed to parse. It carries enough
// surrounding text for a human or the model to fix the output. Diagnostics
// never abort parsing of subsequent well-formed blocks.
type ParseDiagnostic struct {
	// Offset is the byte offset of the offending SEARCH marker line.
	Offset int
	// Reason describes the missing or misordered marker.
	Reason string
	// Excerpt is a bounded slice of the text around the offending marker.
	Excerpt string
}

const excerptLen = 120

// line is one source line with its starting byte offset.
type line struct {
	text   string
	offset int
}

// Parse scans text for edit blocks and returns them in appearance order,
// together with diagnostics for malformed blocks. Text outside blocks,
// including code fences wrapped around them, is ignored. Zero blocks is not
// an error: it simply means no changes were requested.
func Parse(text string) (EditSet, []ParseDiagnostic) {
	lines := splitLines(text)

	var (
		edits EditSet
		diags []ParseDiagnostic
	)

	i := 0
	for i < len(lines) {
		if !isMarker(lines[i].text, SearchMarker) {
			i++
			continue
		}

		start := lines[i]
		search, next, ok := collectSection(lines, i+1, DividerMarker)
		if !ok {
			diags = append(diags, malformed(text, start, "missing divider marker"))
			// Resume where the scan stopped so a SEARCH marker found while
			// looking for the divider starts a fresh block.
			i = next
			continue
		}
		replace, next, ok := collectSection(lines, next+1, ReplaceMarker)
		if !ok {
			diags = append(diags, malformed(text, start, "missing replace marker"))
			i = next
			continue
		}

		edits = append(edits, Edit{Search: search, Replace: replace})
		i = next + 1
	}

	return edits, diags
}

// collectSection gathers the verbatim text between the current position and
// the line that is exactly end. Every captured line keeps its own line break;
// a section with no lines is the empty string. It stops early, reporting
// failure, when it runs out of input or runs into a new SEARCH marker.
func collectSection(lines []line, from int, end string) (section string, pos int, ok bool) {
	var b strings.Builder
	for i := from; i < len(lines); i++ {
		if isMarker(lines[i].text, end) {
			return b.String(), i, true
		}
		if isMarker(lines[i].text, SearchMarker) {
			return "", i, false
		}
		b.WriteString(lines[i].text)
		b.WriteString("\n")
	}
	return "", len(lines), false
}

func malformed(text string, at line, reason string) ParseDiagnostic {
	end := at.offset + excerptLen
	if end > len(text) {
		end = len(text)
	}
	return ParseDiagnostic{
		Offset:  at.offset,
		Reason:  reason,
		Excerpt: text[at.offset:end],
	}
}

// isMarker reports whether s is exactly the marker, allowing a trailing CR
// left over from CRLF line endings. Any other trailing content disqualifies
// the line.
func isMarker(s, marker string) bool {
	return strings.TrimSuffix(s, "\r") == marker
}

// splitLines splits text into lines without their terminators, keeping each
// line's starting byte offset. A trailing newline does not produce an empty
// final line.
func splitLines(text string) []line {
	var lines []line
	offset := 0
	for offset < len(text) {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			lines = append(lines, line{text: text[offset:], offset: offset})
			break
		}
		lines = append(lines, line{text: text[offset : offset+nl], offset: offset})
		offset += nl + 1
	}
	return lines
}
