package editblock

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a line-oriented unified diff between two buffers with a
// two-line a/b header and three lines of context. Equal inputs produce an
// empty diff, explicitly representing "no changes". The diff is for display
// only; Apply never consults it.
func Unified(original, updated string) (string, error) {
	if original == updated {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "a",
		ToFile:   "b",
		Context:  3,
	})
}
