package editblock

import "testing"

const wellFormed = `Here is the change:

<<<<<<< SEARCH
old line
=======
new line
>>>>>>> REPLACE

Done.
`

func TestParseSingleBlock(t *testing.T) {
	edits, diags := Parse(wellFormed)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].Search != "old line\n" {
		t.Errorf("search = %q", edits[0].Search)
	}
	if edits[0].Replace != "new line\n" {
		t.Errorf("replace = %q", edits[0].Replace)
	}
}

func TestParseInsideCodeFence(t *testing.T) {
	input := "Explanation first.\n\n```\n<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n```\n"
	edits, diags := Parse(input)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].Search != "a\n" || edits[0].Replace != "b\n" {
		t.Errorf("edit = %+v", edits[0])
	}
}

func TestParsePreservesWhitespaceExactly(t *testing.T) {
	input := "<<<<<<< SEARCH\n\tindented()\n\n  two spaces\n=======\n\treplaced()\n>>>>>>> REPLACE\n"
	edits, _ := Parse(input)
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].Search != "\tindented()\n\n  two spaces\n" {
		t.Errorf("search not verbatim: %q", edits[0].Search)
	}
}

func TestParseMultipleBlocksInOrder(t *testing.T) {
	input := "<<<<<<< SEARCH\nfirst\n=======\n1\n>>>>>>> REPLACE\nprose between\n" +
		"<<<<<<< SEARCH\nsecond\n=======\n2\n>>>>>>> REPLACE\n"
	edits, diags := Parse(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	if edits[0].Search != "first\n" || edits[1].Search != "second\n" {
		t.Errorf("edits out of order: %+v", edits)
	}
}

func TestParseEmptySections(t *testing.T) {
	// Empty search (new-file block) and empty replace (pure deletion).
	input := "<<<<<<< SEARCH\n=======\ncreated\n>>>>>>> REPLACE\n" +
		"<<<<<<< SEARCH\ngone\n=======\n>>>>>>> REPLACE\n"
	edits, diags := Parse(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	if edits[0].Search != "" || edits[0].Replace != "created\n" {
		t.Errorf("new-file edit = %+v", edits[0])
	}
	if edits[1].Search != "gone\n" || edits[1].Replace != "" {
		t.Errorf("deletion edit = %+v", edits[1])
	}
}

func TestParseMalformedBlockTolerance(t *testing.T) {
	// One complete block followed by a block missing its REPLACE marker.
	input := "<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n" +
		"<<<<<<< SEARCH\nc\n=======\nd\n"
	edits, diags := Parse(input)
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Reason != "missing replace marker" {
		t.Errorf("reason = %q", diags[0].Reason)
	}
	if diags[0].Offset == 0 {
		t.Error("diagnostic should point at the second block, not offset 0")
	}
}

func TestParseRecoversAfterMalformedBlock(t *testing.T) {
	// A SEARCH marker while waiting for the divider starts a fresh block.
	input := "<<<<<<< SEARCH\nbroken\n" +
		"<<<<<<< SEARCH\nok\n=======\nfixed\n>>>>>>> REPLACE\n"
	edits, diags := Parse(input)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit after recovery, got %d", len(edits))
	}
	if edits[0].Search != "ok\n" {
		t.Errorf("recovered edit = %+v", edits[0])
	}
}

func TestParseMarkerWithTrailingContentIgnored(t *testing.T) {
	input := "<<<<<<< SEARCH extra\nx\n=======\ny\n>>>>>>> REPLACE\n"
	edits, _ := Parse(input)
	if len(edits) != 0 {
		t.Fatalf("marker with trailing content must not open a block, got %d edits", len(edits))
	}
}

func TestParseCRLFInput(t *testing.T) {
	input := "<<<<<<< SEARCH\r\nold\r\n=======\r\nnew\r\n>>>>>>> REPLACE\r\n"
	edits, diags := Parse(input)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
}

func TestParseNoBlocks(t *testing.T) {
	edits, diags := Parse("just prose, no blocks at all\n")
	if len(edits) != 0 || len(diags) != 0 {
		t.Fatalf("expected empty result, got %d edits, %d diagnostics", len(edits), len(diags))
	}
}
