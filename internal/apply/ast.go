package apply

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// codeBlock is a fenced code block lifted out of markdown content.
type codeBlock struct {
	// hint is the paragraph immediately preceding the block; a backticked
	// token inside it names the target file.
	hint    string
	lang    string
	content string
}

// extractCodeBlocks walks the markdown AST and returns every fenced code
// block together with its preceding paragraph.
func extractCodeBlocks(source []byte) ([]codeBlock, error) {
	var blocks []codeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block codeBlock
		if fenced.Info != nil {
			block.lang = string(fenced.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content.Write(seg.Value(source))
		}
		block.content = content.String()

		if prev := fenced.PreviousSibling(); prev != nil {
			if p, ok := prev.(*ast.Paragraph); ok {
				block.hint = strings.TrimSpace(string(p.Text(source)))
			}
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// pathFromHint extracts a backticked file path from a hint line. A token
// containing spaces is not a path (it is probably a command).
func pathFromHint(hint string) string {
	start := strings.IndexByte(hint, '`')
	if start < 0 {
		return ""
	}
	rest := hint[start+1:]
	end := strings.IndexByte(rest, '`')
	if end < 0 {
		return ""
	}
	path := strings.TrimSpace(rest[:end])
	if path == "" || strings.Contains(path, " ") {
		return ""
	}
	return path
}
