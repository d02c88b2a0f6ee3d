package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// FlattenMarkdown reduces a markdown document to plain text by walking the
// goldmark AST. Block boundaries become paragraph breaks and soft line
// breaks are kept, so inline date markers written as their own lines or
// headings survive as whole lines for the splitter.
func FlattenMarkdown(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	reader := text.NewReader(content)
	doc := mdParser.Parser().Parse(reader)

	var blocks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if t := nodeText(node, content); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// nodeText collects the text segments under one block node.
func nodeText(node ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(content))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
