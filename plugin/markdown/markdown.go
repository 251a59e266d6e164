// Package markdown extracts plain-text blocks from markdown documents.
// Each top-level block (heading, paragraph, list item) becomes one string,
// which the importer turns into one question.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractBlocks parses the markdown source and returns the plain text of each
// top-level block in document order, with blank blocks dropped.
func ExtractBlocks(source []byte) []string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	blocks := make([]string, 0)
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case ast.KindList:
			// Flatten list items so every bullet becomes its own block.
			for item := child.FirstChild(); item != nil; item = item.NextSibling() {
				if s := nodeText(item, source); s != "" {
					blocks = append(blocks, s)
				}
			}
		default:
			if s := nodeText(child, source); s != "" {
				blocks = append(blocks, s)
			}
		}
	}
	return blocks
}

// nodeText collects the text content of a node and its descendants.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.CodeSpan:
			// Text children cover the content; nothing extra needed.
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
