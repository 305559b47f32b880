package tts

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownOptions controls how markdown is reduced to speakable text.
type MarkdownOptions struct {
	// IncludeCode reads fenced and indented code blocks aloud.
	IncludeCode bool
}

// MarkdownToSpeech extracts speakable text from a markdown document.
// Block elements become sentences, inline markup is dropped, link text
// is kept and URLs are not read out.
func MarkdownToSpeech(source string, opts MarkdownOptions) (string, error) {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			blocks = appendSentence(blocks, inlineText(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if opts.IncludeCode {
				blocks = appendSentence(blocks, blockLines(node, src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown AST: %w", err)
	}
	return strings.Join(blocks, " "), nil
}

// inlineText concatenates the text of an inline subtree.
func inlineText(node ast.Node, src []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink, *ast.RawHTML:
			// URLs and inline HTML are not spoken
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

func blockLines(node ast.Node, src []byte) string {
	lines := node.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.Join(parts, " ")
}

// appendSentence adds s as its own sentence, terminating it so backends
// pause between blocks.
func appendSentence(blocks []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return blocks
	}
	if !strings.ContainsAny(s[len(s)-1:], ".!?:;") {
		s += "."
	}
	return append(blocks, s)
}
