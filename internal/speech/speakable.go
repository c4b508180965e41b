package speech

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Speakable converts markdown into plain text suitable for narration. Code
// blocks and raw HTML are dropped and block elements end with a sentence
// break.
func Speakable(markdown string) string {
	md := goldmark.New()
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var buf strings.Builder
	walk(doc, reader.Source(), &buf)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func walk(node ast.Node, source []byte, buf *strings.Builder) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
		return
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
		return
	case *ast.Image:
		// alt text is the image's children
		buf.WriteString("Image: ")
	}

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, source, buf)
	}

	switch node.(type) {
	case *ast.Heading, *ast.Paragraph, *ast.ListItem:
		endSentence(buf)
	}
}

func endSentence(buf *strings.Builder) {
	s := strings.TrimRight(buf.String(), " ")
	if s == "" {
		return
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		buf.WriteByte(' ')
	default:
		buf.WriteString(". ")
	}
}
