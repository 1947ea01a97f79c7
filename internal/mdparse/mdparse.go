// Package mdparse wraps goldmark and exposes the parsed block/inline node
// tree together with the operations the decomposition and section engines
// need: plain-text extraction, canonical Markdown re-serialization, source
// line lookup and frontmatter handling.
package mdparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// engine is a single shared goldmark instance. It is stateless and safe for
// concurrent use across documents.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// Document is one parsed Markdown document. Frontmatter is detected and
// stripped before the body reaches goldmark, which would otherwise read the
// closing --- as a setext-heading underline.
type Document struct {
	// Body is the source with frontmatter removed; all AST segments point
	// into it.
	Body []byte
	// Root is the goldmark document node.
	Root ast.Node
	// Frontmatter is the raw YAML between the --- delimiters, without them.
	// Empty when the document has none.
	Frontmatter string

	// lineStarts[i] is the byte offset of line i+1 in Body.
	lineStarts []int
	// lineOffset is the number of source lines the stripped frontmatter
	// occupied, so reported line numbers refer to the original text.
	lineOffset int
}

// ToHTML renders Markdown source to HTML through the shared engine.
func ToHTML(source []byte) (string, error) {
	var b strings.Builder
	if err := engine.Convert(source, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Parse parses source into a Document. The returned error is the only hard
// failure mode of the core; a nil tree never produces partial output.
func Parse(source []byte) (*Document, error) {
	raw, body := splitFrontmatter(source)

	root := engine.Parser().Parse(text.NewReader(body))
	if root == nil {
		return nil, fmt.Errorf("markdown parse produced no document tree")
	}

	d := &Document{
		Body:        body,
		Root:        root,
		Frontmatter: raw,
		lineOffset:  frontmatterLines(source, body),
	}
	d.lineStarts = append(d.lineStarts, 0)
	for i, c := range body {
		if c == '\n' && i+1 < len(body) {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	return d, nil
}

// lineAt converts a byte offset in Body to a 1-based line number in the
// original source.
func (d *Document) lineAt(offset int) int {
	i := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	})
	return i + d.lineOffset
}

// StartLine returns the 1-based first source line of n, or 0 when the node
// carries no positional information (thematic breaks, synthetic nodes).
func (d *Document) StartLine(n ast.Node) int {
	if seg, ok := firstSegment(n); ok {
		return d.lineAt(seg.Start)
	}
	return 0
}

// EndLine returns the 1-based last source line of n, or 0 when unknown.
func (d *Document) EndLine(n ast.Node) int {
	if seg, ok := lastSegment(n); ok {
		stop := seg.Stop
		if stop > seg.Start {
			stop--
		}
		return d.lineAt(stop)
	}
	return 0
}

// firstSegment and lastSegment walk a subtree for its outermost source
// segments. Lines() is only valid on block nodes and panics on inlines, so
// inline nodes are resolved through their Text leaves instead.
func firstSegment(n ast.Node) (text.Segment, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment, true
	}
	if n.Type() != ast.TypeInline {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0), true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if seg, ok := firstSegment(c); ok {
			return seg, true
		}
	}
	return text.Segment{}, false
}

func lastSegment(n ast.Node) (text.Segment, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment, true
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if seg, ok := lastSegment(c); ok {
			return seg, true
		}
	}
	if n.Type() != ast.TypeInline {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1), true
		}
	}
	return text.Segment{}, false
}

// PlainText extracts the fully de-formatted inline content of n: emphasis
// and link markers are dropped, code spans keep their literal text, soft
// breaks become spaces and hard breaks newlines.
func (d *Document) PlainText(n ast.Node) string {
	var b strings.Builder
	d.plainText(&b, n)
	return b.String()
}

func (d *Document) plainText(b *strings.Builder, n ast.Node) {
	switch t := n.(type) {
	case *ast.Text:
		b.Write(t.Segment.Value(d.Body))
		if t.HardLineBreak() {
			b.WriteByte('\n')
		} else if t.SoftLineBreak() {
			b.WriteByte(' ')
		}
		return
	case *ast.String:
		b.Write(t.Value)
		return
	case *ast.CodeSpan:
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			if txt, ok := c.(*ast.Text); ok {
				b.Write(txt.Segment.Value(d.Body))
			}
		}
		return
	case *ast.AutoLink:
		b.Write(t.URL(d.Body))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		d.plainText(b, c)
	}
}

// CodeLiteral returns the literal text of a code or HTML block node,
// assembled from its line segments.
func (d *Document) CodeLiteral(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(d.Body))
	}
	if h, ok := n.(*ast.HTMLBlock); ok && h.HasClosure() {
		b.Write(h.ClosureLine.Value(d.Body))
	}
	return b.String()
}
