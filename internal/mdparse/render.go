package mdparse

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Render re-serializes the subtree rooted at n back to canonical Markdown.
// goldmark ships HTML rendering only, so the Markdown form is rebuilt here.
// The result carries no trailing newline; callers joining blocks insert the
// blank-line separators.
func (d *Document) Render(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Document:
		return d.renderBlocks(t)

	case *ast.Heading:
		return strings.Repeat("#", t.Level) + " " + d.renderInlines(t)

	case *ast.Paragraph, *ast.TextBlock:
		return d.renderInlines(n)

	case *ast.FencedCodeBlock:
		info := ""
		if t.Info != nil {
			info = string(t.Info.Segment.Value(d.Body))
		}
		code := strings.TrimRight(d.CodeLiteral(t), "\n")
		return "```" + info + "\n" + code + "\n```"

	case *ast.CodeBlock:
		code := strings.TrimRight(d.CodeLiteral(t), "\n")
		return "```\n" + code + "\n```"

	case *ast.Blockquote:
		return prefixLines(d.renderBlocks(t), "> ")

	case *ast.List:
		return d.renderList(t)

	case *ast.ThematicBreak:
		return "---"

	case *ast.HTMLBlock:
		return strings.TrimRight(d.CodeLiteral(t), "\n")

	case *east.Table:
		return d.renderTable(t)

	default:
		if n.Type() == ast.TypeInline {
			return d.renderInline(n)
		}
		// Unknown block kind: fall back to its inline text.
		return d.renderInlines(n)
	}
}

// renderBlocks joins the rendering of n's block children with blank lines.
func (d *Document) renderBlocks(n ast.Node) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		parts = append(parts, d.Render(c))
	}
	return strings.Join(parts, "\n\n")
}

func (d *Document) renderList(l *ast.List) string {
	var lines []string
	num := l.Start
	if num <= 0 {
		num = 1
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var marker string
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		} else {
			marker = "- "
		}

		var itemParts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			itemParts = append(itemParts, d.Render(c))
		}
		body := strings.Join(itemParts, "\n")

		indent := strings.Repeat(" ", len(marker))
		for i, line := range strings.Split(body, "\n") {
			if i == 0 {
				lines = append(lines, marker+line)
			} else {
				lines = append(lines, indent+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (d *Document) renderTable(t *east.Table) string {
	var header []string
	var rows [][]string

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, d.renderInlines(cell))
		}
		if _, ok := row.(*east.TableHeader); ok {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}

	cols := len(header)
	if cols == 0 && len(rows) > 0 {
		cols = len(rows[0])
	}

	var b strings.Builder
	b.WriteByte('|')
	for _, h := range header {
		b.WriteString(" " + h + " |")
	}
	b.WriteString("\n|")
	for i := 0; i < cols; i++ {
		b.WriteString("---|")
	}
	for _, row := range rows {
		b.WriteString("\n|")
		for _, cell := range row {
			b.WriteString(" " + cell + " |")
		}
	}
	return b.String()
}

// renderInlines renders the inline children of n.
func (d *Document) renderInlines(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(d.renderInline(c))
	}
	return b.String()
}

func (d *Document) renderInline(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Text:
		s := string(t.Segment.Value(d.Body))
		if t.HardLineBreak() {
			return s + "  \n"
		}
		if t.SoftLineBreak() {
			return s + "\n"
		}
		return s

	case *ast.String:
		return string(t.Value)

	case *ast.Emphasis:
		return strings.Repeat("*", t.Level) + d.renderInlines(t) + strings.Repeat("*", t.Level)

	case *ast.CodeSpan:
		var code strings.Builder
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			if txt, ok := c.(*ast.Text); ok {
				code.Write(txt.Segment.Value(d.Body))
			}
		}
		if strings.Contains(code.String(), "`") {
			return "`` " + code.String() + " ``"
		}
		return "`" + code.String() + "`"

	case *ast.Link:
		out := "[" + d.renderInlines(t) + "](" + string(t.Destination)
		if len(t.Title) > 0 {
			out += ` "` + string(t.Title) + `"`
		}
		return out + ")"

	case *ast.Image:
		out := "![" + d.renderInlines(t) + "](" + string(t.Destination)
		if len(t.Title) > 0 {
			out += ` "` + string(t.Title) + `"`
		}
		return out + ")"

	case *ast.AutoLink:
		return "<" + string(t.URL(d.Body)) + ">"

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < t.Segments.Len(); i++ {
			seg := t.Segments.At(i)
			b.Write(seg.Value(d.Body))
		}
		return b.String()

	case *east.Strikethrough:
		return "~~" + d.renderInlines(t) + "~~"

	default:
		return d.renderInlines(n)
	}
}

// prefixLines prepends prefix to every line of s.
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
