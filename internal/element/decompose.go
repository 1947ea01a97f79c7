package element

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/dgallion1/mdquery/internal/mdparse"
	"github.com/dgallion1/mdquery/internal/scan"
	"github.com/dgallion1/mdquery/internal/slug"
)

// Decompose parses source and flattens its top-level blocks into an ordered
// element sequence. Frontmatter, when present, becomes the first record.
func Decompose(source []byte) ([]Element, error) {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc), nil
}

// FromDocument decomposes an already-parsed document. The id dedup counter
// is local to this pass; section extraction over the same document runs its
// own counter.
func FromDocument(doc *mdparse.Document) []Element {
	var elements []Element
	order := 1
	ids := slug.NewDedup()

	if doc.Frontmatter != "" {
		elements = append(elements, Element{
			Kind:     KindBlock,
			Type:     TypeFrontmatter,
			Content:  doc.Frontmatter,
			Level:    0,
			Encoding: EncodingYAML,
			Order:    order,
		})
		order++
	}

	for n := doc.Root.FirstChild(); n != nil; n = n.NextSibling() {
		el := decomposeNode(doc, n, ids)
		el.Kind = KindBlock
		el.Order = order
		order++
		elements = append(elements, el)
	}

	return elements
}

func decomposeNode(doc *mdparse.Document, n ast.Node, ids slug.Dedup) Element {
	el := Element{Encoding: EncodingText, Level: -1}

	switch t := n.(type) {
	case *ast.Heading:
		el.Type = TypeHeading
		el.Level = t.Level
		el.Content = doc.PlainText(t)
		el.Attributes = map[string]string{"id": ids.Next(el.Content)}

	case *ast.Paragraph:
		el.Type = TypeParagraph
		el.Content = doc.Render(t)

	case *ast.FencedCodeBlock:
		el.Type = TypeCode
		el.Content = strings.TrimSuffix(doc.CodeLiteral(t), "\n")
		if t.Info != nil {
			info := string(t.Info.Segment.Value(doc.Body))
			if info != "" {
				el.Attributes = map[string]string{"language": info}
				if space := strings.IndexByte(info, ' '); space >= 0 {
					el.Attributes["language"] = info[:space]
					el.Attributes["info_string"] = info
				}
			}
		}

	case *ast.CodeBlock:
		// Indented code has no fence info.
		el.Type = TypeCode
		el.Content = strings.TrimSuffix(doc.CodeLiteral(t), "\n")

	case *ast.Blockquote:
		el.Type = TypeBlockquote
		el.Level = 1
		el.Content = stripQuoteMarkers(doc.Render(t))

	case *ast.List:
		el.Type = TypeList
		el.Level = 1
		el.Encoding = EncodingJSON
		el.Attributes = map[string]string{"ordered": "false"}
		if t.IsOrdered() {
			el.Attributes["ordered"] = "true"
			start := t.Start
			if start <= 0 {
				start = 1
			}
			el.Attributes["start"] = strconv.Itoa(start)
		}
		el.Content = scan.EncodeStringArray(listItemTexts(doc, t))

	case *east.Table:
		el.Type = TypeTable
		el.Encoding = EncodingJSON
		headers, rows := tableCells(doc, t)
		el.Content = scan.EncodeTable(headers, rows)

	case *ast.ThematicBreak:
		el.Type = TypeHR

	case *ast.HTMLBlock:
		el.Type = TypeHTML
		el.Content = strings.TrimRight(doc.CodeLiteral(t), "\n")

	default:
		el.Type = TypeRaw
		el.Content = doc.Render(n)
		el.Attributes = map[string]string{"original_type": n.Kind().String()}
	}

	return el
}

// listItemTexts captures each item's own leading text: the first
// paragraph-equivalent child. Nested sub-lists are not flattened here.
func listItemTexts(doc *mdparse.Document, list *ast.List) []string {
	items := make([]string, 0, list.ChildCount())
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var text string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*ast.List); ok {
				break
			}
			if t := doc.PlainText(c); t != "" {
				text = t
				break
			}
		}
		items = append(items, text)
	}
	return items
}

// tableCells flattens a GFM table; the first row is always the header row.
func tableCells(doc *mdparse.Document, table *east.Table) (headers []string, rows [][]string) {
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, doc.PlainText(cell))
		}
		if _, ok := row.(*east.TableHeader); ok {
			headers = cells
		} else {
			rows = append(rows, cells)
		}
	}
	// A table with no header row promotes its first row, mirroring GFM
	// semantics where the first row is always the header.
	if headers == nil && len(rows) > 0 {
		headers = rows[0]
		rows = rows[1:]
	}
	return headers, rows
}

// stripQuoteMarkers removes the leading "> " or ">" from every line of a
// rendered blockquote; quote markers are a rendering concern, not content.
func stripQuoteMarkers(rendered string) string {
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "> "):
			lines[i] = line[2:]
		case strings.HasPrefix(line, ">"):
			lines[i] = line[1:]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
