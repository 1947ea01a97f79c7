// Package extract pulls typed content out of Markdown documents: document
// statistics, code blocks, links, images and tables, plus format conversion
// helpers. All extractors return empty results for empty or unparseable
// input rather than failing.
package extract

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/dgallion1/mdquery/internal/mdparse"
)

// Stats is a coarse statistical summary of one document. Counts are
// text-level approximations, not AST-exact figures.
type Stats struct {
	WordCount          int     `json:"word_count"`
	CharCount          int     `json:"char_count"`
	LineCount          int     `json:"line_count"`
	HeadingCount       int     `json:"heading_count"`
	CodeBlockCount     int     `json:"code_block_count"`
	LinkCount          int     `json:"link_count"`
	ReadingTimeMinutes float64 `json:"reading_time_minutes"`
}

var (
	headingLine = regexp.MustCompile(`(?m)^#{1,6}\s`)
	inlineLink  = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
	// Reference definitions: [id]: url "optional title", URL optionally in
	// angle brackets.
	refDefLine = regexp.MustCompile(`^\s*\[[^\]]+\]:\s+<?([^\s>]+)>?`)
)

// CalculateStats computes document statistics over the raw text. Reading
// time assumes 200 words per minute.
func CalculateStats(source []byte) Stats {
	s := Stats{
		WordCount: len(strings.Fields(string(source))),
		CharCount: len(source),
		LineCount: strings.Count(string(source), "\n") + 1,
	}
	s.HeadingCount = len(headingLine.FindAll(source, -1))
	// Fences pair up: an opening and a closing ``` per block.
	s.CodeBlockCount = strings.Count(string(source), "```") / 2
	s.LinkCount = len(inlineLink.FindAll(source, -1))
	s.ReadingTimeMinutes = float64(s.WordCount) / 200.0
	return s
}

// CodeBlock is one fenced or indented code block.
type CodeBlock struct {
	Language   string `json:"language"`
	Code       string `json:"code"`
	InfoString string `json:"info_string"`
	Line       int    `json:"line_number"`
}

// CodeBlocks returns every code block in document order. A non-empty
// languageFilter keeps only blocks whose language matches it
// case-insensitively.
func CodeBlocks(source []byte, languageFilter string) []CodeBlock {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil
	}

	var blocks []CodeBlock
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		switch t := n.(type) {
		case *ast.FencedCodeBlock:
			block.Code = doc.CodeLiteral(t)
			// Line segments cover the content; the opening fence sits one
			// line above.
			if line := doc.StartLine(t); line > 1 {
				block.Line = line - 1
			}
			if t.Info != nil {
				block.InfoString = string(t.Info.Segment.Value(doc.Body))
			}
		case *ast.CodeBlock:
			block.Code = doc.CodeLiteral(t)
			block.Line = doc.StartLine(t)
		default:
			return ast.WalkContinue, nil
		}

		// Language is the first word of the info string.
		if block.InfoString != "" {
			block.Language = block.InfoString
			if space := strings.IndexByte(block.InfoString, ' '); space >= 0 {
				block.Language = block.InfoString[:space]
			}
			block.Language = strings.TrimSpace(block.Language)
		}

		if languageFilter == "" || strings.EqualFold(block.Language, languageFilter) {
			blocks = append(blocks, block)
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// Link is one inline or reference link.
type Link struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Line        int    `json:"line_number"`
	IsReference bool   `json:"is_reference"`
}

// Links returns every link in document order. A link whose URL appears in a
// reference definition line ([id]: url) is flagged as reference-style.
func Links(source []byte) []Link {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil
	}

	// Pre-scan for reference definitions; goldmark resolves them away, so
	// the raw lines are the only trace left.
	refURLs := make(map[string]bool)
	for _, line := range strings.Split(string(source), "\n") {
		if m := refDefLine.FindStringSubmatch(line); m != nil {
			refURLs[m[1]] = true
		}
	}

	var links []Link
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Link:
			links = append(links, Link{
				Text:        linkText(doc, t),
				URL:         string(t.Destination),
				Title:       string(t.Title),
				Line:        doc.StartLine(t),
				IsReference: refURLs[string(t.Destination)],
			})
		case *ast.AutoLink:
			url := string(t.URL(doc.Body))
			links = append(links, Link{
				Text: url,
				URL:  url,
				Line: doc.StartLine(t),
			})
		}
		return ast.WalkContinue, nil
	})
	return links
}

// linkText flattens a link's direct text and code-span children.
func linkText(doc *mdparse.Document, link ast.Node) string {
	var b strings.Builder
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(doc.Body))
		case *ast.CodeSpan:
			for g := t.FirstChild(); g != nil; g = g.NextSibling() {
				if txt, ok := g.(*ast.Text); ok {
					b.Write(txt.Segment.Value(doc.Body))
				}
			}
		}
	}
	return b.String()
}

// Image is one inline image.
type Image struct {
	AltText string `json:"alt_text"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Line    int    `json:"line_number"`
}

// Images returns every image in document order.
func Images(source []byte) []Image {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil
	}

	var images []Image
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering {
			images = append(images, Image{
				AltText: linkText(doc, img),
				URL:     string(img.Destination),
				Title:   string(img.Title),
				Line:    doc.StartLine(img),
			})
		}
		return ast.WalkContinue, nil
	})
	return images
}

// Table is one pipe table, cells flattened to plain text.
type Table struct {
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	Alignments []string   `json:"alignments"`
	NumColumns int        `json:"num_columns"`
	NumRows    int        `json:"num_rows"`
	Line       int        `json:"line_number"`
}

// Tables returns every pipe table in document order. Short rows are padded
// with empty cells up to the header width.
func Tables(source []byte) []Table {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil
	}

	var tables []Table
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		t, ok := n.(*east.Table)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}

		table := Table{Line: doc.StartLine(t)}
		for row := t.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, doc.PlainText(cell))
			}
			if _, isHeader := row.(*east.TableHeader); isHeader {
				table.Headers = cells
			} else {
				table.Rows = append(table.Rows, cells)
			}
		}

		table.NumColumns = len(table.Headers)
		for i, row := range table.Rows {
			for len(row) < table.NumColumns {
				row = append(row, "")
			}
			table.Rows[i] = row
		}
		table.NumRows = len(table.Rows)

		for _, a := range t.Alignments {
			table.Alignments = append(table.Alignments, alignmentName(a))
		}
		for len(table.Alignments) < table.NumColumns {
			table.Alignments = append(table.Alignments, "left")
		}

		return ast.WalkSkipChildren, nil
	})
	return tables
}

func alignmentName(a east.Alignment) string {
	switch a {
	case east.AlignCenter:
		return "center"
	case east.AlignRight:
		return "right"
	default:
		return "left"
	}
}
