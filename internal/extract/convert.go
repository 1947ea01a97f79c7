package extract

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	xhtml "golang.org/x/net/html"

	"github.com/dgallion1/mdquery/internal/mdparse"
)

// ToHTML converts Markdown to HTML. Frontmatter is stripped first so the
// delimiters do not render as a setext heading.
func ToHTML(source []byte) (string, error) {
	return mdparse.ToHTML(mdparse.StripFrontmatter(source))
}

// ToText converts Markdown to plain text: one line per block, all inline
// formatting dropped. HTML blocks contribute their tag-stripped text.
func ToText(source []byte) (string, error) {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return "", err
	}

	var parts []string
	for n := doc.Root.FirstChild(); n != nil; n = n.NextSibling() {
		var text string
		switch t := n.(type) {
		case *ast.HTMLBlock:
			text = htmlText(doc.CodeLiteral(t))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			text = strings.TrimSuffix(doc.CodeLiteral(n), "\n")
		case *ast.ThematicBreak:
			continue
		default:
			text = doc.PlainText(n)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// htmlText strips tags from an HTML fragment, keeping text content.
func htmlText(fragment string) string {
	var b strings.Builder
	tok := xhtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tok.Next() {
		case xhtml.ErrorToken:
			return strings.TrimSpace(b.String())
		case xhtml.TextToken:
			b.Write(tok.Text())
		}
	}
}

// Normalize canonicalizes line endings: CRLF and bare CR both become LF.
func Normalize(source []byte) []byte {
	out := strings.ReplaceAll(string(source), "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	return []byte(out)
}
