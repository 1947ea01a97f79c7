// Package render turns typed element records back into Markdown text. It is
// the inverse of the decomposition pass: every record renders to something,
// unknown types degrade to a plain paragraph, and malformed JSON-encoded
// sub-content falls back to the raw string. Rendering never fails.
package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/scan"
)

// Element renders a single record. Block forms self-terminate with a blank
// line; inline forms do not.
func Element(el element.Element) string {
	switch el.Kind {
	case element.KindBlock:
		return Block(el.Type, el.Content, el.Level, el.Encoding, el.Attributes)
	case element.KindInline:
		return Inline(el.Type, el.Content, el.Attributes)
	}
	// Unknown kind: guess from the type tag.
	switch el.Type {
	case element.TypeHeading, element.TypeParagraph, element.TypeBlockquote,
		element.TypeList, element.TypeTable, element.TypeHR, element.TypeCode,
		element.TypeImage, element.TypeMetadata, element.TypeFrontmatter:
		return Block(el.Type, el.Content, el.Level, el.Encoding, el.Attributes)
	}
	return Inline(el.Type, el.Content, el.Attributes)
}

// Elements renders a record sequence. Inline runs are concatenated as-is; a
// transition from inline back to block inserts one blank-line separator.
func Elements(els []element.Element) string {
	var b strings.Builder
	lastWasInline := false

	for _, el := range els {
		isInline := el.Kind == element.KindInline
		if lastWasInline && !isInline {
			b.WriteString("\n\n")
		}
		b.WriteString(Element(el))
		lastWasInline = isInline
	}
	return b.String()
}

// Block renders one block-level record, blank-line terminated.
func Block(elementType, content string, level int, encoding element.Encoding, attrs map[string]string) string {
	switch elementType {
	case element.TypeFrontmatter, element.TypeMetadata:
		return "---\n" + content + "\n---\n\n"

	case element.TypeHeading:
		return strings.Repeat("#", headingLevel(level, attrs)) + " " + content + "\n\n"

	case element.TypeParagraph:
		return content + "\n\n"

	case element.TypeCode:
		return "```" + attrs["language"] + "\n" + content + "\n```\n\n"

	case element.TypeBlockquote:
		var b strings.Builder
		for _, line := range strings.Split(content, "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
		return b.String()

	case element.TypeList:
		return renderList(content, encoding, attrs)

	case element.TypeTable:
		return renderTable(content, encoding)

	case element.TypeHR:
		return "---\n\n"

	case "list_item":
		if attrs["ordered"] == "true" && attrs["item_number"] != "" {
			return attrs["item_number"] + ". " + content + "\n"
		}
		return "- " + content + "\n"

	case element.TypeImage:
		alt := attrs["alt"]
		if alt == "" {
			alt = content
		}
		out := "![" + alt + "](" + attrs["src"]
		if t := attrs["title"]; t != "" {
			out += ` "` + t + `"`
		}
		return out + ")\n\n"

	case element.TypeRaw, element.TypeHTML, "md:html_block":
		return content + "\n\n"
	}

	// Unknown block types render as a paragraph.
	return content + "\n\n"
}

// Inline renders one inline span, no terminator.
func Inline(elementType, content string, attrs map[string]string) string {
	switch elementType {
	case "text", "str":
		return content

	case "bold", "strong":
		return "**" + content + "**"

	case "italic", "emphasis", "em":
		return "*" + content + "*"

	case "code":
		if strings.Contains(content, "`") {
			return "`` " + content + " ``"
		}
		return "`" + content + "`"

	case "link":
		out := "[" + content + "](" + attrs["href"]
		if t := attrs["title"]; t != "" {
			out += ` "` + t + `"`
		}
		return out + ")"

	case "image":
		out := "![" + content + "](" + attrs["src"]
		if t := attrs["title"]; t != "" {
			out += ` "` + t + `"`
		}
		return out + ")"

	case "strikethrough", "del":
		return "~~" + content + "~~"

	case "superscript", "sup":
		return "^" + content + "^"

	case "subscript", "sub":
		return "~" + content + "~"

	case "underline":
		return "<u>" + content + "</u>"

	case "smallcaps":
		return `<span style="font-variant: small-caps">` + content + "</span>"

	case "math":
		if attrs["display"] == "block" {
			return "$$" + content + "$$"
		}
		return "$" + content + "$"

	case "quoted":
		if attrs["quote_type"] == "single" {
			return "'" + content + "'"
		}
		return `"` + content + `"`

	case "cite":
		if key := attrs["key"]; key != "" {
			return "[@" + key + "]"
		}
		return content

	case "note":
		return "[^" + content + "]"

	case "space":
		return " "

	case "softbreak":
		return "\n"

	case "linebreak", "br":
		return "  \n"

	case "raw", "span":
		return content
	}

	// Unknown inline types pass their content through verbatim.
	return content
}

// headingLevel resolves the effective level: the heading_level attribute
// wins when it parses as an integer, then the record's own level, then 1.
// The result is clamped to [1,6].
func headingLevel(level int, attrs map[string]string) int {
	resolved := 1
	if v := attrs["heading_level"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			resolved = n
		}
	} else if level > 0 && level <= 6 {
		resolved = level
	}
	if resolved < 1 {
		resolved = 1
	}
	if resolved > 6 {
		resolved = 6
	}
	return resolved
}

func renderList(content string, encoding element.Encoding, attrs map[string]string) string {
	if encoding == element.EncodingJSON && len(content) > 2 && content[0] == '[' {
		if items := scan.StringArray(content); len(items) > 0 {
			ordered := attrs["ordered"] == "true"
			num := 1
			if s := attrs["start"]; s != "" {
				if n, err := strconv.Atoi(s); err == nil {
					num = n
				}
			}
			var b strings.Builder
			for _, item := range items {
				if ordered {
					b.WriteString(strconv.Itoa(num) + ". " + item + "\n")
					num++
				} else {
					b.WriteString("- " + item + "\n")
				}
			}
			b.WriteString("\n")
			return b.String()
		}
	}
	return content + "\n\n"
}

func renderTable(content string, encoding element.Encoding) string {
	var headers []string
	var rows [][]string

	if encoding == element.EncodingJSON {
		if strings.Contains(content, `"headers"`) {
			headers, rows = scan.Table(content)
		}
		if len(headers) == 0 && len(rows) == 0 && scan.IsPandocTable(content) {
			headers, rows = scan.PandocTable(content)
		}
	}
	if len(headers) == 0 && len(rows) == 0 {
		return content + "\n\n"
	}

	cols := len(headers)
	if cols == 0 && len(rows) > 0 {
		cols = len(rows[0])
	}

	var b strings.Builder
	b.WriteByte('|')
	if len(headers) > 0 {
		for _, h := range headers {
			b.WriteString(" " + h + " |")
		}
	} else {
		for i := 0; i < cols; i++ {
			b.WriteString(" |")
		}
	}
	b.WriteString("\n|")
	for i := 0; i < cols; i++ {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteByte('|')
		for _, cell := range row {
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
