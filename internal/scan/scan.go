// Package scan holds the restricted decoders for the JSON-like sub-encodings
// carried inside element content: flat string arrays for lists and the
// {"headers":[...],"rows":[[...]]} shape for tables. These are deliberately
// not general JSON parsers; the two fixed shapes are the whole wire contract.
// Malformed input yields empty results, never an error — the renderer falls
// back to emitting the raw content as a paragraph.
package scan

import "strings"

// StringArray decodes a bracketed, comma-separated array of quoted strings,
// e.g. ["a","b"]. The escapes \n \t \r \" \\ are recognized; any other
// escaped character is taken literally.
func StringArray(content string) []string {
	if len(content) < 2 || content[0] != '[' {
		return nil
	}

	inner := content[1 : len(content)-1]
	var items []string
	var cur strings.Builder
	inString := false
	escapeNext := false

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case escapeNext:
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			case 'r':
				cur.WriteByte('\r')
			default:
				cur.WriteByte(c)
			}
			escapeNext = false
		case c == '\\':
			escapeNext = true
		case c == '"':
			if inString {
				items = append(items, cur.String())
				cur.Reset()
			}
			inString = !inString
		case inString:
			cur.WriteByte(c)
		}
	}

	return items
}

// Table decodes the {"headers":[...],"rows":[[...],...]} object shape.
// Either field may be absent; missing or malformed fields come back empty.
func Table(content string) (headers []string, rows [][]string) {
	if idx := strings.Index(content, `"headers":`); idx >= 0 {
		if start := strings.IndexByte(content[idx:], '['); start >= 0 {
			start += idx
			if end := strings.IndexByte(content[start:], ']'); end >= 0 {
				headers = quotedStrings(content[start+1 : start+end])
			}
		}
	}

	idx := strings.Index(content, `"rows":`)
	if idx < 0 {
		return headers, rows
	}
	outer := strings.IndexByte(content[idx:], '[')
	if outer < 0 {
		return headers, rows
	}

	pos := idx + outer + 1
	for pos < len(content) {
		rowStart := strings.IndexByte(content[pos:], '[')
		if rowStart < 0 {
			break
		}
		rowStart += pos
		rowEnd := strings.IndexByte(content[rowStart:], ']')
		if rowEnd < 0 {
			break
		}
		rowEnd += rowStart

		if row := quotedStrings(content[rowStart+1 : rowEnd]); len(row) > 0 {
			rows = append(rows, row)
		}
		pos = rowEnd + 1
	}

	return headers, rows
}

// quotedStrings collects the quoted-string values from a flat array body.
// Unlike StringArray, escaped characters inside table cells are kept as the
// escaped character itself (matching the table sub-encoding, which only
// escapes quotes, backslashes and newlines).
func quotedStrings(body string) []string {
	var items []string
	var cur strings.Builder
	inString := false
	escapeNext := false

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case escapeNext:
			cur.WriteByte(c)
			escapeNext = false
		case c == '\\':
			escapeNext = true
		case c == '"':
			if inString {
				items = append(items, cur.String())
				cur.Reset()
			}
			inString = !inString
		case inString:
			cur.WriteByte(c)
		}
	}

	return items
}

// EscapeString writes s into b with the sub-encoding's escapes applied.
func EscapeString(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
}

// EncodeStringArray produces the list sub-encoding: ["a", "b"].
func EncodeStringArray(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		EscapeString(&b, item)
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}

// EncodeTable produces the table sub-encoding:
// {"headers": ["h1"], "rows": [["a"]]}.
func EncodeTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`{"headers": `)
	b.WriteString(EncodeStringArray(headers))
	b.WriteString(`, "rows": [`)
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(EncodeStringArray(row))
	}
	b.WriteString("]}")
	return b.String()
}
