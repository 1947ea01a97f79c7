package scan

import "strings"

// Some upstream pipelines hand us inline content as a nested tagged-node
// value stream: zero or more {"t":"Kind","c":...} fragments, where container
// kinds (Strong, Emph, Link) carry child inline arrays. InlineText walks that
// representation left to right and reconstructs Markdown-formatted text
// without a general JSON parser.

type inlineKind int

const (
	kindNone inlineKind = iota
	kindStr
	kindSpace
	kindSoftBreak
	kindStrong
	kindEmph
	kindCode
	kindLink
)

var inlineMarkers = []struct {
	marker string
	kind   inlineKind
}{
	{`"t":"Str"`, kindStr},
	{`"t":"Space"`, kindSpace},
	{`"t":"SoftBreak"`, kindSoftBreak},
	{`"t":"Strong"`, kindStrong},
	{`"t":"Emph"`, kindEmph},
	{`"t":"Code"`, kindCode},
	{`"t":"Link"`, kindLink},
}

// InlineText extracts Markdown text from a tagged-node inline stream.
// Unrecognized fragments are skipped.
func InlineText(content string) string {
	var out strings.Builder
	pos := 0

	for pos < len(content) {
		next, kind := nearestMarker(content, pos)
		if kind == kindNone {
			break
		}

		switch kind {
		case kindStr:
			// {"t":"Str","c":"text"}
			if cPos := strings.Index(content[next:], `"c":`); cPos >= 0 && cPos < 50 {
				quote := strings.IndexByte(content[next+cPos+4:], '"')
				if quote >= 0 {
					text, end := quotedString(content, next+cPos+4+quote)
					out.WriteString(text)
					pos = end
					continue
				}
			}
		case kindSpace, kindSoftBreak:
			out.WriteByte(' ')
			pos = next + 12
			continue
		case kindStrong, kindEmph:
			// {"t":"Strong","c":[...inlines...]}
			if inner, end, ok := childArray(content, next); ok {
				if kind == kindStrong {
					out.WriteString("**" + InlineText(inner) + "**")
				} else {
					out.WriteString("*" + InlineText(inner) + "*")
				}
				pos = end
				continue
			}
		case kindCode:
			// {"t":"Code","c":[[attr], "code text"]}
			if text, end, ok := codeText(content, next); ok {
				out.WriteString("`" + text + "`")
				pos = end
				continue
			}
		case kindLink:
			// {"t":"Link","c":[[attr],[...inlines...],["url","title"]]}
			if text, url, end, ok := linkParts(content, next); ok {
				out.WriteString("[" + text + "](" + url + ")")
				pos = end
				continue
			}
		}

		// Marker found but its payload didn't parse; skip past it.
		pos = next + 10
	}

	return out.String()
}

func nearestMarker(content string, pos int) (int, inlineKind) {
	best := -1
	kind := kindNone
	for _, m := range inlineMarkers {
		if idx := strings.Index(content[pos:], m.marker); idx >= 0 {
			if best < 0 || pos+idx < best {
				best = pos + idx
				kind = m.kind
			}
		}
	}
	return best, kind
}

// quotedString reads the string literal starting at the quote at start and
// returns the unescaped text plus the index just past the closing quote.
func quotedString(content string, start int) (string, int) {
	if start >= len(content) || content[start] != '"' {
		return "", start
	}
	end := start + 1
	escape := false
	for end < len(content) {
		switch {
		case escape:
			escape = false
		case content[end] == '\\':
			escape = true
		case content[end] == '"':
			goto done
		}
		end++
	}
done:
	raw := content[start+1 : end]

	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '"', '\\':
				b.WriteByte(raw[i+1])
				i++
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String(), end + 1
}

// bracketEnd returns the index of the ']' matching the '[' at start, skipping
// brackets inside quoted strings, or -1 if unbalanced.
func bracketEnd(content string, start int) int {
	if start >= len(content) || content[start] != '[' {
		return -1
	}
	depth := 0
	inString := false
	escape := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escape:
			escape = false
		case c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// childArray locates the "c" array of the fragment at markerPos and returns
// the bracketed span (inclusive) plus the index just past it.
func childArray(content string, markerPos int) (inner string, end int, ok bool) {
	cPos := strings.Index(content[markerPos:], `"c":`)
	if cPos < 0 {
		return "", 0, false
	}
	arrStart := strings.IndexByte(content[markerPos+cPos:], '[')
	if arrStart < 0 {
		return "", 0, false
	}
	arrStart += markerPos + cPos
	arrEnd := bracketEnd(content, arrStart)
	if arrEnd < 0 {
		return "", 0, false
	}
	return content[arrStart : arrEnd+1], arrEnd + 1, true
}

// codeText pulls the literal out of {"t":"Code","c":[[attr], "text"]}.
func codeText(content string, markerPos int) (string, int, bool) {
	cPos := strings.Index(content[markerPos:], `"c":`)
	if cPos < 0 {
		return "", 0, false
	}
	arrStart := strings.IndexByte(content[markerPos+cPos:], '[')
	if arrStart < 0 {
		return "", 0, false
	}
	arrStart += markerPos + cPos

	attrStart := strings.IndexByte(content[arrStart+1:], '[')
	if attrStart < 0 {
		return "", 0, false
	}
	attrStart += arrStart + 1
	attrEnd := bracketEnd(content, attrStart)
	if attrEnd < 0 {
		return "", 0, false
	}
	comma := strings.IndexByte(content[attrEnd:], ',')
	if comma < 0 {
		return "", 0, false
	}
	quote := strings.IndexByte(content[attrEnd+comma:], '"')
	if quote < 0 {
		return "", 0, false
	}
	text, end := quotedString(content, attrEnd+comma+quote)
	return text, end, true
}

// linkParts pulls the inline text and target URL out of
// {"t":"Link","c":[[attr],[...inlines...],["url","title"]]}.
func linkParts(content string, markerPos int) (text, url string, end int, ok bool) {
	cPos := strings.Index(content[markerPos:], `"c":`)
	if cPos < 0 {
		return "", "", 0, false
	}
	arrStart := strings.IndexByte(content[markerPos+cPos:], '[')
	if arrStart < 0 {
		return "", "", 0, false
	}
	arrStart += markerPos + cPos

	attrStart := strings.IndexByte(content[arrStart+1:], '[')
	if attrStart < 0 {
		return "", "", 0, false
	}
	attrStart += arrStart + 1
	attrEnd := bracketEnd(content, attrStart)
	if attrEnd < 0 {
		return "", "", 0, false
	}

	inlinesStart := strings.IndexByte(content[attrEnd+1:], '[')
	if inlinesStart < 0 {
		return "", "", 0, false
	}
	inlinesStart += attrEnd + 1
	inlinesEnd := bracketEnd(content, inlinesStart)
	if inlinesEnd < 0 {
		return "", "", 0, false
	}
	text = InlineText(content[inlinesStart : inlinesEnd+1])

	targetStart := strings.IndexByte(content[inlinesEnd+1:], '[')
	if targetStart < 0 {
		return "", "", 0, false
	}
	targetStart += inlinesEnd + 1
	urlQuote := strings.IndexByte(content[targetStart:], '"')
	if urlQuote < 0 {
		return "", "", 0, false
	}
	var urlEnd int
	url, urlEnd = quotedString(content, targetStart+urlQuote)

	end = urlEnd
	if targetEnd := bracketEnd(content, targetStart); targetEnd >= 0 {
		end = targetEnd + 1
	}
	return text, url, end, true
}

// IsPandocTable reports whether table content uses the nested-array
// alignment-tagged shape instead of the {"headers":...} object.
func IsPandocTable(content string) bool {
	return len(content) > 2 && content[0] == '[' && content[1] == '[' &&
		strings.Contains(content, `"t":"Align`)
}

// PandocTable decodes the nested-array table shape
// [caption, alignments, widths, tableHead, tableBodies] into headers and
// rows. Cell text goes through InlineText. If no header section is found,
// the first body row is promoted to headers.
func PandocTable(content string) (headers []string, rows [][]string) {
	headStart, bodyStart := -1, -1

	// Locate the 4th and 5th arrays at depth 2 (direct children of the
	// outer wrapper array).
	depth := 0
	arrayCount := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '[':
			depth++
			if depth == 2 {
				arrayCount++
				if arrayCount == 4 {
					headStart = i
				} else if arrayCount == 5 {
					bodyStart = i
				}
			}
		case ']':
			depth--
		case '"':
			// Skip string contents.
			i++
			for i < len(content) && content[i] != '"' {
				if content[i] == '\\' {
					i++
				}
				i++
			}
		}
		if bodyStart >= 0 {
			break
		}
	}

	if headStart >= 0 {
		headEnd := len(content)
		if bodyStart >= 0 {
			headEnd = bodyStart
		}
		headers = pandocCells(content[headStart:headEnd], nil)
	}

	if bodyStart >= 0 {
		pandocCells(content[bodyStart:], &rows)
	}

	if len(headers) == 0 && len(rows) > 0 {
		headers = rows[0]
		rows = rows[1:]
	}
	return headers, rows
}

// pandocCells scans a head or body section for Plain/Para cell blocks. When
// rows is nil the cells are returned flat (header mode); otherwise cells are
// grouped into rows at "]],[[" boundaries and appended to *rows.
func pandocCells(section string, rows *[][]string) []string {
	var flat []string
	var currentRow []string
	pos := 0
	lastCellEnd := 0

	for pos < len(section) {
		blockPos := nearestCellBlock(section, pos)
		if blockPos < 0 {
			break
		}

		if rows != nil && len(currentRow) > 0 {
			if strings.Contains(section[lastCellEnd:blockPos], "]],[[") {
				*rows = append(*rows, currentRow)
				currentRow = nil
			}
		}

		cPos := strings.Index(section[blockPos:], `"c":`)
		if cPos >= 0 && cPos < 30 {
			arrStart := strings.IndexByte(section[blockPos+cPos:], '[')
			if arrStart >= 0 {
				arrStart += blockPos + cPos
				arrEnd := bracketEnd(section, arrStart)
				if arrEnd < 0 {
					arrEnd = len(section) - 1
				}
				cellText := InlineText(section[arrStart : arrEnd+1])
				if rows != nil {
					currentRow = append(currentRow, cellText)
				} else if cellText != "" {
					flat = append(flat, cellText)
				}
				lastCellEnd = arrEnd + 1
				pos = arrEnd + 1
				continue
			}
		}
		pos = blockPos + 10
	}

	if rows != nil && len(currentRow) > 0 {
		*rows = append(*rows, currentRow)
	}
	return flat
}

func nearestCellBlock(section string, pos int) int {
	plain := strings.Index(section[pos:], `"t":"Plain"`)
	para := strings.Index(section[pos:], `"t":"Para"`)
	switch {
	case plain < 0 && para < 0:
		return -1
	case plain < 0:
		return pos + para
	case para < 0 || plain < para:
		return pos + plain
	default:
		return pos + para
	}
}
