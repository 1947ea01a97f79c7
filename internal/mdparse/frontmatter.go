package mdparse

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Frontmatter is matched textually, not with a YAML parser. Fields are
// surfaced as flat key/value pairs via a line-oriented heuristic; nested
// structures stay in the raw text.
var (
	frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)
	stripRe       = regexp.MustCompile(`(?s)^---\n.*?\n---\n*`)
)

// RawFrontmatter returns the YAML between the leading --- delimiters,
// without them, or "" when the document has none.
func RawFrontmatter(source []byte) string {
	m := frontmatterRe.FindSubmatch(source)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// StripFrontmatter removes the frontmatter block, including trailing blank
// lines, and returns the body.
func StripFrontmatter(source []byte) []byte {
	loc := stripRe.FindIndex(source)
	if loc == nil {
		return source
	}
	return source[loc[1]:]
}

// splitFrontmatter returns the raw frontmatter and the remaining body.
func splitFrontmatter(source []byte) (raw string, body []byte) {
	return RawFrontmatter(source), StripFrontmatter(source)
}

// frontmatterLines counts the source lines removed by StripFrontmatter so
// line numbers computed against the body can be mapped back.
func frontmatterLines(source, body []byte) int {
	return bytes.Count(source[:len(source)-len(body)], []byte("\n"))
}

// MetadataFields extracts flat key: value pairs from raw frontmatter text.
// Surrounding double quotes on values are removed. Lines without a colon are
// ignored.
func MetadataFields(raw string) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := sc.Text()
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		if key != "" {
			fields[key] = value
		}
	}
	return fields
}
