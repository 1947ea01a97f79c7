package extract

import (
	"strings"

	"github.com/dgallion1/mdquery/internal/section"
)

// Breadcrumb builds the root-to-leaf title trail for the section with the
// given id, joined by separator. Unknown ids yield "".
func Breadcrumb(source []byte, sectionID, separator string) string {
	sections, err := section.Extract(source, section.Options{IncludeContent: true, Mode: section.ModeFull})
	if err != nil || len(sections) == 0 {
		return ""
	}

	byID := make(map[string]section.Section, len(sections))
	for _, sec := range sections {
		byID[sec.ID] = sec
	}

	cur, ok := byID[sectionID]
	if !ok {
		return ""
	}

	var titles []string
	for {
		titles = append(titles, cur.Title)
		if cur.ParentID == "" {
			break
		}
		parent, ok := byID[cur.ParentID]
		if !ok {
			break
		}
		cur = parent
	}

	// Collected leaf-first; reverse for root-to-leaf order.
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, separator)
}

// ValidateInternalLink reports whether target resolves inside the document.
// Only "#fragment" targets are checked; anything else is assumed valid.
func ValidateInternalLink(source []byte, target string) bool {
	if !strings.HasPrefix(target, "#") {
		return true
	}
	id := target[1:]

	sections, err := section.Headings(source, 6)
	if err != nil {
		return false
	}
	for _, sec := range sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}
