package render

import (
	"strings"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/section"
)

// ElementsToSections regroups a flat element sequence into heading-rooted
// sections without re-parsing. Each heading opens a section; following
// non-heading records render into its content. The section path joins
// ancestor titles with " > ". Frontmatter becomes a level-0 section.
func ElementsToSections(els []element.Element) []section.Section {
	var sections []section.Section

	// Title stack by level, for path assembly.
	var titles [7]string

	var cur *section.Section
	var body strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = strings.TrimRight(body.String(), "\n")
		sections = append(sections, *cur)
		cur = nil
		body.Reset()
	}

	for _, el := range els {
		switch el.Type {
		case element.TypeFrontmatter, element.TypeMetadata:
			flush()
			sections = append(sections, section.Section{
				ID:      "frontmatter",
				Path:    "frontmatter",
				Level:   0,
				Content: el.Content,
			})

		case element.TypeHeading:
			flush()
			level := headingLevel(el.Level, el.Attributes)
			titles[level] = el.Content
			for l := level + 1; l < len(titles); l++ {
				titles[l] = ""
			}

			var path []string
			for l := 1; l <= level; l++ {
				if titles[l] != "" {
					path = append(path, titles[l])
				}
			}

			cur = &section.Section{
				ID:    sectionID(el),
				Path:  strings.Join(path, " > "),
				Level: level,
				Title: el.Content,
			}

		default:
			if cur != nil {
				body.WriteString(Element(el))
			}
		}
	}
	flush()

	return sections
}

// sectionID takes the decomposition-assigned id when present and otherwise
// derives a rough one from the title. The fallback is deliberately simpler
// than the document-level slug pass and performs no dedup.
func sectionID(el element.Element) string {
	if id := el.Attr("id"); id != "" {
		return id
	}
	return strings.ReplaceAll(strings.ToLower(el.Content), " ", "-")
}
