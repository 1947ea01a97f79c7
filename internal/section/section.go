// Package section builds the hierarchical section view of a Markdown
// document: one record per heading, with stable ids, parent/path linkage and
// content captured under a configurable policy.
package section

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/mdquery/internal/mdparse"
	"github.com/dgallion1/mdquery/internal/slug"
)

// Mode controls how much nested content a section absorbs.
type Mode string

const (
	// ModeMinimal stops at the very next heading regardless of level.
	ModeMinimal Mode = "minimal"
	// ModeFull captures everything up to the next heading at the same or
	// a higher level, subsection headings included.
	ModeFull Mode = "full"
	// ModeSmart behaves like full but truncates oversized content and
	// appends one reference line per direct child subsection.
	ModeSmart Mode = "smart"
)

// DefaultMaxContentLength bounds smart-mode content when the caller does not
// supply a limit.
const DefaultMaxContentLength = 2000

// Options is the configuration surface of one extraction pass. Zero values
// fall back to the documented defaults.
type Options struct {
	MinLevel         int
	MaxLevel         int
	Mode             Mode
	MaxContentLength int
	IncludeContent   bool
	// IncludeFrontmatter synthesizes a level-0 pseudo-section from the
	// document frontmatter, emitted before all heading sections.
	IncludeFrontmatter bool
}

func (o Options) withDefaults() Options {
	if o.MinLevel <= 0 {
		o.MinLevel = 1
	}
	if o.MaxLevel <= 0 {
		o.MaxLevel = 6
	}
	if o.Mode == "" {
		o.Mode = ModeMinimal
	}
	if o.MaxContentLength <= 0 {
		o.MaxContentLength = DefaultMaxContentLength
	}
	return o
}

// Section is one derived heading-rooted record. Sections form a forest
// ordered by document position; a child's level is strictly greater than its
// parent's.
type Section struct {
	ID        string `json:"id"`
	Path      string `json:"section_path"`
	Level     int    `json:"level"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ParentID  string `json:"parent_id"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Extract parses source and returns its sections under opts.
func Extract(source []byte, opts Options) ([]Section, error) {
	doc, err := mdparse.Parse(source)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts), nil
}

// Headings returns the table-of-contents view: sections between level 1 and
// maxLevel, without content.
func Headings(source []byte, maxLevel int) ([]Section, error) {
	return Extract(source, Options{MaxLevel: maxLevel})
}

type headingRef struct {
	node  *ast.Heading
	level int
}

// FromDocument extracts sections from an already-parsed document. The slug
// dedup counter is owned by this pass alone.
func FromDocument(doc *mdparse.Document, opts Options) []Section {
	opts = opts.withDefaults()
	ids := slug.NewDedup()

	// All headings are collected first; out-of-window ones still shape the
	// stop boundaries below, but only emitted sections take part in parent
	// lookup.
	var headings []headingRef
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, headingRef{node: h, level: h.Level})
		}
		return ast.WalkContinue, nil
	})

	var sections []Section
	for i, h := range headings {
		if h.level < opts.MinLevel || h.level > opts.MaxLevel {
			continue
		}

		sec := Section{
			Level:     h.level,
			Title:     doc.PlainText(h.node),
			StartLine: doc.StartLine(h.node),
			EndLine:   doc.EndLine(h.node),
		}
		sec.ID = ids.Next(sec.Title)

		// Nearest previously emitted section with a smaller level is the
		// parent; the scan runs backwards over the output list.
		sec.Path = sec.ID
		for j := len(sections) - 1; j >= 0; j-- {
			if sections[j].Level < sec.Level {
				sec.ParentID = sections[j].ID
				sec.Path = sections[j].Path + "/" + sec.ID
				break
			}
		}

		if opts.IncludeContent {
			captureContent(doc, headings, i, &sec, opts, ids)
		}

		sections = append(sections, sec)
	}

	if opts.IncludeFrontmatter && doc.Frontmatter != "" {
		fm := Section{
			ID:        "frontmatter",
			Path:      "frontmatter",
			Level:     0,
			Content:   doc.Frontmatter,
			StartLine: 1,
			EndLine:   strings.Count(doc.Frontmatter, "\n") + 3,
		}
		sections = append([]Section{fm}, sections...)
	}

	return sections
}

// captureContent fills sec.Content from the nodes between heading i and the
// mode-dependent stop boundary, applying smart-mode truncation.
func captureContent(doc *mdparse.Document, headings []headingRef, i int, sec *Section, opts Options, ids slug.Dedup) {
	// Forward scan for the stop boundary.
	var stopNode ast.Node
	for j := i + 1; j < len(headings); j++ {
		if opts.Mode == ModeMinimal || headings[j].level <= sec.Level {
			stopNode = headings[j].node
			if line := doc.StartLine(headings[j].node); line > 1 {
				sec.EndLine = line - 1
			}
			break
		}
	}

	var parts []string
	var immediate string
	foundSubsection := false

	for cur := headings[i].node.NextSibling(); cur != nil; cur = cur.NextSibling() {
		if h, ok := cur.(*ast.Heading); ok {
			if opts.Mode == ModeMinimal || h.Level <= sec.Level {
				break
			}
			if opts.Mode == ModeSmart && !foundSubsection {
				immediate = strings.Join(parts, "\n\n")
				foundSubsection = true
			}
		}
		if cur == stopNode {
			break
		}
		parts = append(parts, doc.Render(cur))
		if stopNode == nil {
			if line := doc.EndLine(cur); line > sec.EndLine {
				sec.EndLine = line
			}
		}
	}

	content := strings.Join(parts, "\n\n")

	if opts.Mode == ModeSmart && len(content) > opts.MaxContentLength {
		content = smartTruncate(doc, headings, i, sec.Level, content, immediate, opts.MaxContentLength, ids)
	}
	sec.Content = content
}

// smartTruncate prefers the content accumulated before the first subsection;
// otherwise it cuts at the length bound and backtracks to the last line break
// past the midpoint. Each direct child subsection gets a reference line. The
// child id is peeked from the shared counter so it matches the id that
// section receives when it is emitted itself (guaranteed only while no
// duplicate titles sit between here and the child).
func smartTruncate(doc *mdparse.Document, headings []headingRef, i, level int, content, immediate string, maxLen int, ids slug.Dedup) string {
	out := immediate
	if out == "" {
		out = content[:maxLen]
		if nl := strings.LastIndexByte(out, '\n'); nl > maxLen/2 {
			out = out[:nl]
		}
	}

	var refs strings.Builder
	for j := i + 1; j < len(headings); j++ {
		if headings[j].level <= level {
			break
		}
		if headings[j].level == level+1 {
			childID := ids.Peek(doc.PlainText(headings[j].node))
			refs.WriteString("\n... (see #" + childID + ")\n")
		}
	}

	return out + refs.String()
}
