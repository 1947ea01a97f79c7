package section

import (
	"strings"
	"testing"
)

func extract(t *testing.T, src string, opts Options) []Section {
	t.Helper()
	sections, err := Extract([]byte(src), opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return sections
}

const hierarchyDoc = `# A

text1

## B

text2

# C

text3
`

func TestMinimalModeStopsAtAnyHeading(t *testing.T) {
	sections := extract(t, hierarchyDoc, Options{IncludeContent: true, Mode: ModeMinimal})

	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	a := sections[0]
	if a.Content != "text1" {
		t.Errorf("section A content = %q, want %q", a.Content, "text1")
	}
}

func TestFullModeAbsorbsSubsections(t *testing.T) {
	sections := extract(t, hierarchyDoc, Options{IncludeContent: true, Mode: ModeFull})

	a := sections[0]
	if !strings.Contains(a.Content, "text1") {
		t.Errorf("section A missing own text: %q", a.Content)
	}
	if !strings.Contains(a.Content, "## B") {
		t.Errorf("section A missing subsection heading: %q", a.Content)
	}
	if !strings.Contains(a.Content, "text2") {
		t.Errorf("section A missing subsection text: %q", a.Content)
	}
	if strings.Contains(a.Content, "text3") {
		t.Errorf("section A absorbed sibling C's text: %q", a.Content)
	}
}

func TestHierarchyLinkage(t *testing.T) {
	sections := extract(t, hierarchyDoc, Options{})

	a, b, c := sections[0], sections[1], sections[2]
	if a.ID != "a" || b.ID != "b" || c.ID != "c" {
		t.Fatalf("ids = %q %q %q", a.ID, b.ID, c.ID)
	}
	if a.ParentID != "" || c.ParentID != "" {
		t.Errorf("roots must have empty parent: %q %q", a.ParentID, c.ParentID)
	}
	if b.ParentID != "a" {
		t.Errorf("b.ParentID = %q, want a", b.ParentID)
	}
	if b.Path != "a/b" {
		t.Errorf("b.Path = %q, want a/b", b.Path)
	}

	// Hierarchy invariant: parent level strictly smaller, parent earlier.
	for i, sec := range sections {
		if sec.ParentID == "" {
			continue
		}
		var parent *Section
		for j := 0; j < i; j++ {
			if sections[j].ID == sec.ParentID {
				parent = &sections[j]
			}
		}
		if parent == nil {
			t.Errorf("section %q: parent %q not emitted earlier", sec.ID, sec.ParentID)
			continue
		}
		if parent.Level >= sec.Level {
			t.Errorf("section %q level %d has parent level %d", sec.ID, sec.Level, parent.Level)
		}
	}
}

func TestDuplicateTitlesDisambiguated(t *testing.T) {
	src := "# Intro\n\n# Intro\n\n# Intro\n"
	sections := extract(t, src, Options{})

	want := []string{"intro", "intro-1", "intro-2"}
	for i, w := range want {
		if sections[i].ID != w {
			t.Errorf("section %d id = %q, want %q", i, sections[i].ID, w)
		}
	}
}

func TestLevelWindowSkipsSections(t *testing.T) {
	src := "# Top\n\n## Mid\n\n### Deep\n"
	sections := extract(t, src, Options{MinLevel: 1, MaxLevel: 2})

	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	for _, sec := range sections {
		if sec.Level > 2 {
			t.Errorf("section %q level %d outside window", sec.ID, sec.Level)
		}
	}
}

func TestTitlesAreDeformatted(t *testing.T) {
	sections := extract(t, "## The *Quick* `Fox`\n", Options{})
	if sections[0].Title != "The Quick Fox" {
		t.Errorf("title = %q", sections[0].Title)
	}
}

func TestStartLines(t *testing.T) {
	sections := extract(t, hierarchyDoc, Options{IncludeContent: true})

	if sections[0].StartLine != 1 {
		t.Errorf("A start = %d, want 1", sections[0].StartLine)
	}
	if sections[1].StartLine != 5 {
		t.Errorf("B start = %d, want 5", sections[1].StartLine)
	}
	// A's content stops just before B.
	if sections[0].EndLine != 4 {
		t.Errorf("A end = %d, want 4", sections[0].EndLine)
	}
}

func TestFrontmatterPseudoSection(t *testing.T) {
	src := "---\ntitle: Doc\n---\n\n# Real\n"
	sections := extract(t, src, Options{IncludeFrontmatter: true, IncludeContent: true})

	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	fm := sections[0]
	if fm.ID != "frontmatter" || fm.Level != 0 || fm.Title != "" {
		t.Errorf("frontmatter section = %+v", fm)
	}
	if fm.Content != "title: Doc" {
		t.Errorf("frontmatter content = %q", fm.Content)
	}
	// The pseudo-section must not become anyone's parent.
	if sections[1].ParentID != "" {
		t.Errorf("heading parent = %q, want empty", sections[1].ParentID)
	}
}

func TestSmartModeTruncation(t *testing.T) {
	long := strings.Repeat("word word word word word word word word.\n", 10)
	src := "# Parent\n\n" + long + "\n## Child One\n\nchild one text\n\n## Child Two\n\nchild two text\n"

	sections := extract(t, src, Options{
		IncludeContent:   true,
		Mode:             ModeSmart,
		MaxContentLength: 100,
	})

	parent := sections[0]
	if !strings.Contains(parent.Content, "... (see #child-one)") {
		t.Errorf("missing child one reference: %q", parent.Content)
	}
	if !strings.Contains(parent.Content, "... (see #child-two)") {
		t.Errorf("missing child two reference: %q", parent.Content)
	}
	if strings.Contains(parent.Content, "child one text") {
		t.Errorf("truncated content still carries subsection text: %q", parent.Content)
	}

	// The referenced ids must match the ids the children actually received.
	if sections[1].ID != "child-one" || sections[2].ID != "child-two" {
		t.Errorf("child ids = %q, %q", sections[1].ID, sections[2].ID)
	}
}

func TestSmartModePrefersImmediateContent(t *testing.T) {
	src := "# Parent\n\nshort intro\n\n## Child\n\n" + strings.Repeat("filler text here. ", 50) + "\n"

	sections := extract(t, src, Options{
		IncludeContent:   true,
		Mode:             ModeSmart,
		MaxContentLength: 50,
	})

	parent := sections[0]
	if !strings.HasPrefix(parent.Content, "short intro") {
		t.Errorf("smart content should start with immediate content: %q", parent.Content)
	}
	if !strings.Contains(parent.Content, "... (see #child)") {
		t.Errorf("missing child reference: %q", parent.Content)
	}
}

func TestSmartModeDuplicateTitleRefs(t *testing.T) {
	filler := strings.Repeat("filler text line.\n", 20)
	src := "# First\n\n" + filler + "\n## Dup\n\na\n\n# Second\n\n" + filler + "\n## Dup\n\nb\n"

	sections := extract(t, src, Options{
		IncludeContent:   true,
		Mode:             ModeSmart,
		MaxContentLength: 50,
	})

	if len(sections) != 4 {
		t.Fatalf("got %d sections, want 4", len(sections))
	}
	// The peeked reference must match the id each child actually receives,
	// even when a later child repeats an earlier title.
	if !strings.Contains(sections[0].Content, "... (see #dup)") {
		t.Errorf("first parent content = %q", sections[0].Content)
	}
	if !strings.Contains(sections[2].Content, "... (see #dup-1)") {
		t.Errorf("second parent content = %q", sections[2].Content)
	}
	if sections[1].ID != "dup" || sections[3].ID != "dup-1" {
		t.Errorf("child ids = %q, %q", sections[1].ID, sections[3].ID)
	}
}

func TestHeadings(t *testing.T) {
	sections, err := Headings([]byte(hierarchyDoc), 6)
	if err != nil {
		t.Fatalf("Headings: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d headings", len(sections))
	}
	for _, sec := range sections {
		if sec.Content != "" {
			t.Errorf("heading %q carries content: %q", sec.ID, sec.Content)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	sections := extract(t, "", Options{IncludeContent: true})
	if len(sections) != 0 {
		t.Errorf("got %d sections for empty input", len(sections))
	}
}
