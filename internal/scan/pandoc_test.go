package scan

import (
	"reflect"
	"testing"
)

func TestInlineTextPlain(t *testing.T) {
	content := `[{"t":"Str","c":"Hello"},{"t":"Space"},{"t":"Str","c":"world"}]`
	if got := InlineText(content); got != "Hello world" {
		t.Errorf("got %q, want %q", got, "Hello world")
	}
}

func TestInlineTextStrongEmph(t *testing.T) {
	content := `[{"t":"Str","c":"a"},{"t":"Space"},{"t":"Strong","c":[{"t":"Str","c":"bold"}]},{"t":"Space"},{"t":"Emph","c":[{"t":"Str","c":"it"}]}]`
	if got := InlineText(content); got != "a **bold** *it*" {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextNested(t *testing.T) {
	content := `[{"t":"Strong","c":[{"t":"Emph","c":[{"t":"Str","c":"both"}]}]}]`
	if got := InlineText(content); got != "***both***" {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextCode(t *testing.T) {
	content := `[{"t":"Code","c":[["",[],[]],"x := 1"]}]`
	if got := InlineText(content); got != "`x := 1`" {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextLink(t *testing.T) {
	content := `[{"t":"Link","c":[["",[],[]],[{"t":"Str","c":"docs"}],["https://example.com",""]]}]`
	if got := InlineText(content); got != "[docs](https://example.com)" {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextSoftBreak(t *testing.T) {
	content := `[{"t":"Str","c":"a"},{"t":"SoftBreak"},{"t":"Str","c":"b"}]`
	if got := InlineText(content); got != "a b" {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextEscapes(t *testing.T) {
	content := `[{"t":"Str","c":"quote \"here\" and \\ slash"}]`
	if got := InlineText(content); got != `quote "here" and \ slash` {
		t.Errorf("got %q", got)
	}
}

func TestInlineTextEmptyAndGarbage(t *testing.T) {
	if got := InlineText(""); got != "" {
		t.Errorf("empty input: got %q", got)
	}
	if got := InlineText("no markers here"); got != "" {
		t.Errorf("no markers: got %q", got)
	}
}

func TestInlineTextBracketsInsideStrings(t *testing.T) {
	// Brackets inside string literals must not perturb depth counting.
	content := `[{"t":"Strong","c":[{"t":"Str","c":"a ] b [ c"}]}]`
	if got := InlineText(content); got != "**a ] b [ c**" {
		t.Errorf("got %q", got)
	}
}

func TestIsPandocTable(t *testing.T) {
	if !IsPandocTable(`[[{"t":"AlignLeft"}],[1.0]]`) {
		t.Error("alignment-tagged nested array should be detected")
	}
	if IsPandocTable(`{"headers": [], "rows": []}`) {
		t.Error("object shape misdetected as pandoc table")
	}
	if IsPandocTable(`[["a"]]`) {
		t.Error("nested array without alignment tag misdetected")
	}
}

func TestPandocTable(t *testing.T) {
	// [caption, alignments, widths, tableHead, tableBodies]
	content := `[[null],[{"t":"AlignLeft"},{"t":"AlignLeft"}],[0,0],` +
		`[[{"t":"Plain","c":[{"t":"Str","c":"H1"}]}],[{"t":"Plain","c":[{"t":"Str","c":"H2"}]}]],` +
		`[[[{"t":"Plain","c":[{"t":"Str","c":"a"}]}],[{"t":"Plain","c":[{"t":"Str","c":"b"}]}]],[[{"t":"Plain","c":[{"t":"Str","c":"c"}]}],[{"t":"Plain","c":[{"t":"Str","c":"d"}]}]]]]`

	headers, rows := PandocTable(content)
	if !reflect.DeepEqual(headers, []string{"H1", "H2"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) == 0 {
		t.Fatal("expected body rows")
	}
	var cells []string
	for _, row := range rows {
		cells = append(cells, row...)
	}
	if !reflect.DeepEqual(cells, []string{"a", "b", "c", "d"}) {
		t.Errorf("body cells = %v", cells)
	}
}
