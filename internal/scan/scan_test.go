package scan

import (
	"reflect"
	"testing"
)

func TestStringArray(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"simple", `["a", "b"]`, []string{"a", "b"}},
		{"no spaces", `["a","b","c"]`, []string{"a", "b", "c"}},
		{"escapes", `["line\none", "tab\there", "quote\"q"]`, []string{"line\none", "tab\there", `quote"q`}},
		{"backslash", `["back\\slash"]`, []string{`back\slash`}},
		{"commas inside strings", `["a, b", "c"]`, []string{"a, b", "c"}},
		{"empty array", `[]`, nil},
		{"not an array", `{"headers": []}`, nil},
		{"empty input", ``, nil},
		{"garbage", `hello`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringArray(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringArray(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	content := `{"headers": ["Name", "Age"], "rows": [["alice", "30"], ["bob", "25"]]}`
	headers, rows := Table(content)

	if !reflect.DeepEqual(headers, []string{"Name", "Age"}) {
		t.Errorf("headers = %v", headers)
	}
	want := [][]string{{"alice", "30"}, {"bob", "25"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestTableMalformed(t *testing.T) {
	for _, content := range []string{"", "not json", `{"rows": }`, `[1,2,3]`} {
		headers, rows := Table(content)
		if len(headers) != 0 || len(rows) != 0 {
			t.Errorf("Table(%q) = %v, %v; want empty", content, headers, rows)
		}
	}
}

func TestTableHeadersOnly(t *testing.T) {
	headers, rows := Table(`{"headers": ["h1"], "rows": []}`)
	if !reflect.DeepEqual(headers, []string{"h1"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want empty", rows)
	}
}

func TestEncodeStringArrayRoundTrip(t *testing.T) {
	items := []string{"plain", "with, comma", "with \"quote\"", "multi\nline"}
	encoded := EncodeStringArray(items)
	decoded := StringArray(encoded)
	if !reflect.DeepEqual(decoded, items) {
		t.Errorf("round trip: %v -> %q -> %v", items, encoded, decoded)
	}
}

func TestEncodeTableRoundTrip(t *testing.T) {
	headers := []string{"h1", "h2"}
	rows := [][]string{{"a", "b"}, {"c", "d"}}
	encoded := EncodeTable(headers, rows)

	gotHeaders, gotRows := Table(encoded)
	if !reflect.DeepEqual(gotHeaders, headers) {
		t.Errorf("headers round trip: %v -> %v", headers, gotHeaders)
	}
	if !reflect.DeepEqual(gotRows, rows) {
		t.Errorf("rows round trip: %v -> %v", rows, gotRows)
	}
}

func TestEncodeTableWireFormat(t *testing.T) {
	got := EncodeTable([]string{"h1", "h2"}, [][]string{{"a", "b"}})
	want := `{"headers": ["h1", "h2"], "rows": [["a", "b"]]}`
	if got != want {
		t.Errorf("EncodeTable = %q, want %q", got, want)
	}
}
