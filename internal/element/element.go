// Package element flattens a parsed Markdown document into an ordered
// sequence of typed element records, and defines the record shape shared
// with the storage and rendering layers.
package element

// Kind separates block-level records from inline spans.
type Kind string

const (
	KindBlock  Kind = "block"
	KindInline Kind = "inline"
)

// Encoding declares how an element's content must be interpreted.
type Encoding string

const (
	EncodingText Encoding = "text"
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
	EncodingHTML Encoding = "html"
)

// Canonical block element types. Type is an open string tag: unknown values
// pass through the pipeline and render via the generic fallback.
const (
	TypeHeading     = "heading"
	TypeParagraph   = "paragraph"
	TypeCode        = "code"
	TypeBlockquote  = "blockquote"
	TypeList        = "list"
	TypeTable       = "table"
	TypeHR          = "hr"
	TypeImage       = "image"
	TypeHTML        = "html"
	TypeRaw         = "raw"
	TypeFrontmatter = "frontmatter"
	TypeMetadata    = "metadata"
)

// Element is one flattened document unit. Elements are immutable value
// records derived fresh on every parse; ElementOrder is the sole ordering
// key within a document.
type Element struct {
	Kind       Kind              `json:"kind"`
	Type       string            `json:"element_type"`
	Content    string            `json:"content"`
	Level      int               `json:"level"`
	Encoding   Encoding          `json:"encoding"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Order      int               `json:"element_order"`
}

// Attr returns the named attribute, or "" when absent. Nil maps are fine.
func (e Element) Attr(key string) string {
	return e.Attributes[key]
}
