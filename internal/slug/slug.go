// Package slug generates stable, URL-safe section identifiers from heading
// text, matching GitHub-style anchors.
package slug

import (
	"strconv"
	"strings"
)

// Dedup tracks how many times each base id has been produced within a single
// document pass. One Dedup instance must not be shared across documents or
// across independent passes over the same document.
type Dedup map[string]int

// NewDedup returns an empty counter map for one decomposition or section pass.
func NewDedup() Dedup {
	return make(Dedup)
}

// Base converts heading text to its base identifier: lowercase, every rune
// outside [a-z0-9-_] replaced with '-', runs of '-' collapsed, leading and
// trailing '-' trimmed.
func Base(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastHyphen := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		// Everything else (including '-' itself) becomes a single hyphen.
		if !lastHyphen {
			b.WriteByte('-')
		}
		lastHyphen = true
	}

	return strings.Trim(b.String(), "-")
}

// Peek returns the id that Next would produce for text without consuming a
// counter slot. Used for forward references to sections that have not been
// emitted yet.
func (d Dedup) Peek(text string) string {
	id := Base(text)
	if n := d[id]; n > 0 {
		return id + "-" + strconv.Itoa(n)
	}
	return id
}

// Next returns the deduplicated id for text and records the occurrence. The
// first occurrence keeps the bare base id; the second gets "-1", and so on.
func (d Dedup) Next(text string) string {
	base := Base(text)
	n := d[base]
	d[base] = n + 1
	if n > 0 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}
