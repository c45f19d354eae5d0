// Package verse defines the core domain types for addressable scripture
// units. A verse is one unit in a global ordered sequence; the index is the
// sequence key and everything else is payload owned by the rendering layer.
package verse

import "fmt"

// Ref is a human-facing scripture reference.
type Ref struct {
	Book    string // canonical book code, e.g. "JHN"
	Chapter int
	Verse   int
}

// String formats the reference as "JHN 3:16".
func (r Ref) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.Book == "" && r.Chapter == 0 && r.Verse == 0
}

// Verse is one addressable unit of a translation.
//
// Index is globally unique and strictly ordered across the whole corpus.
// Consumers that only manage windows of verses (the window manager) treat
// everything but Index as opaque.
type Verse struct {
	Index       int
	Ref         Ref
	Translation string
	Text        string
}
