package hierkey

import "strings"

// Path is the structured representation of a hierarchical identifier: an
// ordered sequence of segment names, each matching `\w+`.
type Path struct {
	Segments []string
}

// Join returns the canonical dotted-string representation, e.g. "a.b.c".
func (p Path) Join() string {
	return strings.Join(p.Segments, ".")
}

// Append returns a new Path with segment added at the end. The receiver is
// left unmodified so callers can build sibling keys from a shared prefix.
func (p Path) Append(segment string) Path {
	segments := make([]string, len(p.Segments), len(p.Segments)+1)
	copy(segments, p.Segments)
	return Path{Segments: append(segments, segment)}
}

// Of builds a Path from a parent's already-resolved key (may be empty) and
// a local identifier.
func Of(parentKey, localID string) Path {
	if parentKey == "" {
		return Path{Segments: []string{localID}}
	}
	return Path{Segments: append(strings.Split(parentKey, "."), localID)}
}

// Key is a convenience wrapper around Of(...).Join() for the common case of
// computing a single child key.
func Key(parentKey, localID string) string {
	if parentKey == "" {
		return localID
	}
	return parentKey + "." + localID
}
