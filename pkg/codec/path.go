package codec

import "strings"

// Join appends segments to base using the configured separator.
func (c *Codec) Join(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		b.WriteString(c.sep)
		b.WriteString(seg)
	}
	return b.String()
}

// SplitLast splits path on the last separator occurrence. When the separator
// is absent, parent is empty, last is path and ok is false.
func (c *Codec) SplitLast(path string) (parent, last string, ok bool) {
	i := strings.LastIndex(path, c.sep)
	if i < 0 {
		return "", path, false
	}
	return path[:i], path[i+len(c.sep):], true
}

// LastSegment returns the rightmost segment of path, or path itself when it
// holds no separator. It is the display title of a group.
func (c *Codec) LastSegment(path string) string {
	_, last, _ := c.SplitLast(path)
	return last
}

// Segments returns the segments of path below root. ok is false when path
// does not start with root followed by the separator.
func (c *Codec) Segments(root, path string) ([]string, bool) {
	prefix := root + c.sep
	if !strings.HasPrefix(path, prefix) {
		return nil, false
	}
	return strings.Split(path[len(prefix):], c.sep), true
}

// IsIndex reports whether seg is a non-negative integer literal made of ASCII
// digits only.
func IsIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}
