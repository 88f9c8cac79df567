package superjson

import (
	"strconv"
	"strings"
)

// PathSegment is one step in a dotted annotation path: either an
// object key or a non-negative array index.
type PathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment creates a key segment.
func KeySegment(key string) PathSegment {
	return PathSegment{Key: key}
}

// IndexSegment creates an index segment.
func IndexSegment(i int) PathSegment {
	return PathSegment{Index: i, IsIndex: true}
}

// String returns the segment as it appears inside a joined path.
func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return EscapeKey(s.Key)
}

// EscapeKey escapes a key for use in a dotted path. Backslashes become
// \\ and dots become \. — backslashes first, so an existing backslash
// cannot swallow the escape of a following dot.
func EscapeKey(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	return strings.ReplaceAll(key, ".", `\.`)
}

// JoinPath joins segments into a dotted path. The empty segment list
// joins to the empty string.
func JoinPath(segments []PathSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// ParsePath splits a dotted path on unescaped dots and unescapes each
// segment. A segment that reads entirely as a non-negative decimal
// integer is classified as an index, otherwise as a key. Parsing is
// total: every input produces some segment list.
//
// Purely numeric keys are indistinguishable from indexes once
// re-parsed; ParsePath(JoinPath(s)) == s only holds when every key
// segment is non-empty and not all decimal digits. That ambiguity is
// inherent to the dotted-path format.
func ParsePath(path string) []PathSegment {
	if path == "" {
		return nil
	}

	var segments []PathSegment
	var current strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '\\' && i+1 < len(path) {
			next := path[i+1]
			if next == '\\' || next == '.' {
				current.WriteByte(next)
				i++
				continue
			}
		}
		if c == '.' {
			segments = append(segments, classifySegment(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	segments = append(segments, classifySegment(current.String()))
	return segments
}

func classifySegment(s string) PathSegment {
	if n, err := strconv.ParseUint(s, 10, 63); err == nil {
		return IndexSegment(int(n))
	}
	return KeySegment(s)
}
