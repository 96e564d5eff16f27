// Package spath implements segment paths: '/'-delimited addresses into
// documents whose segments are object keys, array indices or the
// wildcard "@".
//
// A backslash escapes the next character, so "/a\/b" is the single
// segment "a/b". Empty segments are dropped, which makes "/", "" and
// "//" all address the root.
package spath

import (
	"slices"
	"strings"
)

const (
	Delim    = '/'
	Escape   = '\\'
	Wildcard = "@"
)

// Path is a split path. A nil Path means no path was given; an empty
// non-nil Path addresses the root.
type Path []string

// Split tokenizes p on unescaped delimiters.
func Split(p string) Path {
	res := Path{}
	var seg []byte
	inSeg := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == Escape && i+1 < len(p):
			i++
			seg = append(seg, p[i])
			inSeg = true
		case c == Delim:
			if inSeg {
				res = append(res, string(seg))
			}
			seg = seg[:0]
			inSeg = false
		default:
			seg = append(seg, c)
			inSeg = true
		}
	}
	if inSeg {
		res = append(res, string(seg))
	}
	return res
}

// Join renders p as a delimited string with a leading delimiter,
// escaping delimiters and escapes within segments.
func Join(p Path) string {
	if len(p) == 0 {
		return string(Delim)
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte(Delim)
		for i := 0; i < len(seg); i++ {
			if seg[i] == Delim || seg[i] == Escape {
				b.WriteByte(Escape)
			}
			b.WriteByte(seg[i])
		}
	}
	return b.String()
}

func (p Path) String() string {
	return Join(p)
}

// IsRoot reports whether p is given and addresses the root.
func (p Path) IsRoot() bool {
	return p != nil && len(p) == 0
}

// HasWildcard reports whether any segment of p is the wildcard.
func (p Path) HasWildcard() bool {
	return slices.Contains(p, Wildcard)
}

// Clone returns a copy of p which shares no storage with it.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path{}, p...)
}

// Append returns p followed by segs in new storage.
func (p Path) Append(segs ...string) Path {
	res := make(Path, 0, len(p)+len(segs))
	res = append(res, p...)
	return append(res, segs...)
}
