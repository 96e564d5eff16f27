package ir

import (
	"fmt"
	"strconv"
)

// IsIndex reports whether seg is a canonical array index: "0" or a
// decimal without leading zeros.
func IsIndex(seg string) bool {
	if seg == "" || len(seg) > 1 && seg[0] == '0' {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

// MaxIndexGap is how far past the end of an array a write may land.
// The slots in between are filled with nulls.
const MaxIndexGap = 1024

// CanSetIndex reports whether SetIndex(i, ...) on y stays within
// MaxIndexGap of its end.
func (y *Node) CanSetIndex(i int) bool {
	return i >= 0 && i-len(y.Values) <= MaxIndexGap
}

func toIndex(seg string) (int, bool) {
	if !IsIndex(seg) {
		return 0, false
	}
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Child returns the direct child of y addressed by seg.
func (y *Node) Child(seg string) (*Node, bool) {
	if y == nil {
		return nil, false
	}
	switch y.Type {
	case ObjectType:
		if i := y.index(seg); i != -1 {
			return y.Values[i], true
		}
	case ArrayType:
		i, ok := toIndex(seg)
		if ok && i < len(y.Values) {
			return y.Values[i], true
		}
	}
	return nil, false
}

// Lookup follows segs from y and returns the node found there. An empty
// segs addresses y itself.
func Lookup(y *Node, segs []string) (*Node, bool) {
	cur := y
	if cur == nil {
		return nil, false
	}
	for _, seg := range segs {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Has reports whether segs denotes an existing location under y.
func Has(y *Node, segs []string) bool {
	_, ok := Lookup(y, segs)
	return ok
}

// Assign writes v at segs under y, creating intermediate containers as
// needed. An intermediate is an array when the segment that follows it
// is an index and an object otherwise. Scalars found along the way are
// replaced. The missing part of the path is built detached and attached
// last, so y is untouched when Assign fails.
func Assign(y *Node, segs []string, v *Node) error {
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", ErrNotContainer)
	}
	if !y.IsContainer() {
		return fmt.Errorf("%w: cannot assign into %s", ErrNotContainer, y.Type)
	}
	cur := y
	k := 0
	for ; k < len(segs)-1; k++ {
		next, ok := cur.Child(segs[k])
		if !ok || !next.IsContainer() {
			break
		}
		cur = next
	}
	sub := v
	for j := len(segs) - 1; j > k; j-- {
		c := EmptyObject()
		if IsIndex(segs[j]) {
			c = EmptyArray()
		}
		if err := c.setChild(segs[j], sub); err != nil {
			return err
		}
		sub = c
	}
	return cur.setChild(segs[k], sub)
}

func (y *Node) setChild(seg string, v *Node) error {
	switch y.Type {
	case ObjectType:
		y.Put(seg, v)
		return nil
	case ArrayType:
		i, ok := toIndex(seg)
		if !ok {
			return fmt.Errorf("%w: %q", ErrBadIndex, seg)
		}
		if !y.CanSetIndex(i) {
			return fmt.Errorf("%w: %d is more than %d past the end of %d elements", ErrBadIndex, i, MaxIndexGap, len(y.Values))
		}
		y.SetIndex(i, v)
		return nil
	default:
		return fmt.Errorf("%w: cannot set %q in %s", ErrNotContainer, seg, y.Type)
	}
}
