package cond

import (
	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

// Condition is a single comparison. Path addresses the value under test
// in the document the condition is attached to. Value is a literal, or
// when the operator is parenthesized, a path into the opposite
// document.
type Condition struct {
	Path     spath.Path
	Operator string
	Value    *ir.Node
}

// Group holds alternatives; it passes when any of them does.
type Group []Condition

// Tests holds groups which must all pass.
type Tests []Group

// Test evaluates tests for one resolved pairing. side is the document
// the tests are attached to and other is the opposite document; the
// paths are the concrete paths of the current pairing and the patterns
// they were expanded from.
func Test(tests Tests, side, other *ir.Node, sidePath, otherPath, unresolvedSide, unresolvedOther spath.Path) (bool, error) {
	for _, group := range tests {
		ok, err := testGroup(group, side, other, sidePath, otherPath, unresolvedSide, unresolvedOther)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func testGroup(group Group, side, other *ir.Node, sidePath, otherPath, unresolvedSide, unresolvedOther spath.Path) (bool, error) {
	for i := range group {
		ok, err := testOne(&group[i], side, other, sidePath, otherPath, unresolvedSide, unresolvedOther)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func testOne(c *Condition, side, other *ir.Node, sidePath, otherPath, unresolvedSide, unresolvedOther spath.Path) (bool, error) {
	op, err := Compile(c.Operator)
	if err != nil {
		return false, err
	}
	// a missing value is compared as nil
	lefts := resolve(side, spath.Intersect(sidePath, pathOrRoot(c.Path), unresolvedSide))

	var ok bool
	if op.IsPath {
		vp := spath.Intersect(otherPath, ValuePath(c.Value), unresolvedOther)
		var rights []*ir.Node
		for _, p := range spath.Expand(other, vp, true) {
			v, _ := ir.Lookup(other, p)
			rights = append(rights, v)
		}
		ok, err = anyPair(op, lefts, rights)
	} else {
		ok, err = anyPair(op, lefts, []*ir.Node{c.Value})
	}
	if debug.Test() {
		debug.Logf("test %s %s %v gave %t\n", c.Path, op, c.Value, ok)
	}
	return ok, err
}

// resolve fetches the values at p. When p still has wildcards it is
// expanded strictly and array values found are flattened one level.
func resolve(doc *ir.Node, p spath.Path) []*ir.Node {
	if !p.HasWildcard() {
		v, _ := ir.Lookup(doc, p)
		return []*ir.Node{v}
	}
	var res []*ir.Node
	for _, cp := range spath.Expand(doc, p, true) {
		v, _ := ir.Lookup(doc, cp)
		if v.Type == ir.ArrayType {
			res = append(res, v.Values...)
			continue
		}
		res = append(res, v)
	}
	return res
}

func anyPair(op Operator, lefts, rights []*ir.Node) (bool, error) {
	for _, l := range lefts {
		for _, r := range rights {
			ok, err := op.Compare(l, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func pathOrRoot(p spath.Path) spath.Path {
	if p == nil {
		return spath.Path{}
	}
	return p
}

// ValuePath reads a path operand: a delimited string or an array of
// segments.
func ValuePath(v *ir.Node) spath.Path {
	if v == nil {
		return spath.Path{}
	}
	switch v.Type {
	case ir.StringType:
		return spath.Split(v.String)
	case ir.ArrayType:
		res := make(spath.Path, len(v.Values))
		for i, seg := range v.Values {
			res[i] = seg.Text()
		}
		return res
	}
	return spath.Split(v.Text())
}
