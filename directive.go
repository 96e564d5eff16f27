package patchwork

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/patchwork/cond"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

var ErrBadDirective = errors.New("bad directive")

// Endpoint is one side of a directive. A nil Path is unset and matches
// nothing; an empty Path is the document root.
type Endpoint struct {
	Path  spath.Path
	Tests cond.Tests
}

// Directive is one source to target rule.
type Directive struct {
	Source Endpoint
	Target Endpoint

	// Merge overlays the computed value onto an existing container
	// target instead of replacing it.
	Merge bool
	// Collect appends the computed value to the target instead of
	// replacing it.
	Collect bool
	// Unique removes structural duplicates from an array result.
	Unique bool
	// TargetAsSource seeds the computed value from the target location.
	TargetAsSource bool
	// Depth, when negative, appends that many trailing source segments
	// to each target path.
	Depth int
	// Operations are operation specs run in order on the value.
	Operations []*ir.Node
}

// DirectivesFromIR decodes a directive list.
func DirectivesFromIR(node *ir.Node) ([]*Directive, error) {
	if node == nil || node.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: directives must be an array", ErrBadDirective)
	}
	res := make([]*Directive, len(node.Values))
	for i, dn := range node.Values {
		d, err := DirectiveFromIR(dn)
		if err != nil {
			return nil, fmt.Errorf("directive %d: %w", i, err)
		}
		res[i] = d
	}
	return res, nil
}

// DirectiveFromIR decodes a single directive object. Paths may be
// strings or arrays of segments; boolean flags take document
// truthiness; depth may be a number or a numeric string.
func DirectiveFromIR(node *ir.Node) (*Directive, error) {
	if node == nil || node.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: directive must be an object", ErrBadDirective)
	}
	d := &Directive{}
	var err error
	for i, f := range node.Fields {
		v := node.Values[i]
		switch f.String {
		case "source":
			d.Source, err = endpointFromIR(v)
		case "target":
			d.Target, err = endpointFromIR(v)
		case "merge":
			d.Merge = ir.Truth(v)
		case "collect":
			d.Collect = ir.Truth(v)
		case "unique":
			d.Unique = ir.Truth(v)
		case "targetAsSource":
			d.TargetAsSource = ir.Truth(v)
		case "depth":
			d.Depth = toInt(v)
		case "operations":
			if v.Type == ir.ArrayType {
				d.Operations = v.Values
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.String, err)
		}
	}
	return d, nil
}

func endpointFromIR(node *ir.Node) (Endpoint, error) {
	ep := Endpoint{}
	if node.Type != ir.ObjectType {
		return ep, fmt.Errorf("%w: endpoint must be an object", ErrBadDirective)
	}
	if p := ir.Get(node, "path"); p != nil {
		path, err := pathFromIR(p)
		if err != nil {
			return ep, err
		}
		ep.Path = path
	}
	if t := ir.Get(node, "tests"); t != nil {
		tests, err := testsFromIR(t)
		if err != nil {
			return ep, err
		}
		ep.Tests = tests
	}
	return ep, nil
}

func pathFromIR(node *ir.Node) (spath.Path, error) {
	switch node.Type {
	case ir.StringType:
		return spath.Split(node.String), nil
	case ir.ArrayType:
		res := make(spath.Path, len(node.Values))
		for i, seg := range node.Values {
			if !seg.Type.IsLeaf() {
				return nil, fmt.Errorf("%w: path segment %d is a %s", ErrBadDirective, i, seg.Type)
			}
			res[i] = seg.Text()
		}
		return res, nil
	case ir.NullType:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: path must be a string or an array, got %s", ErrBadDirective, node.Type)
}

// testsFromIR accepts a condition, a list of conditions, or a list
// mixing conditions and lists of alternative conditions.
func testsFromIR(node *ir.Node) (cond.Tests, error) {
	elts := []*ir.Node{node}
	if node.Type == ir.ArrayType {
		elts = node.Values
	}
	res := make(cond.Tests, 0, len(elts))
	for _, elt := range elts {
		alts := []*ir.Node{elt}
		if elt.Type == ir.ArrayType {
			alts = elt.Values
		}
		group := make(cond.Group, 0, len(alts))
		for _, alt := range alts {
			c, err := conditionFromIR(alt)
			if err != nil {
				return nil, err
			}
			group = append(group, c)
		}
		res = append(res, group)
	}
	return res, nil
}

func conditionFromIR(node *ir.Node) (cond.Condition, error) {
	c := cond.Condition{}
	if node.Type != ir.ObjectType {
		return c, fmt.Errorf("%w: condition must be an object, got %s", ErrBadDirective, node.Type)
	}
	if p := ir.Get(node, "path"); p != nil {
		path, err := pathFromIR(p)
		if err != nil {
			return c, err
		}
		c.Path = path
	}
	if op := ir.Get(node, "operator"); op != nil {
		c.Operator = op.Text()
	}
	c.Value = ir.Get(node, "value")
	return c, nil
}

// toInt reads a leading integer, as in "-2" or "3px"; anything else
// is 0.
func toInt(node *ir.Node) int {
	switch node.Type {
	case ir.NumberType:
		f, _ := node.Float()
		return int(f)
	case ir.StringType:
		s := strings.TrimSpace(node.String)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		i, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}
