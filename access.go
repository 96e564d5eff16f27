package patchwork

import (
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

// Get returns the value at path in doc, or def when there is none. The
// root path returns doc.
func Get(doc *ir.Node, path string, def *ir.Node) *ir.Node {
	return GetPath(doc, spath.Split(path), def)
}

func GetPath(doc *ir.Node, p spath.Path, def *ir.Node) *ir.Node {
	if v, ok := ir.Lookup(doc, p); ok {
		return v
	}
	return def
}

// Set writes a copy of v at path in doc, creating intermediate
// containers, and returns doc. At the root path doc is left alone and
// v is returned.
func Set(doc *ir.Node, path string, v *ir.Node) (*ir.Node, error) {
	return SetPath(doc, spath.Split(path), v)
}

func SetPath(doc *ir.Node, p spath.Path, v *ir.Node) (*ir.Node, error) {
	if len(p) == 0 {
		return v, nil
	}
	if v == nil {
		v = ir.Null()
	}
	if err := ir.Assign(doc, p, v.Clone()); err != nil {
		return nil, err
	}
	return doc, nil
}
