package spath

import (
	"strconv"

	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/ir"
)

// Expand resolves wildcard segments of p against doc, returning every
// concrete path p can denote. A wildcard enumerates the indices of an
// array or the keys of an object, in order; it yields nothing under a
// scalar or a missing location, and a literal segment following such an
// empty wildcard starts a fresh one-segment path. With strict set, paths
// which do not exist in doc are dropped.
//
// A nil p yields nothing. The root path yields the single root path.
func Expand(doc *ir.Node, p Path, strict bool) []Path {
	if p == nil {
		return nil
	}
	res := []Path{{}}
	for _, seg := range p {
		if seg != Wildcard {
			if len(res) == 0 {
				// a wildcard matched nothing; restart from here
				res = []Path{{seg}}
				continue
			}
			for i := range res {
				res[i] = res[i].Append(seg)
			}
			continue
		}
		var next []Path
		for _, prefix := range res {
			node, ok := ir.Lookup(doc, prefix)
			if !ok {
				continue
			}
			switch node.Type {
			case ir.ArrayType:
				for i := range node.Values {
					next = append(next, prefix.Append(strconv.Itoa(i)))
				}
			case ir.ObjectType:
				for _, f := range node.Fields {
					next = append(next, prefix.Append(f.String))
				}
			}
		}
		res = next
	}
	if strict {
		kept := res[:0]
		for _, cp := range res {
			if ir.Has(doc, cp) {
				kept = append(kept, cp)
			}
		}
		res = kept
	}
	if debug.Expand() {
		debug.Logf("expand %s strict=%t gave %d paths\n", p, strict, len(res))
	}
	return res
}

// ExpandString is the string form of Expand. The result holds joined
// concrete paths, or p itself when nothing matched.
func ExpandString(doc *ir.Node, p string, strict bool) []string {
	paths := Expand(doc, Split(p), strict)
	if len(paths) == 0 {
		return []string{p}
	}
	res := make([]string, len(paths))
	for i := range paths {
		res[i] = Join(paths[i])
	}
	return res
}
