package ops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/patchwork/eval"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

const (
	shapeName = "shape"

	identity     = "@"
	virtualSigil = "$"
)

var ErrNoPatcher = errors.New("no patcher in context")

// Shape returns the built-in shape operation. Its operation object carries a
// template under "shape" and optionally named virtual fields under
// "virtual":
//
//	type: shape
//	virtual:
//	  total: [directives...]
//	shape:
//	  id: /identifier/id
//	  name: [/name, "unnamed <% /id %>"]
//	  sum: $total
//	  self: "@"
//
// An object template is reshaped field by field. "@" is the input
// itself. A string is a path, strictly expanded against the input: a
// single match gives its value and several matches give an array of
// values. A [path, default] pair supplies the value used when nothing
// matches; string defaults may embed <% path %> tokens. When virtual
// fields are declared, a path starting with "$" names one of them.
func Shape() Op {
	return OpFunc(shape)
}

func shape(spec, in *ir.Node, ctx *Context) (*ir.Node, error) {
	var virtual map[string]*ir.Node
	if vSpec := ir.Get(spec, "virtual"); vSpec != nil && vSpec.Type == ir.ObjectType {
		var err error
		virtual, err = patchVirtual(in, vSpec, ctx)
		if err != nil {
			return nil, err
		}
	}
	return reshape(ir.Get(spec, "shape"), in, virtual), nil
}

// patchVirtual computes each virtual field by running its directives
// with in as source against an empty object, taking the value left
// under the field's own name.
func patchVirtual(in, vSpec *ir.Node, ctx *Context) (map[string]*ir.Node, error) {
	if ctx == nil || ctx.Patcher == nil {
		return nil, ErrNoPatcher
	}
	src := in
	if src == nil {
		src = ir.Null()
	}
	res := make(map[string]*ir.Node, len(vSpec.Fields))
	for i, f := range vSpec.Fields {
		id := f.String
		acc := ir.EmptyObject()
		if _, err := ctx.Patcher.PatchIR(acc, src, vSpec.Values[i]); err != nil {
			return nil, fmt.Errorf("virtual field %q: %w", id, err)
		}
		if v := ir.Get(acc, id); v != nil {
			res[id] = v
		}
	}
	return res, nil
}

func reshape(tmpl, in *ir.Node, virtual map[string]*ir.Node) *ir.Node {
	if tmpl == nil {
		return ir.Null()
	}
	switch tmpl.Type {
	case ir.ObjectType:
		kvs := make([]ir.KeyVal, len(tmpl.Fields))
		for i, f := range tmpl.Fields {
			kvs[i] = ir.KeyVal{Key: ir.FromString(f.String), Val: detach(reshape(tmpl.Values[i], in, virtual))}
		}
		return ir.FromKeyVals(kvs)
	case ir.StringType:
		if tmpl.String == identity {
			return in
		}
	}

	var path string
	def := ir.Null()
	if tmpl.Type == ir.ArrayType {
		if len(tmpl.Values) > 0 {
			path = tmpl.Values[0].Text()
		}
		if len(tmpl.Values) > 1 {
			def = eval.Replace(tmpl.Values[1], in)
		}
	} else {
		path = tmpl.Text()
	}
	path = strings.TrimSpace(path)

	if virtual != nil && strings.HasPrefix(path, virtualSigil) {
		if v, ok := virtual[path[len(virtualSigil):]]; ok {
			return v
		}
		return def
	}

	paths := spath.Expand(in, spath.Split(path), true)
	switch len(paths) {
	case 0:
		return def
	case 1:
		v, _ := ir.Lookup(in, paths[0])
		return v
	}
	vals := make([]*ir.Node, len(paths))
	for i, p := range paths {
		v, _ := ir.Lookup(in, p)
		vals[i] = detach(v)
	}
	return ir.FromSlice(vals)
}

// detach copies v so that placing it in a new container leaves the
// input's parent links intact.
func detach(v *ir.Node) *ir.Node {
	if v == nil {
		return ir.Null()
	}
	return v.Clone()
}
