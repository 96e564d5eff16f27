package ops

import (
	"strings"

	"github.com/signadot/patchwork/ir"
)

// Op is an executable transform step. spec is the operation object
// that named it, in is the working value, which may be nil when the
// source location is missing.
type Op interface {
	Apply(spec, in *ir.Node, ctx *Context) (*ir.Node, error)
}

type OpFunc func(spec, in *ir.Node, ctx *Context) (*ir.Node, error)

func (f OpFunc) Apply(spec, in *ir.Node, ctx *Context) (*ir.Node, error) {
	return f(spec, in, ctx)
}

// Patcher runs a directive list. Operations which need nested patching
// reach the engine through it.
type Patcher interface {
	PatchIR(target, source, directives *ir.Node) (bool, error)
}

// Context is passed to every operation of a patch call.
type Context struct {
	Patcher  Patcher
	Registry *Registry
	// Value is caller supplied and opaque to the engine.
	Value any
}

// TypeOf returns the normalized operation name of spec.
func TypeOf(spec *ir.Node) string {
	if spec == nil {
		return ""
	}
	t := ir.Get(spec, "type")
	if t == nil {
		return ""
	}
	return normalize(t.Text())
}

func normalize(name string) string {
	return strings.ToLower(name)
}
