package ops

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/ir"
)

var (
	ErrUnknownOperation = errors.New("operation is not registered")
	ErrNotRegistered    = errors.New("not registered")
)

// Registry maps lowercase operation names to implementations. Built-in
// operations are fixed at construction; user registrations live in a
// separate tier which is consulted first.
type Registry struct {
	mu    sync.RWMutex
	core  map[string]Op
	local map[string]Op
}

type RegistryOption func(*Registry)

// WithExtensions registers the jsonpatch and expr operations as user
// operations.
func WithExtensions() RegistryOption {
	return func(r *Registry) {
		r.local[jsonPatchName] = JSONPatch()
		r.local[exprName] = Expr()
	}
}

// NewRegistry returns a registry whose only built-in operation is
// shape.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		core:  map[string]Op{shapeName: Shape()},
		local: map[string]Op{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a user operation.
func (r *Registry) Register(name string, op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local[normalize(name)] = op
}

// Unregister removes a user operation. Built-in operations cannot be
// removed.
func (r *Registry) Unregister(name string) error {
	name = normalize(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, present := r.local[name]; !present {
		return fmt.Errorf("operation [%s] is %w", name, ErrNotRegistered)
	}
	delete(r.local, name)
	return nil
}

func (r *Registry) Lookup(name string) (Op, bool) {
	name = normalize(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if op, ok := r.local[name]; ok {
		return op, true
	}
	op, ok := r.core[name]
	return op, ok
}

func (r *Registry) Registered(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names lists all operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := maps.Clone(r.core)
	maps.Copy(all, r.local)
	return slices.Sorted(maps.Keys(all))
}

// Execute runs the operation named by spec's type on in.
func (r *Registry) Execute(spec, in *ir.Node, ctx *Context) (*ir.Node, error) {
	name := TypeOf(spec)
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("operator [%s]: %w", name, ErrUnknownOperation)
	}
	if ctx == nil {
		ctx = &Context{Registry: r}
	} else if ctx.Registry == nil {
		c := *ctx
		c.Registry = r
		ctx = &c
	}
	if debug.Op() {
		debug.Logf("op %s on %v\n", name, in)
	}
	return op.Apply(spec, in, ctx)
}
