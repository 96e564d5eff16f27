package patchwork

import (
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/patchwork/cond"
	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
	"github.com/signadot/patchwork/ops"
)

// Patcher runs directive lists against documents using its operation
// registry.
type Patcher struct {
	registry *ops.Registry
}

type Option func(*Patcher)

func WithRegistry(r *ops.Registry) Option {
	return func(p *Patcher) { p.registry = r }
}

// New returns a Patcher. Without WithRegistry it gets a fresh registry
// holding only the built-in operations.
func New(opts ...Option) *Patcher {
	p := &Patcher{}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = ops.NewRegistry()
	}
	return p
}

func (p *Patcher) Registry() *ops.Registry {
	return p.registry
}

type PatchConfig struct {
	Log     *Log
	Context any
}

type PatchOpt func(*PatchConfig)

// PatchLog records every write to l.
func PatchLog(l *Log) PatchOpt {
	return func(c *PatchConfig) { c.Log = l }
}

// PatchContext passes v to operations as ops.Context.Value.
func PatchContext(v any) PatchOpt {
	return func(c *PatchConfig) { c.Context = v }
}

// Patch runs directives with a new default Patcher.
func Patch(target, source *ir.Node, directives []*Directive, opts ...PatchOpt) (bool, error) {
	return New().Patch(target, source, directives, opts...)
}

// PatchIR decodes and runs a directive list given as a document. A
// directives node which is not an array is a no-op.
func (p *Patcher) PatchIR(target, source, directives *ir.Node) (bool, error) {
	return p.PatchIRWith(target, source, directives)
}

func (p *Patcher) PatchIRWith(target, source, directives *ir.Node, opts ...PatchOpt) (bool, error) {
	if directives == nil || directives.Type != ir.ArrayType {
		return false, nil
	}
	ds, err := DirectivesFromIR(directives)
	if err != nil {
		return false, err
	}
	return p.Patch(target, source, ds, opts...)
}

// Patch applies directives in order, mutating target in place, and
// reports whether anything was written. Later directives see the writes
// of earlier ones. On error, writes already made are kept.
func (p *Patcher) Patch(target, source *ir.Node, directives []*Directive, opts ...PatchOpt) (bool, error) {
	cfg := &PatchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ctx := &ops.Context{Patcher: p, Registry: p.registry, Value: cfg.Context}
	dirty := false
	for i, d := range directives {
		wrote, err := p.apply(target, source, d, cfg, ctx)
		dirty = dirty || wrote
		if err != nil {
			return dirty, fmt.Errorf("directive %d: %w", i, err)
		}
	}
	return dirty, nil
}

func (p *Patcher) apply(target, source *ir.Node, d *Directive, cfg *PatchConfig, ctx *ops.Context) (bool, error) {
	sourcePaths := spath.Expand(source, d.Source.Path, true)
	targetPaths := spath.Expand(target, d.Target.Path, false)
	if d.TargetAsSource {
		// the value comes from the target, so one pass suffices
		var first spath.Path
		if len(sourcePaths) > 0 {
			first = sourcePaths[0]
		}
		sourcePaths = []spath.Path{first}
	}
	if debug.Patch() {
		debug.Logf("directive %s -> %s: %d source and %d target paths\n",
			d.Source.Path, d.Target.Path, len(sourcePaths), len(targetPaths))
	}
	dirty := false
	for _, sp := range sourcePaths {
		sv, _ := ir.Lookup(source, sp)
		for _, tp := range targetPaths {
			if d.Depth < 0 {
				n := min(-d.Depth, len(sp))
				tp = tp.Append(sp[len(sp)-n:]...)
			}
			wrote, err := p.pair(target, source, d, sp, sv, tp, cfg, ctx)
			if err != nil {
				return dirty, err
			}
			dirty = dirty || wrote
		}
	}
	return dirty, nil
}

// pair handles one source path and target path.
func (p *Patcher) pair(target, source *ir.Node, d *Directive, sp spath.Path, sv *ir.Node, tp spath.Path, cfg *PatchConfig, ctx *ops.Context) (bool, error) {
	if len(tp) != 0 && !target.IsContainer() {
		// nothing below a scalar can be written
		return false, nil
	}
	if len(d.Target.Tests) != 0 {
		ok, err := cond.Test(d.Target.Tests, target, source, tp, sp, d.Target.Path, d.Source.Path)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(d.Source.Tests) != 0 {
		ok, err := cond.Test(d.Source.Tests, source, target, sp, tp, d.Source.Path, d.Target.Path)
		if err != nil || !ok {
			return false, err
		}
	}

	tv, _ := ir.Lookup(target, tp)
	v := sv
	if d.TargetAsSource {
		v = tv
	}
	var err error
	for _, spec := range d.Operations {
		v, err = p.registry.Execute(spec, v, ctx)
		if err != nil {
			return false, err
		}
	}
	clean := v
	if v == nil {
		v = ir.Null()
	}

	if d.Merge && v.IsContainer() && tv.IsContainer() {
		if v, err = merge(tv, v); err != nil {
			return false, err
		}
	}
	isRoot := len(tp) == 0
	if d.Collect {
		if v, err = collect(tv, v, isRoot); err != nil {
			return false, err
		}
	}
	if d.Unique && v.Type == ir.ArrayType && len(v.Values) > 1 {
		v = unique(v)
	}

	if debug.Patch() {
		debug.Logf("write %s from %s: %v\n", tp, sp, v)
	}
	if err := write(target, tp, v); err != nil {
		return false, fmt.Errorf("writing %s: %w", tp, err)
	}
	if cfg.Log != nil {
		var logged *ir.Node
		if clean != nil {
			logged = clean.Clone()
		}
		cfg.Log.Append(LogEntry{To: tp, From: sp, Value: logged, Directive: d})
	}
	return true, nil
}

// merge overlays the entries of v onto a copy of tv. Keys of an object
// overlaid onto an array must be indices; others are dropped.
func merge(tv, v *ir.Node) (*ir.Node, error) {
	res := tv.Clone()
	res.Parent = nil
	switch {
	case res.Type == ir.ObjectType && v.Type == ir.ObjectType:
		for i, f := range v.Fields {
			res.Put(f.String, v.Values[i].Clone())
		}
	case res.Type == ir.ObjectType && v.Type == ir.ArrayType:
		for i, e := range v.Values {
			res.Put(strconv.Itoa(i), e.Clone())
		}
	case res.Type == ir.ArrayType && v.Type == ir.ArrayType:
		for i, e := range v.Values {
			res.SetIndex(i, e.Clone())
		}
	case res.Type == ir.ArrayType && v.Type == ir.ObjectType:
		for i, f := range v.Fields {
			idx, err := strconv.Atoi(f.String)
			if err != nil || !ir.IsIndex(f.String) {
				continue
			}
			if !res.CanSetIndex(idx) {
				return nil, fmt.Errorf("%w: merging key %s into %d elements", ir.ErrBadIndex, f.String, len(res.Values))
			}
			res.SetIndex(idx, v.Values[i].Clone())
		}
	}
	return res, nil
}

// collect adds v to the existing target value tv. Array values are
// spread. At the root, an object target grows as an indexed record with
// a length field rather than becoming an array.
func collect(tv, v *ir.Node, isRoot bool) (*ir.Node, error) {
	if tv == nil {
		if v.Type == ir.ArrayType {
			return v, nil
		}
		return ir.FromSlice([]*ir.Node{v.Clone()}), nil
	}
	if isRoot && tv.Type == ir.ObjectType {
		var items []*ir.Node
		if n, ok := arrayLikeLen(tv); ok {
			if n-len(tv.Fields) > ir.MaxIndexGap {
				return nil, fmt.Errorf("%w: record length %d with %d fields", ir.ErrBadIndex, n, len(tv.Fields))
			}
			items = make([]*ir.Node, 0, n+1)
			for i := range n {
				e := ir.Get(tv, strconv.Itoa(i))
				if e == nil {
					e = ir.Null()
				}
				items = append(items, e.Clone())
			}
			items = appendSpread(items, v)
		} else {
			items = []*ir.Node{v.Clone()}
		}
		kvs := make([]ir.KeyVal, 0, len(items)+1)
		for i, e := range items {
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(strconv.Itoa(i)), Val: e})
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString("length"), Val: ir.FromInt(int64(len(items)))})
		return ir.FromKeyVals(kvs), nil
	}
	var items []*ir.Node
	if tv.Type == ir.ArrayType {
		for _, e := range tv.Values {
			items = append(items, e.Clone())
		}
	} else {
		items = []*ir.Node{tv.Clone()}
	}
	return ir.FromSlice(appendSpread(items, v)), nil
}

// arrayLikeLen reads a non-negative integral length field.
func arrayLikeLen(obj *ir.Node) (int, bool) {
	l := ir.Get(obj, "length")
	f, ok := l.Float()
	if !ok || f < 0 || f > 1<<53-1 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func appendSpread(items []*ir.Node, v *ir.Node) []*ir.Node {
	if v.Type == ir.ArrayType {
		for _, e := range v.Values {
			items = append(items, e.Clone())
		}
		return items
	}
	return append(items, v.Clone())
}

// unique drops elements structurally equal to an earlier one.
func unique(arr *ir.Node) *ir.Node {
	buckets := map[uint64][]*ir.Node{}
	res := make([]*ir.Node, 0, len(arr.Values))
outer:
	for _, e := range arr.Values {
		h := e.Hash()
		for _, seen := range buckets[h] {
			if ir.Equal(seen, e) {
				continue outer
			}
		}
		buckets[h] = append(buckets[h], e)
		res = append(res, e.Clone())
	}
	return ir.FromSlice(res)
}

// write stores v at tp. At the root the target's contents are replaced
// in place: an array takes v's elements, or v itself when v is not an
// array; an object is emptied and takes v's entries, its indices, or
// one entry per character of a string. A scalar root cannot change.
func write(target *ir.Node, tp spath.Path, v *ir.Node) error {
	if len(tp) != 0 {
		return ir.Assign(target, tp, v.Clone())
	}
	if target == nil {
		return nil
	}
	switch target.Type {
	case ir.ArrayType:
		items := appendSpread(nil, v)
		target.Values = nil
		target.Append(items...)
	case ir.ObjectType:
		src := v.Clone()
		target.Fields = nil
		target.Values = nil
		switch src.Type {
		case ir.ObjectType:
			for i, f := range src.Fields {
				target.Put(f.String, src.Values[i])
			}
		case ir.ArrayType:
			for i, e := range src.Values {
				target.Put(strconv.Itoa(i), e)
			}
		case ir.StringType:
			for i, r := range []rune(src.String) {
				target.Put(strconv.Itoa(i), ir.FromString(string(r)))
			}
		}
	}
	return nil
}
