package patchwork

import (
	"errors"
	"testing"

	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ops"
	"github.com/signadot/patchwork/parse"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func mustDirectives(t *testing.T, s string) []*Directive {
	t.Helper()
	ds, err := DirectivesFromIR(mustParse(t, s))
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func checkDoc(t *testing.T, got *ir.Node, want string) {
	t.Helper()
	w := mustParse(t, want)
	if ir.Equal(w, got) {
		return
	}
	gs, _ := encode.JSON(got)
	ws, _ := encode.JSON(w)
	t.Errorf("(-want +got):\n%s", cmp.Diff(ws, gs))
}

const fixture = `
foo:
  bar: 1
  baz: 2
  qix: [1, 2, 3]
`

func TestPatchIRNotAList(t *testing.T) {
	dirty, err := New().PatchIR(ir.EmptyObject(), ir.EmptyObject(), ir.FromString(""))
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Errorf("dirty with no directives")
	}
}

func TestPatch(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		source     string
		directives string
		want       string
		dirty      bool
		err        error
	}{
		{
			name:       "missing source",
			target:     "{}",
			source:     fixture,
			directives: `[{source: {path: /iDontExist}, target: {path: /bar}}]`,
			want:       "{}",
		},
		{
			name:       "copy",
			target:     "{}",
			source:     fixture,
			directives: `[{source: {path: /foo}, target: {path: /bar}}]`,
			want:       "bar: {bar: 1, baz: 2, qix: [1, 2, 3]}",
			dirty:      true,
		},
		{
			name:   "target test fails",
			target: "bar: true",
			source: fixture,
			directives: `
- source: {path: /foo}
  target:
    path: /bar
    tests: [{path: /bar, operator: "===", value: false}]
`,
			want: "bar: true",
		},
		{
			name:   "source test fails",
			target: "bar: true",
			source: fixture,
			directives: `
- source:
    path: /foo
    tests: [{path: /foo/qix/0, operator: "===", value: 4}]
  target: {path: /bar}
`,
			want: "bar: true",
		},
		{
			name:       "depth",
			target:     "{}",
			source:     fixture,
			directives: `[{depth: -2, source: {path: /foo/baz}, target: {path: /bar}}]`,
			want:       "bar: {foo: {baz: 2}}",
			dirty:      true,
		},
		{
			name:       "string depth",
			target:     "{}",
			source:     fixture,
			directives: `[{depth: "-1", source: {path: /foo/baz}, target: {path: /bar}}]`,
			want:       "bar: {baz: 2}",
			dirty:      true,
		},
		{
			name:       "merge into object",
			target:     "foo: {mergeTest: 0}",
			source:     fixture,
			directives: `[{merge: true, source: {path: /foo}, target: {path: /foo}}]`,
			want:       "foo: {mergeTest: 0, bar: 1, baz: 2, qix: [1, 2, 3]}",
			dirty:      true,
		},
		{
			name:       "merge over array",
			target:     "foo: [1, 2, 3, 4, 5, 6]",
			source:     "foo: [4, 5, 6]",
			directives: `[{merge: true, source: {path: /foo}, target: {path: /foo}}]`,
			want:       "foo: [4, 5, 6, 4, 5, 6]",
			dirty:      true,
		},
		{
			name:       "merge unique",
			target:     "foo: [1, 2, 3, 4, 5, 6]",
			source:     "foo: [4, 5, 6]",
			directives: `[{merge: true, unique: true, source: {path: /foo}, target: {path: /foo}}]`,
			want:       "foo: [4, 5, 6]",
			dirty:      true,
		},
		{
			name:       "merge scalar replaces",
			target:     "foo: {a: 1}",
			source:     "foo: 3",
			directives: `[{merge: true, source: {path: /foo}, target: {path: /foo}}]`,
			want:       "foo: 3",
			dirty:      true,
		},
		{
			name:       "collect wraps existing",
			target:     "foo: {collectTest: 0}",
			source:     fixture,
			directives: `[{collect: true, source: {path: /foo}, target: {path: /foo}}]`,
			want:       "foo: [{collectTest: 0}, {bar: 1, baz: 2, qix: [1, 2, 3]}]",
			dirty:      true,
		},
		{
			name:       "collect appends",
			target:     "foo: {collectTest: [0]}",
			source:     fixture,
			directives: `[{collect: true, source: {path: /foo}, target: {path: /foo/collectTest}}]`,
			want:       "foo: {collectTest: [0, {bar: 1, baz: 2, qix: [1, 2, 3]}]}",
			dirty:      true,
		},
		{
			name:       "collect into missing",
			target:     "foo: {}",
			source:     fixture,
			directives: `[{collect: true, source: {path: /foo}, target: {path: /foo/collectTest}}]`,
			want:       "foo: {collectTest: [{bar: 1, baz: 2, qix: [1, 2, 3]}]}",
			dirty:      true,
		},
		{
			name:       "collect array into missing",
			target:     "foo: {}",
			source:     fixture,
			directives: `[{collect: true, source: {path: /foo/qix}, target: {path: /foo/collectTest}}]`,
			want:       "foo: {collectTest: [1, 2, 3]}",
			dirty:      true,
		},
		{
			name:       "static source to static target",
			target:     "{}",
			source:     "foo: {bar: [1, 2, 3]}",
			directives: `[{source: {path: /foo/bar}, target: {path: /baz}}]`,
			want:       "baz: [1, 2, 3]",
			dirty:      true,
		},
		{
			name:       "static source to dynamic target",
			target:     "bar: [1, 2, 3]",
			source:     "foo: [1, 2, 3]",
			directives: `[{source: {path: /foo}, target: {path: /bar/@}}]`,
			want:       "bar: [[1, 2, 3], [1, 2, 3], [1, 2, 3]]",
			dirty:      true,
		},
		{
			name:       "branch copy",
			target:     "{}",
			source:     "foo: {bar: [{something: 1}], baz: [{something: 2}]}",
			directives: `[{depth: -2, source: {path: /foo/@/@}, target: {path: /here}}]`,
			want:       "here: {bar: [{something: 1}], baz: [{something: 2}]}",
			dirty:      true,
		},
		{
			name:       "later directives see earlier writes",
			target:     "{}",
			source:     "a: 1",
			directives: `[{source: {path: /a}, target: {path: /b}}, {targetAsSource: true, source: {path: /a}, target: {path: /b}, operations: [{type: shape, shape: {v: "@"}}]}]`,
			want:       "b: {v: 1}",
			dirty:      true,
		},
		{
			name:       "scalar below scalar target",
			target:     "x",
			source:     "a: 1",
			directives: `[{source: {path: /a}, target: {path: /b}}]`,
			want:       "x",
		},
		{
			name:       "non-index key into array",
			target:     "a: [1]",
			source:     "b: 2",
			directives: `[{source: {path: /b}, target: {path: /a/c/d}}]`,
			want:       "a: [1]",
			err:        ir.ErrBadIndex,
		},
		{
			name:       "index far past the end",
			target:     "list: []",
			source:     "x: 1",
			directives: `[{source: {path: /x}, target: {path: /list/20000000}}]`,
			want:       "list: []",
			err:        ir.ErrBadIndex,
		},
		{
			name:       "index far past the end below a new container",
			target:     "{}",
			source:     "x: 1",
			directives: `[{source: {path: /x}, target: {path: /a/4000000000/b}}]`,
			want:       "{}",
			err:        ir.ErrBadIndex,
		},
		{
			name:       "merge key far past the end",
			target:     "a: [1]",
			source:     `b: {"9999999": 2}`,
			directives: `[{merge: true, source: {path: /b}, target: {path: /a}}]`,
			want:       "a: [1]",
			err:        ir.ErrBadIndex,
		},
		{
			name:       "root record length far past its fields",
			target:     "length: 100000000",
			source:     "[a]",
			directives: `[{collect: true, source: {path: /}, target: {path: /}}]`,
			want:       "length: 100000000",
			err:        ir.ErrBadIndex,
		},
		{
			name:       "index just past the end pads",
			target:     "list: [0]",
			source:     "x: 1",
			directives: `[{source: {path: /x}, target: {path: /list/3}}]`,
			want:       "list: [0, null, null, 1]",
			dirty:      true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := mustParse(t, tc.target)
			dirty, err := Patch(target, mustParse(t, tc.source), mustDirectives(t, tc.directives))
			if !errors.Is(err, tc.err) {
				t.Fatalf("got error %v, want %v", err, tc.err)
			}
			if dirty != tc.dirty {
				t.Errorf("dirty: got %t, want %t", dirty, tc.dirty)
			}
			checkDoc(t, target, tc.want)
		})
	}
}

func TestPatchRoot(t *testing.T) {
	foos := "foo: [{bar: 1}, {bar: 2}]"
	tests := []struct {
		name       string
		target     string
		source     string
		directives string
		want       string
	}{
		{
			name:       "scalar target",
			target:     "foo",
			source:     foos,
			directives: `[{collect: true, source: {path: /foo/@}, target: {path: /}}]`,
			want:       "foo",
		},
		{
			name:       "array collect",
			target:     "[]",
			source:     foos,
			directives: `[{collect: true, source: {path: /foo/@}, target: {path: /}}]`,
			want:       "[{bar: 1}, {bar: 2}]",
		},
		{
			name:       "zero length record collect",
			target:     "length: 0",
			source:     "[a, b]",
			directives: `[{collect: true, source: {path: /}, target: {path: /}}]`,
			want:       `{"0": a, "1": b, length: 2}`,
		},
		{
			name:       "object collect",
			target:     "{}",
			source:     foos,
			directives: `[{collect: true, source: {path: /foo/@}, target: {path: /}}]`,
			want:       `{"0": {bar: 1}, "1": {bar: 2}, length: 2}`,
		},
		{
			name:       "merge keeps target keys",
			target:     "iShouldGetDeleted: false",
			source:     foos,
			directives: `[{merge: true, source: {path: /foo/1}, target: {path: /}}]`,
			want:       "{bar: 2, iShouldGetDeleted: false}",
		},
		{
			name:       "replace clears target keys",
			target:     "iShouldGetDeleted: true",
			source:     foos,
			directives: `[{source: {path: /foo/1}, target: {path: /}}]`,
			want:       "bar: 2",
		},
		{
			name:       "scalar source into object collect",
			target:     "{}",
			source:     "foo",
			directives: `[{collect: true, source: {path: /}, target: {path: /}}]`,
			want:       `{"0": foo, length: 1}`,
		},
		{
			name:       "string source into object",
			target:     "{}",
			source:     "foo",
			directives: `[{source: {path: /}, target: {path: /}}]`,
			want:       `{"0": f, "1": o, "2": o}`,
		},
		{
			name:       "scalar source into array collect",
			target:     "[]",
			source:     "foo",
			directives: `[{collect: true, source: {path: /}, target: {path: /}}]`,
			want:       "[foo]",
		},
		{
			name:       "scalar source into array",
			target:     "[]",
			source:     "foo",
			directives: `[{source: {path: /}, target: {path: /}}]`,
			want:       "[foo]",
		},
		{
			name:       "root array source collect",
			target:     foos,
			source:     "[foo]",
			directives: `[{collect: true, source: {path: /}, target: {path: /foo/@}}]`,
			want:       "foo: [[{bar: 1}, foo], [{bar: 2}, foo]]",
		},
		{
			name:       "root array source",
			target:     foos,
			source:     "[foo]",
			directives: `[{source: {path: /}, target: {path: /foo/@}}]`,
			want:       "foo: [[foo], [foo]]",
		},
		{
			name:       "object replace",
			target:     "{bar: 2, baz: 3}",
			source:     "foo: 1",
			directives: `[{source: {path: /}, target: {path: /}}]`,
			want:       "foo: 1",
		},
		{
			name:       "object collect of object",
			target:     "{bar: 2, baz: 3}",
			source:     "foo: 1",
			directives: `[{collect: true, source: {path: /}, target: {path: /}}]`,
			want:       `{"0": {foo: 1}, length: 1}`,
		},
		{
			name:       "object merge",
			target:     "{bar: 2, baz: 3}",
			source:     "foo: 1",
			directives: `[{merge: true, source: {path: /}, target: {path: /}}]`,
			want:       "{bar: 2, baz: 3, foo: 1}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := mustParse(t, tc.target)
			if _, err := Patch(target, mustParse(t, tc.source), mustDirectives(t, tc.directives)); err != nil {
				t.Fatal(err)
			}
			checkDoc(t, target, tc.want)
		})
	}
}

func TestPatchWritesCopies(t *testing.T) {
	source := mustParse(t, "a: {x: [1]}")
	target := ir.EmptyObject()
	ds := mustDirectives(t, `[{source: {path: /a}, target: {path: /b}}, {source: {path: /a}, target: {path: /c}}]`)
	if _, err := Patch(target, source, ds); err != nil {
		t.Fatal(err)
	}
	ir.Get(ir.Get(target, "b"), "x").Append(ir.FromInt(2))
	checkDoc(t, source, "a: {x: [1]}")
	checkDoc(t, target, "{b: {x: [1, 2]}, c: {x: [1]}}")
	if got := ir.Get(target, "b").Parent; got != target {
		t.Errorf("written value not parented to target")
	}
}

const stuff = `
stuff:
  - identifier: {id: 1}
    foo: hi
    bar: bye
  - identifier: {id: 2}
    foo: bye
    bar: hi
`

const things = `
things:
  - about: {more: [1]}
  - about: {more: [3, 2, 1]}
  - about: {more: [2]}
`

func TestPatchDynamicToDynamic(t *testing.T) {
	target := mustParse(t, things)
	ds := mustDirectives(t, `
- collect: true
  target: {path: /things/@/about/here}
  source:
    path: /stuff/@
    tests:
      - path: /stuff/@/identifier/id
        operator: (==)
        value: /things/@/about/more/@
  operations:
    - type: shape
      shape:
        id: /identifier/id
        foo: /foo
`)
	dirty, err := Patch(target, mustParse(t, stuff), ds)
	if err != nil {
		t.Fatal(err)
	}
	if !dirty {
		t.Errorf("not dirty")
	}
	checkDoc(t, target, `
things:
  - about: {more: [1], here: [{id: 1, foo: hi}]}
  - about: {more: [3, 2, 1], here: [{id: 1, foo: hi}, {id: 2, foo: bye}]}
  - about: {more: [2], here: [{id: 2, foo: bye}]}
`)
}

func TestPatchCollectUniqueShape(t *testing.T) {
	source := mustParse(t, `
things:
  - {type: foo, about: {more: [1, 2, 3, 4]}}
  - {type: bar, about: {more: [5, 6, 7, 8]}}
  - {type: foo, about: {more: [9, 10, 11, 4]}}
`)
	target := ir.EmptyObject()
	ds := mustDirectives(t, `
- collect: true
  unique: true
  target: {path: /here}
  source:
    path: /things/@/about/more/@
    tests: [{path: /things/@/type, operator: "==", value: foo}]
  operations: [{type: shape, shape: {id: "@"}}]
`)
	if _, err := Patch(target, source, ds); err != nil {
		t.Fatal(err)
	}
	checkDoc(t, target, "here: [{id: 1}, {id: 2}, {id: 3}, {id: 4}, {id: 9}, {id: 10}, {id: 11}]")
}

func TestPatchTargetAsSource(t *testing.T) {
	target := mustParse(t, "items: [{n: a}, {n: b}]")
	source := mustParse(t, "x: [1, 2, 3]")
	ds := mustDirectives(t, `
- targetAsSource: true
  source: {path: /x/@}
  target: {path: /items/@}
  operations: [{type: shape, shape: {name: /n, kind: [/kind, "item-<% /n %>"]}}]
`)
	log := &Log{}
	if _, err := Patch(target, source, ds, PatchLog(log)); err != nil {
		t.Fatal(err)
	}
	checkDoc(t, target, "items: [{name: a, kind: item-a}, {name: b, kind: item-b}]")
	// one source iteration against both targets
	if log.Len() != 2 {
		t.Fatalf("got %d log entries, want 2", log.Len())
	}
	for _, e := range log.Entries() {
		if diff := cmp.Diff([]string{"x", "0"}, []string(e.From)); diff != "" {
			t.Errorf("from (-want +got):\n%s", diff)
		}
	}
}

func TestPatchVirtual(t *testing.T) {
	source := mustParse(t, "people: [{name: ann, tags: [a, b]}, {name: bo, tags: [b, c]}]")
	target := ir.EmptyObject()
	ds := mustDirectives(t, `
- source: {path: /}
  target: {path: /summary}
  operations:
    - type: shape
      virtual:
        tags:
          - collect: true
            unique: true
            source: {path: /people/@/tags}
            target: {path: /tags}
      shape:
        names: /people/@/name
        tags: $tags
        missing: [$nope, none]
`)
	if _, err := Patch(target, source, ds); err != nil {
		t.Fatal(err)
	}
	checkDoc(t, target, "summary: {names: [ann, bo], tags: [a, b, c], missing: none}")
}

func TestPatchLog(t *testing.T) {
	log := &Log{}
	target := ir.EmptyObject()
	ds := mustDirectives(t, `
- source: {path: /foo}
  target: {path: /bar}
- collect: true
  source: {path: /foo/qix/@}
  target:
    path: /baz
    tests: [{path: /baz, operator: "==", value: 1}]
`)
	if _, err := Patch(target, mustParse(t, fixture), ds, PatchLog(log)); err != nil {
		t.Fatal(err)
	}
	if log.Len() != 1 {
		t.Fatalf("got %d entries, want 1", log.Len())
	}
	e := log.Entries()[0]
	if diff := cmp.Diff([]string{"bar"}, []string(e.To)); diff != "" {
		t.Errorf("to (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"foo"}, []string(e.From)); diff != "" {
		t.Errorf("from (-want +got):\n%s", diff)
	}
	if e.Directive != ds[0] {
		t.Errorf("wrong directive")
	}
	// the logged value is not the written node
	if e.Value == ir.Get(target, "bar") {
		t.Errorf("log aliases the target")
	}
	checkDoc(t, e.Value, "{bar: 1, baz: 2, qix: [1, 2, 3]}")
}

func TestPatchLogPreCollect(t *testing.T) {
	log := &Log{}
	target := mustParse(t, "a: [0]")
	ds := mustDirectives(t, `[{collect: true, source: {path: /x}, target: {path: /a}}]`)
	if _, err := Patch(target, mustParse(t, "x: 1"), ds, PatchLog(log)); err != nil {
		t.Fatal(err)
	}
	checkDoc(t, target, "a: [0, 1]")
	checkDoc(t, log.Entries()[0].Value, "1")
}

func TestPatchOperations(t *testing.T) {
	called := 0
	r := ops.NewRegistry()
	r.Register("fooBar", ops.OpFunc(func(spec, in *ir.Node, ctx *ops.Context) (*ir.Node, error) {
		called++
		if ctx.Value != "ctx" {
			t.Errorf("context value: got %v", ctx.Value)
		}
		return mustParse(t, "foo: bar"), nil
	}))
	p := New(WithRegistry(r))
	target := ir.EmptyObject()
	ds := mustDirectives(t, `[{source: {path: /foo}, target: {path: /foo}, operations: [{type: fooBar}]}]`)
	if _, err := p.Patch(target, mustParse(t, fixture), ds, PatchContext("ctx")); err != nil {
		t.Fatal(err)
	}
	if called != 1 {
		t.Errorf("called %d times", called)
	}
	checkDoc(t, target, "foo: {foo: bar}")
}

func TestPatchOperationError(t *testing.T) {
	target := mustParse(t, "keep: 1")
	ds := mustDirectives(t, `
- source: {path: /a}
  target: {path: /b}
- source: {path: /a}
  target: {path: /c}
  operations: [{type: nope}]
`)
	dirty, err := Patch(target, mustParse(t, "a: 1"), ds)
	if !errors.Is(err, ops.ErrUnknownOperation) {
		t.Fatalf("got %v, want ErrUnknownOperation", err)
	}
	if !dirty {
		t.Errorf("earlier write not reported")
	}
	checkDoc(t, target, "{keep: 1, b: 1}")
}

func TestPatchExtensions(t *testing.T) {
	p := New(WithRegistry(ops.NewRegistry(ops.WithExtensions())))
	target := ir.EmptyObject()
	ds := mustDirectives(t, `
- source: {path: /a}
  target: {path: /b}
  operations:
    - type: jsonpatch
      patch: [{op: add, path: /y, value: 2}]
    - type: expr
      expr: value.x + value.y
`)
	if _, err := p.Patch(target, mustParse(t, "a: {x: 1}"), ds); err != nil {
		t.Fatal(err)
	}
	checkDoc(t, target, "b: 3")
}

func TestPatchInvalidOperator(t *testing.T) {
	ds := mustDirectives(t, `[{source: {path: /a, tests: [{path: /a, operator: "<>", value: 1}]}, target: {path: /b}}]`)
	_, err := Patch(ir.EmptyObject(), mustParse(t, "a: 1"), ds)
	if err == nil {
		t.Fatal("expected an error")
	}
}
