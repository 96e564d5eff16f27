package patchwork

import (
	"errors"
	"testing"

	"github.com/signadot/patchwork/cond"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDirectiveFromIR(t *testing.T) {
	d, err := DirectiveFromIR(mustParse(t, `
source:
  path: [foo, "a/b"]
  tests:
    - {path: /x, operator: "==", value: 1}
    - [{path: /y, operator: "!=", value: 2}, {path: /z, operator: "(===)", value: /w}]
target: {path: /bar/@}
merge: 1
collect: ""
unique: yes
targetAsSource: true
depth: "-3px"
operations: [{type: shape, shape: "@"}]
`))
	if err != nil {
		t.Fatal(err)
	}
	want := &Directive{
		Source: Endpoint{
			Path: spath.Path{"foo", "a/b"},
			Tests: cond.Tests{
				{{Path: spath.Path{"x"}, Operator: "==", Value: ir.FromInt(1)}},
				{
					{Path: spath.Path{"y"}, Operator: "!=", Value: ir.FromInt(2)},
					{Path: spath.Path{"z"}, Operator: "(===)", Value: ir.FromString("/w")},
				},
			},
		},
		Target:         Endpoint{Path: spath.Path{"bar", "@"}},
		Merge:          true,
		Unique:         true,
		TargetAsSource: true,
		Depth:          -3,
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(Directive{}, "Operations"),
		cmp.Comparer(ir.Equal),
	}
	if diff := cmp.Diff(want, d, opts); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(d.Operations) != 1 {
		t.Errorf("got %d operations", len(d.Operations))
	}
}

func TestDirectiveFromIRSingleCondition(t *testing.T) {
	d, err := DirectiveFromIR(mustParse(t, `{source: {path: /, tests: {path: /a, operator: "~", value: "^x"}}, target: {path: "/"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Source.Tests) != 1 || len(d.Source.Tests[0]) != 1 {
		t.Fatalf("got %v", d.Source.Tests)
	}
	if !d.Source.Path.IsRoot() || !d.Target.Path.IsRoot() {
		t.Errorf("root paths not decoded as root")
	}
}

func TestDirectivesFromIRErrors(t *testing.T) {
	tests := []string{
		`{source: {path: /a}}`,
		`[1]`,
		`[{source: 1}]`,
		`[{source: {path: 1.5e0}}]`,
		`[{source: {path: [[a]]}}]`,
		`[{source: {tests: [1]}}]`,
	}
	for _, in := range tests {
		if _, err := DirectivesFromIR(mustParse(t, in)); !errors.Is(err, ErrBadDirective) {
			t.Errorf("%s: got %v, want ErrBadDirective", in, err)
		}
	}
}
