package eval

import (
	"fmt"

	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Env map[string]any

// Eval compiles and runs an expr-lang expression against env and
// converts the result to a document. Besides the environment, the
// expression may call getpath(value, path) to read a path from a
// document valued variable.
func Eval(input string, env Env) (*ir.Node, error) {
	program, err := expr.Compile(input, expr.Env(map[string]any(env)), exprFuncs())
	if err != nil {
		return nil, fmt.Errorf("error compiling %q: %w", input, err)
	}
	val, err := vm.Run(program, map[string]any(env))
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", input, err)
	}
	if debug.Eval() {
		debug.Logf("eval %q gave %#v\n", input, val)
	}
	res, err := ir.FromAny(val)
	if err != nil {
		return nil, fmt.Errorf("could not translate evaluation result: %w", err)
	}
	return res, nil
}

func exprFuncs() expr.Option {
	return expr.Function("getpath", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("getpath: want 2 args, got %d", len(params))
		}
		doc, err := ir.FromAny(params[0])
		if err != nil {
			return nil, err
		}
		p, ok := params[1].(string)
		if !ok {
			return nil, fmt.Errorf("getpath: path must be a string, got %T", params[1])
		}
		node, ok := ir.Lookup(doc, spath.Split(p))
		if !ok {
			return nil, nil
		}
		return ir.ToAny(node), nil
	})
}
