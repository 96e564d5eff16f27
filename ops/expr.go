package ops

import (
	"fmt"

	"github.com/signadot/patchwork/eval"
	"github.com/signadot/patchwork/ir"
)

const exprName = "expr"

// Expr returns an operation evaluating the expr-lang expression under
// the operation's "expr" field. The expression sees the working value as
// value and the caller's context value as context.
func Expr() Op {
	return OpFunc(exprOp)
}

func exprOp(spec, in *ir.Node, ctx *Context) (*ir.Node, error) {
	src := ir.Get(spec, "expr")
	if src == nil || src.Type != ir.StringType {
		return nil, fmt.Errorf("%s op requires an expr string", exprName)
	}
	env := eval.Env{
		"value":   ir.ToAny(in),
		"context": nil,
	}
	if ctx != nil {
		env["context"] = ctx.Value
	}
	return eval.Eval(src.String, env)
}
