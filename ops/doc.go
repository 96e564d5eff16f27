// Package ops provides the operation pipeline: a registry of named
// transforms and the built-in shape operation.
//
// # Registry
//
// A Registry has two tiers. The built-in tier holds shape and cannot
// change. The user tier is filled with Register and emptied with
// Unregister; lookups consult it first, so a user operation may shadow
// a built-in one under the same name. Names are case-insensitive.
//
//	r := ops.NewRegistry()
//	r.Register("upper", ops.OpFunc(func(spec, in *ir.Node, ctx *ops.Context) (*ir.Node, error) {
//	    return ir.FromString(strings.ToUpper(in.Text())), nil
//	}))
//	out, err := r.Execute(spec, value, &ops.Context{})
//
// # Extensions
//
// JSONPatch and Expr are not registered by default; WithExtensions adds
// both to the user tier.
//
// # Context
//
// Operations receive a Context carrying the Patcher of the running
// patch call. shape uses it to compute virtual fields, which are
// themselves directive lists.
package ops
