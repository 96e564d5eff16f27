package ops

import (
	"fmt"

	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/parse"

	jsonpatch "github.com/evanphx/json-patch"
)

const jsonPatchName = "jsonpatch"

// JSONPatch returns an operation applying the RFC 6902 patch under the
// operation's "patch" field to the working value.
func JSONPatch() Op {
	return OpFunc(jsonPatch)
}

func jsonPatch(spec, in *ir.Node, _ *Context) (*ir.Node, error) {
	child := ir.Get(spec, "patch")
	if child == nil {
		return nil, fmt.Errorf("%s op requires a patch", jsonPatchName)
	}
	d, err := encode.JSON(child)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch([]byte(d))
	if err != nil {
		return nil, err
	}
	if in == nil {
		in = ir.Null()
	}
	if debug.Op() {
		debug.Logf("jsonpatch op called on %v\n", in)
	}
	doc, err := encode.JSON(in)
	if err != nil {
		return nil, err
	}
	jOut, err := ops.Apply([]byte(doc))
	if err != nil {
		return nil, err
	}
	return parse.Parse(jOut)
}
