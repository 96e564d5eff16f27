package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
)

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			if x == nil {
				args[i] = "<missing>"
				continue
			}
			buf := bytes.NewBuffer(nil)
			if err := encode.Encode(x, buf, encode.EncodeFormat(encode.JSONFormat), encode.EncodeCompact(true)); err != nil {
				args[i] = fmt.Sprintf("[raw *ir.Node] %v", x)
				continue
			}
			args[i] = buf.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
