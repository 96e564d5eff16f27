// Package debug holds environment controlled debug switches.
//
// Each switch is read once at startup from a PW_DEBUG_* variable
// parsed with strconv.ParseBool.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Expand bool
	Test   bool
	Patch  bool
	Op     bool
	Eval   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Expand = boolEnv("PW_DEBUG_EXPAND")
	d.Test = boolEnv("PW_DEBUG_TEST")
	d.Patch = boolEnv("PW_DEBUG_PATCH")
	d.Op = boolEnv("PW_DEBUG_OP")
	d.Eval = boolEnv("PW_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Expand() bool {
	return d.Expand
}
func Test() bool {
	return d.Test
}
func Patch() bool {
	return d.Patch
}
func Op() bool {
	return d.Op
}
func Eval() bool {
	return d.Eval
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
