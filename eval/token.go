package eval

import (
	"strings"

	"github.com/signadot/patchwork/debug"
	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
)

const (
	tokenOpen  = "<%"
	tokenClose = "%>"
)

// Replace expands tokens in a string template against source. Other
// templates are returned unchanged.
func Replace(template, source *ir.Node) *ir.Node {
	if template == nil || template.Type != ir.StringType {
		return template
	}
	res := ReplaceString(template.String, source)
	if res == template.String {
		return template
	}
	return ir.FromString(res)
}

// ReplaceString substitutes each <% path %> in v with the text of the
// value at path in source, or "" when there is none. A token body may
// not contain '%' or '>'; text that does not form a token is kept
// as is.
func ReplaceString(v string, source *ir.Node) string {
	if !strings.Contains(v, tokenOpen) || !strings.Contains(v, tokenClose) {
		return v
	}
	var outBuf []byte
	i, n := 0, len(v)
	for i < n {
		if !strings.HasPrefix(v[i:], tokenOpen) {
			outBuf = append(outBuf, v[i])
			i++
			continue
		}
		j := i + len(tokenOpen)
		for j < n && v[j] != '%' && v[j] != '>' {
			j++
		}
		if !strings.HasPrefix(v[j:], tokenClose) {
			outBuf = append(outBuf, v[i])
			i++
			continue
		}
		key := strings.TrimSpace(v[i+len(tokenOpen) : j])
		repl := lookupText(source, spath.Split(key))
		if debug.Eval() {
			debug.Logf("token %q gave %q\n", key, repl)
		}
		outBuf = append(outBuf, repl...)
		i = j + len(tokenClose)
	}
	return string(outBuf)
}

func lookupText(source *ir.Node, p spath.Path) string {
	node, ok := ir.Lookup(source, p)
	if !ok {
		return ""
	}
	if node.IsContainer() {
		s, err := encode.JSON(node)
		if err != nil {
			return ""
		}
		return s
	}
	return node.Text()
}
