// Package parse decodes YAML and JSON documents into *ir.Node trees,
// keeping object keys in document order.
package parse

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signadot/patchwork/ir"

	"github.com/goccy/go-yaml"
)

// Parse decodes a single YAML or JSON document. An empty document
// decodes to null.
func Parse(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return FromYAML(v)
}

// Read parses all of r.
func Read(r io.Reader) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d)
}

// File parses the named file; "-" reads standard input.
func File(path string) (*ir.Node, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	node, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// FromYAML converts values decoded with yaml.UseOrderedMap into a node
// tree.
func FromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		seen := make(map[string]int, len(x))
		for _, item := range x {
			val, err := FromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			key := keyString(item.Key)
			if i, ok := seen[key]; ok {
				kvs[i].Val = val
				continue
			}
			seen[key] = len(kvs)
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
		}
		return ir.FromKeyVals(kvs), nil
	case []any:
		res := make([]*ir.Node, len(x))
		for i := range x {
			n, err := FromYAML(x[i])
			if err != nil {
				return nil, err
			}
			res[i] = n
		}
		return ir.FromSlice(res), nil
	case time.Time:
		return ir.FromString(x.Format(time.RFC3339Nano)), nil
	}
	n, err := ir.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return n, nil
}

func keyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	}
	if n, err := ir.FromAny(k); err == nil && n.Type.IsLeaf() {
		return n.Text()
	}
	return fmt.Sprint(k)
}
