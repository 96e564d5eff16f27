package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/patchwork/ir"

	"github.com/goccy/go-yaml"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	compact       bool
	format        Format
	colors        *Colors
}

// Encode writes node to w followed by a newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsJSON() {
		if err := encodeJSON(node, w, es); err != nil {
			return err
		}
		return writeString(w, "\n")
	}
	return encodeYAML(node, w, es)
}

// JSON returns the compact JSON text of node without a trailing newline.
func JSON(node *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	es := &EncState{format: JSONFormat, compact: true}
	if err := encodeJSON(node, buf, es); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeYAML(node *ir.Node, w io.Writer, es *EncState) error {
	buf := bytes.NewBuffer(nil)
	enc := yaml.NewEncoder(buf, yaml.Indent(es.indent), yaml.IndentSequence(true))
	if err := enc.Encode(toYAML(node)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if es.colors != nil {
		return writeString(w, es.colors.yaml(buf.String()))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// toYAML converts node to values the yaml encoder writes in document
// order.
func toYAML(node *ir.Node) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f.String, Value: toYAML(node.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAML(v)
		}
		return res
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		if f, ok := node.Float(); ok {
			return f
		}
		return node.Number
	default:
		return ir.ToAny(node)
	}
}

func encodeJSON(node *ir.Node, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			return writeString(w, es.color(ir.ObjectType, SepColor, "{}"))
		}
		if err := writeString(w, es.color(ir.ObjectType, SepColor, "{")); err != nil {
			return err
		}
		es.depth++
		for i, f := range node.Fields {
			if i > 0 {
				if err := writeString(w, es.color(ir.ObjectType, SepColor, ",")); err != nil {
					return err
				}
			}
			if err := writeNL(w, es); err != nil {
				return err
			}
			key := es.color(ir.ObjectType, FieldColor, quote(f.String))
			sep := ":"
			if !es.compact {
				sep = ": "
			}
			if err := writeString(w, key+es.color(ir.ObjectType, SepColor, sep)); err != nil {
				return err
			}
			if err := encodeJSON(node.Values[i], w, es); err != nil {
				return err
			}
		}
		es.depth--
		if err := writeNL(w, es); err != nil {
			return err
		}
		return writeString(w, es.color(ir.ObjectType, SepColor, "}"))
	case ir.ArrayType:
		if len(node.Values) == 0 {
			return writeString(w, es.color(ir.ArrayType, SepColor, "[]"))
		}
		if err := writeString(w, es.color(ir.ArrayType, SepColor, "[")); err != nil {
			return err
		}
		es.depth++
		for i, v := range node.Values {
			if i > 0 {
				if err := writeString(w, es.color(ir.ArrayType, SepColor, ",")); err != nil {
					return err
				}
			}
			if err := writeNL(w, es); err != nil {
				return err
			}
			if err := encodeJSON(v, w, es); err != nil {
				return err
			}
		}
		es.depth--
		if err := writeNL(w, es); err != nil {
			return err
		}
		return writeString(w, es.color(ir.ArrayType, SepColor, "]"))
	case ir.StringType:
		return writeString(w, es.color(ir.StringType, ValueColor, quote(node.String)))
	case ir.NumberType:
		if _, ok := node.Float(); !ok || strings.ContainsAny(node.Text(), "NI") {
			return fmt.Errorf("%w: %q is not a JSON number", ErrEncoding, node.Text())
		}
		return writeString(w, es.color(ir.NumberType, ValueColor, node.Text()))
	case ir.BoolType:
		return writeString(w, es.color(ir.BoolType, ValueColor, strconv.FormatBool(node.Bool)))
	case ir.NullType:
		return writeString(w, es.color(ir.NullType, ValueColor, "null"))
	}
	return fmt.Errorf("%w: unknown node type %s", ErrEncoding, node.Type)
}

func quote(s string) string {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func writeNL(w io.Writer, es *EncState) error {
	if es.compact {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func (es *EncState) color(t ir.Type, attr ColorAttr, v string) string {
	if es.colors == nil {
		return v
	}
	return es.colors.Color(t, attr, v)
}
