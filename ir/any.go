package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// FromAny converts Go values as produced by encoding/json, expr-lang and
// similar decoders into a node tree.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x.Clone(), nil
	case []*Node:
		res := make([]*Node, len(x))
		for i := range x {
			res[i] = x[i].Clone()
		}
		return FromSlice(res), nil
	case string:
		return FromString(x), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return FromInt(i), nil
		}
		if f, err := x.Float64(); err == nil {
			return FromFloat(f), nil
		}
		return &Node{Type: NumberType, Number: string(x)}, nil
	case []any:
		res := make([]*Node, len(x))
		for i, elt := range x {
			n, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			res[i] = n
		}
		return FromSlice(res), nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))
		kvs := make([]KeyVal, len(keys))
		for i, k := range keys {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			kvs[i] = KeyVal{Key: FromString(k), Val: n}
		}
		return FromKeyVals(kvs), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromUint(u uint64) *Node {
	if u > 1<<63-1 {
		return FromFloat(float64(u))
	}
	return FromInt(int64(u))
}

func fromReflect(rv reflect.Value) (*Node, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		res := make([]*Node, rv.Len())
		for i := range res {
			n, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			res[i] = n
		}
		return FromSlice(res), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]*Node, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = n
		}
		return FromMap(m), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	}
	return nil, fmt.Errorf("cannot convert %T to a document node", rv.Interface())
}

// ToAny converts a node tree into plain Go values: map[string]any,
// []any, string, bool, int, float64 and nil.
func ToAny(node *Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ObjectType:
		n := len(node.Fields)
		res := make(map[string]any, n)
		for i := range n {
			res[node.Fields[i].String] = ToAny(node.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return int(*node.Int64)
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return json.Number(node.Number)
	case BoolType:
		return node.Bool
	case NullType:
		return nil
	default:
		panic("impossible production")
	}
}
