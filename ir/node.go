package ir

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yv.ParentField
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := &Node{}
		yf.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}

	dst.String = y.String
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return FromInt(int64(f))
	}
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func EmptyObject() *Node {
	return &Node{Type: ObjectType, Fields: []*Node{}, Values: []*Node{}}
}

func EmptyArray() *Node {
	return &Node{Type: ArrayType, Values: []*Node{}}
}

// FromMap builds an object from m with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(m))
	kvs := make([]KeyVal, len(keys))
	for i, k := range keys {
		kvs[i] = KeyVal{Key: FromString(k), Val: m[k]}
	}
	return FromKeyVals(kvs)
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]*Node, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		kv := &kvs[i]
		kv.Key.ParentField = kv.Key.String
		kv.Val.ParentField = kv.Key.String
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Key.Parent = res
		kv.Key.ParentIndex = i
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = ""
	}
	return res
}

// Get returns the value of field in the object y, or nil.
func Get(y *Node, field string) *Node {
	if i := y.index(field); i != -1 {
		return y.Values[i]
	}
	return nil
}

func (y *Node) index(field string) int {
	if y.Type != ObjectType {
		return -1
	}
	for i := range y.Fields {
		if y.Fields[i].String == field {
			return i
		}
	}
	return -1
}

// Keys returns the field names of an object in order.
func (y *Node) Keys() []string {
	res := make([]string, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = f.String
	}
	return res
}

// IsContainer reports whether y is an object or an array.
func (y *Node) IsContainer() bool {
	return y != nil && (y.Type == ObjectType || y.Type == ArrayType)
}

// Put sets field to v in the object y, replacing an existing value in
// place or appending a new field.
func (y *Node) Put(field string, v *Node) {
	v.Parent = y
	v.ParentField = field
	if i := y.index(field); i != -1 {
		v.ParentIndex = i
		y.Values[i] = v
		return
	}
	v.ParentIndex = len(y.Values)
	y.Fields = append(y.Fields, &Node{
		Type:        StringType,
		String:      field,
		Parent:      y,
		ParentIndex: len(y.Fields),
		ParentField: field,
	})
	y.Values = append(y.Values, v)
}

// Append appends v to the array y.
func (y *Node) Append(vs ...*Node) {
	for _, v := range vs {
		v.Parent = y
		v.ParentIndex = len(y.Values)
		v.ParentField = ""
		y.Values = append(y.Values, v)
	}
}

// SetIndex sets the i'th element of the array y, padding with nulls
// when i is past the end. Callers bound i with CanSetIndex.
func (y *Node) SetIndex(i int, v *Node) {
	for len(y.Values) <= i {
		y.Append(Null())
	}
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = ""
	y.Values[i] = v
}

// Float returns the numeric value of a number node.
func (y *Node) Float() (float64, bool) {
	if y == nil || y.Type != NumberType {
		return 0, false
	}
	if y.Int64 != nil {
		return float64(*y.Int64), true
	}
	if y.Float64 != nil {
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text renders a scalar node as text. Containers render as "".
func (y *Node) Text() string {
	if y == nil {
		return ""
	}
	switch y.Type {
	case StringType:
		return y.String
	case BoolType:
		return strconv.FormatBool(y.Bool)
	case NullType:
		return "null"
	case NumberType:
		if y.Int64 != nil {
			return strconv.FormatInt(*y.Int64, 10)
		}
		if y.Float64 != nil {
			return formatFloat(*y.Float64)
		}
		return y.Number
	}
	return ""
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
