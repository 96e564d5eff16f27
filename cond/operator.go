package cond

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"

	"github.com/dlclark/regexp2"
)

var (
	ErrInvalidOperator = errors.New("invalid operator")
	ErrBadPattern      = errors.New("bad pattern")
)

type Kind int

const (
	Eq       Kind = iota // ==
	Ne                   // !=
	StrictEq             // ===
	StrictNe             // !==
	Match                // ~
	NotMatch             // !~
	In                   // in
	NotIn                // notIn
)

var kindTokens = []string{
	Eq:       "==",
	Ne:       "!=",
	StrictEq: "===",
	StrictNe: "!==",
	Match:    "~",
	NotMatch: "!~",
	In:       "in",
	NotIn:    "notIn",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTokens) {
		return "<unknown operator>"
	}
	return kindTokens[k]
}

// Operator is a compiled comparison. When IsPath is set, the right
// operand of a condition is a path into the opposite document rather
// than a literal.
type Operator struct {
	Kind   Kind
	IsPath bool
}

func (o Operator) String() string {
	if o.IsPath {
		return "(" + o.Kind.String() + ")"
	}
	return o.Kind.String()
}

// Compile parses an operator token such as "==", "notIn" or "(~)".
func Compile(tok string) (Operator, error) {
	op := Operator{}
	s := strings.TrimSpace(tok)
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		op.IsPath = true
		s = s[1 : len(s)-1]
	}
	for k, t := range kindTokens {
		if s == t {
			op.Kind = Kind(k)
			return op, nil
		}
	}
	return op, fmt.Errorf("%w: [%s]", ErrInvalidOperator, s)
}

// Compare applies o to left and right. A nil operand stands for a
// missing value.
func (o Operator) Compare(left, right *ir.Node) (bool, error) {
	switch o.Kind {
	case Eq:
		return LooseEqual(left, right), nil
	case Ne:
		return !LooseEqual(left, right), nil
	case StrictEq:
		return StrictEqual(left, right), nil
	case StrictNe:
		return !StrictEqual(left, right), nil
	case Match:
		return matches(left, right)
	case NotMatch:
		m, err := matches(left, right)
		return !m, err
	case In:
		return contains(right, left), nil
	case NotIn:
		return !contains(right, left), nil
	}
	return false, fmt.Errorf("%w: kind %d", ErrInvalidOperator, o.Kind)
}

// StrictEqual holds when both values are present, of the same type and
// structurally equal.
func StrictEqual(a, b *ir.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return ir.Equal(a, b)
}

// LooseEqual compares with type coercion between scalars: numbers,
// numeric strings and booleans compare by numeric value, and null
// equals a missing value. Containers equal only structurally equal
// containers.
func LooseEqual(a, b *ir.Node) bool {
	aNil := a == nil || a.Type == ir.NullType
	bNil := b == nil || b.Type == ir.NullType
	if aNil || bNil {
		return aNil && bNil
	}
	if a.Type == b.Type {
		return ir.Equal(a, b)
	}
	if a.IsContainer() || b.IsContainer() {
		return false
	}
	if a.Type == ir.StringType && b.Type == ir.StringType {
		return a.String == b.String
	}
	fa, fb := toNumber(a), toNumber(b)
	return fa == fb
}

// toNumber coerces a scalar to a number; NaN when it has no numeric
// reading.
func toNumber(n *ir.Node) float64 {
	switch n.Type {
	case ir.NumberType:
		if f, ok := n.Float(); ok {
			return f
		}
	case ir.BoolType:
		if n.Bool {
			return 1
		}
		return 0
	case ir.StringType:
		s := strings.TrimSpace(n.String)
		if s == "" {
			return 0
		}
		if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
			if i, err := strconv.ParseInt(s, 0, 64); err == nil {
				return float64(i)
			}
			return math.NaN()
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsRune(s, '_') {
			return f
		}
	}
	return math.NaN()
}

// Text renders v for pattern matching and interpolation: scalars as
// plain text, containers as compact JSON, a missing value as "".
func Text(v *ir.Node) string {
	if v == nil {
		return ""
	}
	if v.IsContainer() {
		s, err := encode.JSON(v)
		if err != nil {
			return ""
		}
		return s
	}
	return v.Text()
}

func matches(left, right *ir.Node) (bool, error) {
	re, err := regexp2.Compile(Text(right), regexp2.ECMAScript)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBadPattern, err)
	}
	return re.MatchString(Text(left))
}

func contains(coll, v *ir.Node) bool {
	if coll == nil {
		return false
	}
	switch coll.Type {
	case ir.ArrayType, ir.ObjectType:
		for _, elt := range coll.Values {
			if LooseEqual(elt, v) {
				return true
			}
		}
	case ir.StringType:
		for _, r := range coll.String {
			if LooseEqual(ir.FromString(string(r)), v) {
				return true
			}
		}
	}
	return false
}
