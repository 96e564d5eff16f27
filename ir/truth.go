package ir

import "math"

// Truth reports whether a directive flag value counts as set. Objects
// and arrays are always true, even when empty. Strings are true unless
// empty and numbers unless zero or NaN. A missing value is false.
func Truth(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Type {
	case ObjectType, ArrayType:
		return true
	case StringType:
		return node.String != ""
	case NumberType:
		f, ok := node.Float()
		return ok && f != 0 && !math.IsNaN(f)
	case BoolType:
		return node.Bool
	default:
		return false
	}
}
