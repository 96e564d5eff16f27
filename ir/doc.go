// Package ir provides the in-memory document representation used by
// patchwork.
//
// # Overview
//
// Every document, whether decoded from YAML or JSON or built in code,
// is a tree of *Node. The tree is a recursive tagged union: the Type
// field says which of the value fields are meaningful.
//
//   - NullType: null
//   - BoolType: Bool
//   - NumberType: Int64, Float64, or Number as a textual fallback
//   - StringType: String
//   - ArrayType: Values, in order
//   - ObjectType: Fields[i] is the key of Values[i], in insertion order
//
// Object keys are always string typed and unique. Insertion order is
// kept, which is what gives wildcard path expansion a deterministic
// result.
//
// # Navigating Nodes
//
// Nodes keep parent links:
//
//   - Parent: parent node (nil for root)
//   - ParentIndex: index in the parent's Values
//   - ParentField: field name if the parent is an object
//
// Lookup, Has and Assign address nodes by a sequence of segments, where a
// segment is an object key or a decimal array index. Assign creates
// missing intermediate containers.
//
// # Comparison and Hashing
//
// Equal is deep structural equality with numbers compared by value and
// objects compared irrespective of key order. Hash is consistent with
// Equal. Compare imposes a total order.
//
// # Thread Safety
//
// Node structures are not thread-safe.
package ir
