package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var seed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the node, consistent with Equal: nodes
// which are Equal have the same hash within a process.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}

	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteByte(byte(n.Type))

	var b [8]byte
	switch n.Type {
	case NullType:
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case NumberType:
		if f, ok := n.Float(); ok {
			if f == 0 {
				f = 0 // -0
			}
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
			h.Write(b[:])
		} else {
			h.WriteString(n.Number)
		}
	case StringType:
		h.WriteString(n.String)
	case ArrayType:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case ObjectType:
		// field order does not matter, so combine entry hashes commutatively
		var sum uint64
		for i, field := range n.Fields {
			var e maphash.Hash
			e.SetSeed(seed)
			e.WriteString(field.String)
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			e.Write(b[:])
			sum += e.Sum64()
		}
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	}
	return h.Sum64()
}
