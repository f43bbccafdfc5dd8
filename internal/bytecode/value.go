package bytecode

import (
	"fmt"
	"strconv"
)

// Value is a decoded tagged value. The Tag selects which fields are
// meaningful; primitives carry no outgoing references.
type Value struct {
	Tag   Tag
	Int   int32     // TagInt32
	Float float64   // TagFloat64
	Str   string    // TagString
	Neg   bool      // TagBigInt sign
	Mag   []byte    // TagBigInt magnitude, big-endian
	Atom  AtomID    // TagAtomRef
	Props []Prop    // TagObject
	Fn    *Function // TagFunction
}

// Prop is a single atom-keyed object property.
type Prop struct {
	Key   AtomID
	Value Value
}

// Function is a decoded function bytecode record: its name atom, header
// fields, raw instruction stream and constant pool. Constant pool entries may
// themselves be functions (nested closures), which is the one place the
// decoded graph nests.
type Function struct {
	Name       AtomID
	ArgCount   uint8
	LocalCount uint16
	StackSize  uint16
	Code       []byte
	CPool      []Value
}

// Leaf reports whether the value has no outgoing references to expand.
func (v Value) Leaf() bool {
	switch v.Tag {
	case TagObject, TagFunction:
		return false
	default:
		return true
	}
}

// String returns a short single-line representation used for leaf rendering.
func (v Value) String() string {
	switch v.Tag {
	case TagNull:
		return "null"
	case TagUndefined:
		return "undefined"
	case TagFalse:
		return "false"
	case TagTrue:
		return "true"
	case TagInt32:
		return strconv.FormatInt(int64(v.Int), 10)
	case TagFloat64:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TagString:
		s := v.Str
		if len(s) > 64 {
			s = s[:61] + "..."
		}
		return strconv.Quote(s)
	case TagAtomRef:
		return fmt.Sprintf("atom#%d", v.Atom)
	case TagBigInt:
		sign := ""
		if v.Neg {
			sign = "-"
		}
		return fmt.Sprintf("bigint(%s%d bytes)", sign, len(v.Mag))
	case TagObject:
		return fmt.Sprintf("object(%d props)", len(v.Props))
	case TagFunction:
		return "function-bytecode"
	default:
		return v.Tag.String()
	}
}
