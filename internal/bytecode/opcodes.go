package bytecode

import "fmt"

// Opcode is a single instruction byte in a function's code stream.
// The instruction set is owned by this inspector: the layout below is the
// stable contract the dump is rendered against, independent of any engine
// build.
type Opcode byte

const (
	// Stack and constants (0x00-0x0F)
	OpNop       Opcode = 0x00
	OpPushNull  Opcode = 0x01
	OpPushUndef Opcode = 0x02
	OpPushFalse Opcode = 0x03
	OpPushTrue  Opcode = 0x04
	OpPushI8    Opcode = 0x05 // push_i8 <imm:u8>
	OpPushI32   Opcode = 0x06 // push_i32 <imm:i32>
	OpPushConst Opcode = 0x07 // push_const <cpool:u16>
	OpPushAtom  Opcode = 0x08 // push_atom <atom:u32>
	OpFClosure  Opcode = 0x09 // fclosure <cpool:u16>
	OpDup       Opcode = 0x0A
	OpDrop      Opcode = 0x0B
	OpSwap      Opcode = 0x0C

	// Variable access (0x10-0x1F)
	OpGetVar   Opcode = 0x10 // get_var <atom:u32>
	OpPutVar   Opcode = 0x11 // put_var <atom:u32>
	OpGetLoc   Opcode = 0x12 // get_loc <slot:u16>
	OpPutLoc   Opcode = 0x13 // put_loc <slot:u16>
	OpGetArg   Opcode = 0x14 // get_arg <slot:u16>
	OpPutArg   Opcode = 0x15 // put_arg <slot:u16>
	OpGetField Opcode = 0x18 // get_field <atom:u32>
	OpPutField Opcode = 0x19 // put_field <atom:u32>
	OpGetElem  Opcode = 0x1A
	OpPutElem  Opcode = 0x1B

	// Arithmetic and comparison (0x20-0x2F)
	OpAdd Opcode = 0x20
	OpSub Opcode = 0x21
	OpMul Opcode = 0x22
	OpDiv Opcode = 0x23
	OpMod Opcode = 0x24
	OpNeg Opcode = 0x25
	OpNot Opcode = 0x26
	OpEq  Opcode = 0x28
	OpNeq Opcode = 0x29
	OpLt  Opcode = 0x2A
	OpLte Opcode = 0x2B
	OpGt  Opcode = 0x2C
	OpGte Opcode = 0x2D

	// Control flow and calls (0x30-0x3F)
	OpJmp        Opcode = 0x30 // jmp <rel:i32>
	OpIfTrue     Opcode = 0x31 // if_true <rel:i32>
	OpIfFalse    Opcode = 0x32 // if_false <rel:i32>
	OpCall       Opcode = 0x38 // call <argc:u16>
	OpCallMethod Opcode = 0x39 // call_method <argc:u16>
	OpRet        Opcode = 0x3A
	OpRetUndef   Opcode = 0x3B
	OpThrow      Opcode = 0x3C

	// Object construction (0x40-0x4F)
	OpObjectNew Opcode = 0x40
	OpArrayNew  Opcode = 0x41 // array_new <count:u16>
	OpTypeof    Opcode = 0x42
)

// OperandKind describes how an instruction's operand bytes are interpreted.
type OperandKind uint8

const (
	OperandNone  OperandKind = iota
	OperandU8                // immediate byte
	OperandU16               // slot or count
	OperandI32               // signed immediate or relative jump target
	OperandConst             // u16 constant pool index
	OperandAtom              // u32 atom id
)

// width returns the operand size in bytes.
func (k OperandKind) width() int {
	switch k {
	case OperandU8:
		return 1
	case OperandU16, OperandConst:
		return 2
	case OperandI32, OperandAtom:
		return 4
	default:
		return 0
	}
}

// OpInfo describes one opcode: its mnemonic and operand layout.
type OpInfo struct {
	Name    string
	Operand OperandKind
}

// Size returns the full encoded instruction size, opcode byte included.
func (i OpInfo) Size() int {
	return 1 + i.Operand.width()
}

var opTable = [256]OpInfo{
	OpNop:       {Name: "nop"},
	OpPushNull:  {Name: "push_null"},
	OpPushUndef: {Name: "push_undef"},
	OpPushFalse: {Name: "push_false"},
	OpPushTrue:  {Name: "push_true"},
	OpPushI8:    {Name: "push_i8", Operand: OperandU8},
	OpPushI32:   {Name: "push_i32", Operand: OperandI32},
	OpPushConst: {Name: "push_const", Operand: OperandConst},
	OpPushAtom:  {Name: "push_atom", Operand: OperandAtom},
	OpFClosure:  {Name: "fclosure", Operand: OperandConst},
	OpDup:       {Name: "dup"},
	OpDrop:      {Name: "drop"},
	OpSwap:      {Name: "swap"},

	OpGetVar:   {Name: "get_var", Operand: OperandAtom},
	OpPutVar:   {Name: "put_var", Operand: OperandAtom},
	OpGetLoc:   {Name: "get_loc", Operand: OperandU16},
	OpPutLoc:   {Name: "put_loc", Operand: OperandU16},
	OpGetArg:   {Name: "get_arg", Operand: OperandU16},
	OpPutArg:   {Name: "put_arg", Operand: OperandU16},
	OpGetField: {Name: "get_field", Operand: OperandAtom},
	OpPutField: {Name: "put_field", Operand: OperandAtom},
	OpGetElem:  {Name: "get_elem"},
	OpPutElem:  {Name: "put_elem"},

	OpAdd: {Name: "add"},
	OpSub: {Name: "sub"},
	OpMul: {Name: "mul"},
	OpDiv: {Name: "div"},
	OpMod: {Name: "mod"},
	OpNeg: {Name: "neg"},
	OpNot: {Name: "not"},
	OpEq:  {Name: "eq"},
	OpNeq: {Name: "neq"},
	OpLt:  {Name: "lt"},
	OpLte: {Name: "lte"},
	OpGt:  {Name: "gt"},
	OpGte: {Name: "gte"},

	OpJmp:        {Name: "jmp", Operand: OperandI32},
	OpIfTrue:     {Name: "if_true", Operand: OperandI32},
	OpIfFalse:    {Name: "if_false", Operand: OperandI32},
	OpCall:       {Name: "call", Operand: OperandU16},
	OpCallMethod: {Name: "call_method", Operand: OperandU16},
	OpRet:        {Name: "ret"},
	OpRetUndef:   {Name: "ret_undef"},
	OpThrow:      {Name: "throw"},

	OpObjectNew: {Name: "object_new"},
	OpArrayNew:  {Name: "array_new", Operand: OperandU16},
	OpTypeof:    {Name: "typeof"},
}

// Info returns the table entry for an opcode. Unknown opcodes return a
// zero-value entry with an empty name.
func Info(op Opcode) OpInfo {
	return opTable[op]
}

// Known reports whether the opcode is part of the instruction set.
func (op Opcode) Known() bool {
	return opTable[op].Name != ""
}

func (op Opcode) String() string {
	if info := opTable[op]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}
