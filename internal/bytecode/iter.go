package bytecode

import "encoding/binary"

// Instr is one decoded instruction from a function's code stream.
type Instr struct {
	Offset  int
	Op      Opcode
	Info    OpInfo
	Operand int64 // interpretation depends on Info.Operand
	Raw     byte  // the opcode byte, for unknown instructions
	Bad     bool  // unknown opcode or operand ran past the stream end
}

// InstrIter walks a raw code stream instruction by instruction. Unknown
// opcodes and truncated operands do not stop iteration: they yield a single
// Bad instruction covering the remaining bytes, so a damaged function still
// dumps as far as it can.
type InstrIter struct {
	code []byte
	pos  int
}

// NewInstrIter returns an iterator over the given code stream.
func NewInstrIter(code []byte) *InstrIter {
	return &InstrIter{code: code}
}

// Next yields the next instruction. The second result is false after the
// stream is exhausted.
func (it *InstrIter) Next() (Instr, bool) {
	if it.pos >= len(it.code) {
		return Instr{}, false
	}
	offset := it.pos
	op := Opcode(it.code[it.pos])
	info := opTable[op]

	if info.Name == "" {
		it.pos++
		return Instr{Offset: offset, Op: op, Raw: byte(op), Bad: true}, true
	}
	if it.pos+info.Size() > len(it.code) {
		// Operand truncated: consume the rest so iteration terminates.
		it.pos = len(it.code)
		return Instr{Offset: offset, Op: op, Info: info, Raw: byte(op), Bad: true}, true
	}

	var operand int64
	arg := it.code[it.pos+1:]
	switch info.Operand {
	case OperandU8:
		operand = int64(arg[0])
	case OperandU16, OperandConst:
		operand = int64(binary.BigEndian.Uint16(arg))
	case OperandI32:
		operand = int64(int32(binary.BigEndian.Uint32(arg)))
	case OperandAtom:
		operand = int64(binary.BigEndian.Uint32(arg))
	}
	it.pos += info.Size()

	return Instr{
		Offset:  offset,
		Op:      op,
		Info:    info,
		Operand: operand,
		Raw:     byte(op),
	}, true
}
