package bytecode

import (
	"encoding/binary"
	"math"
)

// builder constructs container byte streams for tests.
type builder struct {
	buf []byte
}

func newContainer() *builder {
	return &builder{buf: []byte{ExpectedVersion}}
}

func newBody() *builder {
	return &builder{}
}

func (b *builder) u8(v byte) *builder {
	b.buf = append(b.buf, v)
	return b
}

func (b *builder) u16(v uint16) *builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

func (b *builder) u32(v uint32) *builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

func (b *builder) raw(data ...byte) *builder {
	b.buf = append(b.buf, data...)
	return b
}

func (b *builder) tag(t Tag) *builder {
	return b.u8(byte(t))
}

func (b *builder) int32(v int32) *builder {
	return b.tag(TagInt32).u32(uint32(v))
}

func (b *builder) float64(v float64) *builder {
	b.tag(TagFloat64)
	b.buf = binary.BigEndian.AppendUint64(b.buf, math.Float64bits(v))
	return b
}

func (b *builder) str(s string) *builder {
	b.tag(TagString).u32(uint32(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

func (b *builder) atomRef(id AtomID) *builder {
	return b.tag(TagAtomRef).u32(uint32(id))
}

// atomTable emits a TagAtomTable blob with sequential explicit ids.
func (b *builder) atomTable(entries map[AtomID]string, order []AtomID) *builder {
	b.tag(TagAtomTable).u32(uint32(len(order)))
	for _, id := range order {
		text := entries[id]
		b.u32(uint32(id)).u16(uint16(len(text)))
		b.buf = append(b.buf, text...)
	}
	return b
}

// function emits a function record header and code; cpool entries are
// appended by the caller after the count.
func (b *builder) function(name AtomID, code []byte, cpoolCount uint16) *builder {
	b.tag(TagFunction).
		u32(uint32(name)).
		u8(2).          // arg count
		u16(1).         // local count
		u16(4).         // stack size
		u32(uint32(len(code)))
	b.buf = append(b.buf, code...)
	return b.u16(cpoolCount)
}

func (b *builder) object(propCount uint32) *builder {
	return b.tag(TagObject).u32(propCount)
}

func (b *builder) bytes() []byte {
	return b.buf
}

func (b *builder) container() *Container {
	return &Container{Path: "test.bin", Data: b.buf, Version: b.buf[0]}
}
