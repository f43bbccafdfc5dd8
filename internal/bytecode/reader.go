package bytecode

import (
	"encoding/binary"
	"math"

	"fortio.org/safecast"
)

// reader is a bounds-checked cursor over the container body. Every read that
// would run past the end fails with TruncatedError instead of touching
// out-of-range bytes.
type reader struct {
	data []byte
	pos  int
	base int // offset of data[0] within the container, for error reporting
}

func newReader(data []byte, base int) *reader {
	return &reader{data: data, base: base}
}

// offset возвращает текущую позицию курсора в координатах контейнера.
func (r *reader) offset() int {
	return r.base + r.pos
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) truncated(need int, what string) error {
	return &TruncatedError{
		Offset: r.offset(),
		Need:   need,
		Have:   r.remaining(),
		What:   what,
	}
}

func (r *reader) u8(what string) (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.truncated(1, what)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16(what string) (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, r.truncated(2, what)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32(what string) (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, r.truncated(4, what)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) i32(what string) (int32, error) {
	v, err := r.u32(what)
	return int32(v), err
}

func (r *reader) f64(what string) (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, r.truncated(8, what)
	}
	bits := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// length reads a u32 length field and converts it to int with an overflow
// check. Поля длины никогда не принимаются на веру: результат дополнительно
// проверяется против остатка буфера в bytes.
func (r *reader) length(what string) (int, error) {
	raw, err := r.u32(what)
	if err != nil {
		return 0, err
	}
	n, err := safecast.Conv[int](raw)
	if err != nil {
		// Длина не помещается в int на этой платформе — буфер заведомо короче.
		return 0, r.truncated(math.MaxInt, what)
	}
	return n, nil
}

func (r *reader) bytes(n int, what string) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, r.truncated(n, what)
	}
	v := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return v, nil
}
