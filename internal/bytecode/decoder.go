// Package bytecode decodes the version-tagged binary container produced by
// the script compiler: the atom table, the tagged value stream and function
// bytecode records with their constant pools. The decoder is strictly
// read-only and bounds-checked; it never executes or re-encodes anything.
package bytecode

import "fmt"

// Session holds the per-invocation decode state: the lazily populated atom
// table and the registry of heap-shaped values seen so far. One session per
// run; it is never shared across invocations.
type Session struct {
	Atoms *AtomTable
	Heap  *HeapRegistry
}

// NewSession returns an empty decode session.
func NewSession() *Session {
	return &Session{
		Atoms: NewAtomTable(),
		Heap:  &HeapRegistry{},
	}
}

// DecodeRoot decodes the container's root value. Atom table blobs may precede
// the root value in the stream; they populate the session and decoding
// continues. At least one value must follow.
func (s *Session) DecodeRoot(c *Container) (Value, error) {
	r := newReader(c.Body(), 1)
	for {
		if r.remaining() == 0 {
			return Value{}, &TruncatedError{
				Offset: r.offset(),
				Need:   1,
				Have:   0,
				What:   "root value tag",
			}
		}
		tag := Tag(r.data[r.pos])
		if tag != TagAtomTable {
			return s.decodeValue(r)
		}
		if _, err := s.decodeValue(r); err != nil {
			return Value{}, err
		}
	}
}

// decodeValue reads one tagged value at the cursor.
func (s *Session) decodeValue(r *reader) (Value, error) {
	start := r.offset()
	tagByte, err := r.u8("value tag")
	if err != nil {
		return Value{}, err
	}
	tag := Tag(tagByte)

	switch tag {
	case TagNull, TagUndefined, TagFalse, TagTrue:
		return Value{Tag: tag}, nil

	case TagInt32:
		n, err := r.i32("int32 payload")
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Int: n}, nil

	case TagFloat64:
		f, err := r.f64("float64 payload")
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Float: f}, nil

	case TagString:
		n, err := r.length("string length")
		if err != nil {
			return Value{}, err
		}
		b, err := r.bytes(n, "string payload")
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Str: string(b)}, nil

	case TagAtomRef:
		id, err := r.u32("atom id")
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Atom: AtomID(id)}, nil

	case TagBigInt:
		return s.decodeBigInt(r)

	case TagAtomTable:
		if err := s.decodeAtomTable(r); err != nil {
			return Value{}, err
		}
		return Value{Tag: tag}, nil

	case TagObject:
		return s.decodeObject(r, start)

	case TagFunction:
		fn, err := s.decodeFunction(r, start)
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: tag, Fn: fn}, nil

	default:
		return Value{}, &MalformedError{Offset: start, Tag: tagByte}
	}
}

func (s *Session) decodeBigInt(r *reader) (Value, error) {
	sign, err := r.u8("bigint sign")
	if err != nil {
		return Value{}, err
	}
	n, err := r.length("bigint length")
	if err != nil {
		return Value{}, err
	}
	mag, err := r.bytes(n, "bigint magnitude")
	if err != nil {
		return Value{}, err
	}
	return Value{Tag: TagBigInt, Neg: sign != 0, Mag: mag}, nil
}

// decodeAtomTable reads an atom table blob into the session. Atom ids are
// explicit in the stream; entries already defined are left untouched.
func (s *Session) decodeAtomTable(r *reader) error {
	count, err := r.length("atom count")
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		id, err := r.u32("atom id")
		if err != nil {
			return err
		}
		n, err := r.u16("atom text length")
		if err != nil {
			return err
		}
		text, err := r.bytes(int(n), "atom text")
		if err != nil {
			return err
		}
		s.Atoms.Define(AtomID(id), string(text))
	}
	return nil
}

func (s *Session) decodeObject(r *reader, start int) (Value, error) {
	count, err := r.length("property count")
	if err != nil {
		return Value{}, err
	}
	props := make([]Prop, 0, min(count, 64))
	for i := 0; i < count; i++ {
		key, err := r.u32("property atom")
		if err != nil {
			return Value{}, err
		}
		v, err := s.decodeValue(r)
		if err != nil {
			return Value{}, err
		}
		props = append(props, Prop{Key: AtomID(key), Value: v})
	}

	s.Heap.Add(HeapRecord{
		Kind:   HKObject,
		Offset: start,
		Size:   r.offset() - start,
		Props:  len(props),
	})
	return Value{Tag: TagObject, Props: props}, nil
}

// decodeFunction reads a function bytecode record: header, raw instruction
// stream, then the constant pool whose entries decode recursively.
func (s *Session) decodeFunction(r *reader, start int) (*Function, error) {
	name, err := r.u32("function name atom")
	if err != nil {
		return nil, err
	}
	argCount, err := r.u8("arg count")
	if err != nil {
		return nil, err
	}
	localCount, err := r.u16("local count")
	if err != nil {
		return nil, err
	}
	stackSize, err := r.u16("stack size")
	if err != nil {
		return nil, err
	}
	codeLen, err := r.length("code length")
	if err != nil {
		return nil, err
	}
	code, err := r.bytes(codeLen, "code stream")
	if err != nil {
		return nil, err
	}
	cpoolCount, err := r.u16("cpool count")
	if err != nil {
		return nil, err
	}

	fn := &Function{
		Name:       AtomID(name),
		ArgCount:   argCount,
		LocalCount: localCount,
		StackSize:  stackSize,
		Code:       code,
		CPool:      make([]Value, 0, cpoolCount),
	}
	for i := 0; i < int(cpoolCount); i++ {
		v, err := s.decodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("cpool entry %d of %s: %w", i, s.Atoms.Name(fn.Name), err)
		}
		fn.CPool = append(fn.CPool, v)
	}

	s.Heap.Add(HeapRecord{
		Kind:    HKFunction,
		Offset:  start,
		Size:    r.offset() - start,
		Name:    fn.Name,
		CPool:   len(fn.CPool),
		CodeLen: len(fn.Code),
	})
	return fn, nil
}
