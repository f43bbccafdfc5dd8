package bytecode

// HeapKind identifies the kind of heap-shaped record registered during decode.
type HeapKind uint8

const (
	HKObject HeapKind = iota
	HKFunction
)

// String returns a human-readable name for the heap kind.
func (k HeapKind) String() string {
	switch k {
	case HKObject:
		return "object"
	case HKFunction:
		return "function"
	default:
		return "unknown"
	}
}

// HeapRecord is a lightweight header describing one object-shaped value
// encountered during decode: where it sat in the container, how many bytes it
// spanned and its kind-specific counts. Records are snapshots; nothing
// retains the decoded payload through them.
type HeapRecord struct {
	Kind    HeapKind
	Offset  int    // container offset of the value's tag byte
	Size    int    // encoded size in bytes, tag included
	Name    AtomID // function name, NoAtom for plain objects
	Props   int    // property count (objects)
	CPool   int    // constant pool entry count (functions)
	CodeLen int    // instruction stream length (functions)
}

// HeapRegistry accumulates heap records in decode order.
type HeapRegistry struct {
	records []HeapRecord
}

// Add appends one record. The decoder calls it as values are decoded.
func (r *HeapRegistry) Add(rec HeapRecord) {
	r.records = append(r.records, rec)
}

// Records returns all registered records in decode order. The slice is
// shared; callers must not modify it.
func (r *HeapRegistry) Records() []HeapRecord {
	return r.records
}

// Len returns the number of registered records.
func (r *HeapRegistry) Len() int {
	return len(r.records)
}
