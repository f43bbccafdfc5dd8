package bytecode

import "fmt"

// AtomID identifies an interned string in the bytecode stream.
type AtomID uint32

// NoAtom is the reserved id for "no name".
const NoAtom AtomID = 0

// AtomTable maps atom ids to their text. Entries are created once as the
// decoder encounters them and never mutate afterwards; insertion order is
// preserved for rendering.
type AtomTable struct {
	byID  map[AtomID]string
	order []AtomID
}

// NewAtomTable возвращает пустую таблицу атомов.
func NewAtomTable() *AtomTable {
	return &AtomTable{
		byID: make(map[AtomID]string, 32),
	}
}

// Define records the text for an atom id. The first definition wins; the
// format never redefines an atom, so a duplicate id is simply ignored.
func (t *AtomTable) Define(id AtomID, text string) {
	if _, ok := t.byID[id]; ok {
		return
	}
	t.byID[id] = text
	t.order = append(t.order, id)
}

// Lookup returns the text for an atom id.
func (t *AtomTable) Lookup(id AtomID) (string, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Name returns a printable representation of an atom: its text when known,
// a placeholder otherwise. References may appear before any atom table blob,
// so unknown ids are legal here.
func (t *AtomTable) Name(id AtomID) string {
	if id == NoAtom {
		return "<anonymous>"
	}
	if s, ok := t.byID[id]; ok {
		return s
	}
	return fmt.Sprintf("atom#%d", id)
}

// Len returns the number of defined atoms.
func (t *AtomTable) Len() int {
	return len(t.byID)
}

// IDs returns atom ids in insertion order. The slice is shared; callers must
// not modify it.
func (t *AtomTable) IDs() []AtomID {
	return t.order
}
