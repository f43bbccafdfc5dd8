package dump

import "inspect/internal/bytecode"

// Walk traverses a decoded value depth-first in pre-order and drives the
// renderer at each function node: a function's own section is rendered before
// its constant pool children, and children are visited in ascending pool
// index order. Objects are terminal (their headers were already registered
// during decode) and primitives carry nothing to expand.
//
// There is no cycle guard. The serialized format nests records by value and
// cannot express a back reference, so a decoded graph is always a tree; the
// traversal matches the engine's own dump behavior, which recurses unguarded.
func Walk(v bytecode.Value, r *Renderer) error {
	if v.Tag != bytecode.TagFunction {
		return nil
	}
	if err := r.Function(v.Fn); err != nil {
		return err
	}
	for _, entry := range v.Fn.CPool {
		if err := Walk(entry, r); err != nil {
			return err
		}
	}
	return nil
}
