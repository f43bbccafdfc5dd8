// Package export serializes a decoded bytecode graph into a schema-versioned
// msgpack payload for downstream tooling. Writes are atomic: the payload goes
// to a temp file first and is renamed into place.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"inspect/internal/bytecode"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// Payload is the exported form of one decode session.
type Payload struct {
	Schema  uint16
	Source  string            // input container path
	Version uint8             // container format version byte
	Atoms   map[uint32]string // atom table snapshot
	Root    Node              // decoded value graph
}

// Node mirrors bytecode.Value in a msgpack-friendly shape.
type Node struct {
	Tag   uint8
	Int   int32     `msgpack:",omitempty"`
	Float float64   `msgpack:",omitempty"`
	Str   string    `msgpack:",omitempty"`
	Neg   bool      `msgpack:",omitempty"`
	Mag   []byte    `msgpack:",omitempty"`
	Atom  uint32    `msgpack:",omitempty"`
	Props []Prop    `msgpack:",omitempty"`
	Fn    *FuncNode `msgpack:",omitempty"`
}

// Prop is one exported object property.
type Prop struct {
	Key   uint32
	Value Node
}

// FuncNode is the exported form of a function bytecode record.
type FuncNode struct {
	Name       uint32
	ArgCount   uint8
	LocalCount uint16
	StackSize  uint16
	Code       []byte
	CPool      []Node
}

// Build converts a decode session and its root value into a payload.
func Build(c *bytecode.Container, sess *bytecode.Session, root bytecode.Value) *Payload {
	atoms := make(map[uint32]string, sess.Atoms.Len())
	for _, id := range sess.Atoms.IDs() {
		text, _ := sess.Atoms.Lookup(id)
		atoms[uint32(id)] = text
	}
	return &Payload{
		Schema:  schemaVersion,
		Source:  c.Path,
		Version: c.Version,
		Atoms:   atoms,
		Root:    toNode(root),
	}
}

func toNode(v bytecode.Value) Node {
	n := Node{
		Tag:   uint8(v.Tag),
		Int:   v.Int,
		Float: v.Float,
		Str:   v.Str,
		Neg:   v.Neg,
		Mag:   v.Mag,
		Atom:  uint32(v.Atom),
	}
	for _, p := range v.Props {
		n.Props = append(n.Props, Prop{Key: uint32(p.Key), Value: toNode(p.Value)})
	}
	if v.Fn != nil {
		fn := &FuncNode{
			Name:       uint32(v.Fn.Name),
			ArgCount:   v.Fn.ArgCount,
			LocalCount: v.Fn.LocalCount,
			StackSize:  v.Fn.StackSize,
			Code:       v.Fn.Code,
		}
		for _, entry := range v.Fn.CPool {
			fn.CPool = append(fn.CPool, toNode(entry))
		}
		n.Fn = fn
	}
	return n
}

// Write serializes the payload to path atomically.
func Write(path string, payload *Payload) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tmp-export-*")
	if err != nil {
		return fmt.Errorf("failed to create export temp file: %w", err)
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode export payload: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmpName, path)
}

// Read loads a payload back. Used by tests and downstream tooling.
func Read(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload Payload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode export payload: %w", err)
	}
	if payload.Schema != schemaVersion {
		return nil, fmt.Errorf("unsupported export schema %d (expected %d)", payload.Schema, schemaVersion)
	}
	return &payload, nil
}
