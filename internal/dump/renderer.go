// Package dump renders decoded bytecode structures as text: the atom table,
// heap object headers and function instruction streams, each bracketed by a
// banner pair so concatenated sections stay unambiguous. All output flows
// through a single sink.
package dump

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"inspect/internal/bytecode"
	"inspect/internal/sink"
)

// Stats counts what a renderer produced during one run.
type Stats struct {
	Atoms     int // atom table sections rendered
	Heap      int // heap object sections rendered
	Functions int // function sections rendered
	Lines     int // total lines written
}

// Renderer formats decoded structures and writes them to its sink.
type Renderer struct {
	out   sink.Sink
	atoms *bytecode.AtomTable
	stats Stats
}

// NewRenderer returns a renderer writing to out. The atom table is consulted
// for name annotations in every section.
func NewRenderer(out sink.Sink, atoms *bytecode.AtomTable) *Renderer {
	return &Renderer{out: out, atoms: atoms}
}

// Stats returns what has been rendered so far.
func (r *Renderer) Stats() Stats {
	return r.stats
}

func (r *Renderer) line(format string, args ...any) error {
	r.stats.Lines++
	return r.out.Write(fmt.Sprintf(format, args...) + "\n")
}

// Atoms renders every id/text pair in table insertion order.
func (r *Renderer) Atoms() error {
	if err := r.line("=== atom table ==="); err != nil {
		return err
	}
	if err := r.line("; %d atoms", r.atoms.Len()); err != nil {
		return err
	}
	for _, id := range r.atoms.IDs() {
		text, _ := r.atoms.Lookup(id)
		if err := r.line("  %6d  %s", id, text); err != nil {
			return err
		}
	}
	r.stats.Atoms++
	return r.line("=== end atom table ===")
}

// HeapObjects renders a summary line followed by one line per record, in
// registry order.
func (r *Renderer) HeapObjects(reg *bytecode.HeapRegistry) error {
	if err := r.line("=== heap objects ==="); err != nil {
		return err
	}
	records := reg.Records()
	if err := r.line("; %d live objects", len(records)); err != nil {
		return err
	}

	// Выравниваем колонку имени по самому широкому имени.
	nameWidth := 0
	names := make([]string, len(records))
	for i, rec := range records {
		name := "-"
		if rec.Kind == bytecode.HKFunction {
			name = r.atoms.Name(rec.Name)
		}
		names[i] = name
		if w := runewidth.StringWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	for i, rec := range records {
		detail := fmt.Sprintf("props=%d", rec.Props)
		if rec.Kind == bytecode.HKFunction {
			detail = fmt.Sprintf("cpool=%d code=%d", rec.CPool, rec.CodeLen)
		}
		err := r.line("  %-8s  %s  offset=%-6d size=%-6d %s",
			rec.Kind, runewidth.FillRight(names[i], nameWidth), rec.Offset, rec.Size, detail)
		if err != nil {
			return err
		}
	}
	r.stats.Heap++
	return r.line("=== end heap objects ===")
}

// Function renders one function bytecode record: name header, header fields,
// the constant pool summary and the decoded instruction stream as
// address-prefixed mnemonic lines. Constant pool children are separate
// sections rendered by the walker, not nested inside this one.
func (r *Renderer) Function(fn *bytecode.Function) error {
	name := r.atoms.Name(fn.Name)
	if err := r.line("=== function %s ===", name); err != nil {
		return err
	}
	err := r.line("; args=%d locals=%d stack=%d code=%d bytes",
		fn.ArgCount, fn.LocalCount, fn.StackSize, len(fn.Code))
	if err != nil {
		return err
	}
	for i, entry := range fn.CPool {
		if err := r.line("; cpool[%d] = %s", i, r.describe(entry)); err != nil {
			return err
		}
	}

	iter := bytecode.NewInstrIter(fn.Code)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		if err := r.instruction(fn, instr); err != nil {
			return err
		}
	}

	r.stats.Functions++
	return r.line("=== end function %s ===", name)
}

func (r *Renderer) instruction(fn *bytecode.Function, instr bytecode.Instr) error {
	if instr.Bad {
		if instr.Info.Name == "" {
			return r.line("  %04x  .byte 0x%02x", instr.Offset, instr.Raw)
		}
		return r.line("  %04x  %s <truncated operand>", instr.Offset, instr.Info.Name)
	}

	mnemonic := runewidth.FillRight(instr.Info.Name, 12)
	switch instr.Info.Operand {
	case bytecode.OperandNone:
		return r.line("  %04x  %s", instr.Offset, instr.Info.Name)
	case bytecode.OperandAtom:
		return r.line("  %04x  %s %-6d ; %s",
			instr.Offset, mnemonic, instr.Operand,
			r.atoms.Name(bytecode.AtomID(instr.Operand)))
	case bytecode.OperandConst:
		note := "<out of range>"
		if idx := int(instr.Operand); idx < len(fn.CPool) {
			note = r.describe(fn.CPool[idx])
		}
		return r.line("  %04x  %s %-6d ; %s", instr.Offset, mnemonic, instr.Operand, note)
	case bytecode.OperandI32:
		if instr.Op == bytecode.OpJmp || instr.Op == bytecode.OpIfTrue || instr.Op == bytecode.OpIfFalse {
			target := instr.Offset + instr.Info.Size() + int(instr.Operand)
			return r.line("  %04x  %s %-6d ; -> %04x", instr.Offset, mnemonic, instr.Operand, target)
		}
		return r.line("  %04x  %s %d", instr.Offset, mnemonic, instr.Operand)
	default:
		return r.line("  %04x  %s %d", instr.Offset, mnemonic, instr.Operand)
	}
}

// describe returns the one-line form of a constant pool entry. Atom refs
// resolve through the table; functions show their name so the reader can find
// the matching section below.
func (r *Renderer) describe(v bytecode.Value) string {
	switch v.Tag {
	case bytecode.TagAtomRef:
		return fmt.Sprintf("atom %d (%s)", v.Atom, r.atoms.Name(v.Atom))
	case bytecode.TagFunction:
		return fmt.Sprintf("function %s", r.atoms.Name(v.Fn.Name))
	default:
		return v.String()
	}
}

// bannerLine reports whether a rendered line is a section banner. Used by
// tests and kept close to the format strings above.
func bannerLine(s string) bool {
	return strings.HasPrefix(s, "=== ") && strings.HasSuffix(s, " ===")
}
