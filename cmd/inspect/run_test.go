package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inspect/internal/bytecode"
	"inspect/internal/sink"
)

// buildContainer assembles a minimal valid container: an atom table blob
// followed by one function record whose cpool holds the given children.
type containerBuilder struct {
	buf []byte
}

func newContainerBytes() *containerBuilder {
	return &containerBuilder{buf: []byte{bytecode.ExpectedVersion}}
}

func (b *containerBuilder) atomTable(atoms map[uint32]string, order []uint32) *containerBuilder {
	b.buf = append(b.buf, byte(bytecode.TagAtomTable))
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(len(order)))
	for _, id := range order {
		b.buf = binary.BigEndian.AppendUint32(b.buf, id)
		b.buf = binary.BigEndian.AppendUint16(b.buf, uint16(len(atoms[id])))
		b.buf = append(b.buf, atoms[id]...)
	}
	return b
}

func (b *containerBuilder) function(name uint32, code []byte, cpoolCount uint16) *containerBuilder {
	b.buf = append(b.buf, byte(bytecode.TagFunction))
	b.buf = binary.BigEndian.AppendUint32(b.buf, name)
	b.buf = append(b.buf, 0)                                     // arg count
	b.buf = binary.BigEndian.AppendUint16(b.buf, 0)              // local count
	b.buf = binary.BigEndian.AppendUint16(b.buf, 2)              // stack size
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(len(code)))
	b.buf = append(b.buf, code...)
	b.buf = binary.BigEndian.AppendUint16(b.buf, cpoolCount)
	return b
}

func writeContainer(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "script.compiled")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write container: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunDefaultFunctionDump(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		atomTable(map[uint32]string{1: "main"}, []uint32{1}).
		function(1, []byte{byte(bytecode.OpPushNull), byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)

	out, err := runCLI(t, path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Ровно одна пара баннеров функции, без вложенных дампов.
	if strings.Count(out, "=== function main ===") != 1 ||
		strings.Count(out, "=== end function main ===") != 1 {
		t.Errorf("expected one function banner pair:\n%s", out)
	}
	if strings.Contains(out, "=== atom table ===") {
		t.Errorf("atom section must not render by default:\n%s", out)
	}

	dumpPath := filepath.Join(dir, "script-dump.txt")
	fileData, err := os.ReadFile(dumpPath)
	if err != nil {
		t.Fatalf("dump file missing: %v", err)
	}
	if string(fileData) != out {
		t.Errorf("dump file and console diverged:\nfile:\n%s\nconsole:\n%s", fileData, out)
	}
}

func TestRunSectionsAndOrder(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		atomTable(map[uint32]string{1: "parent", 2: "alpha", 3: "beta"}, []uint32{1, 2, 3}).
		function(1, []byte{byte(bytecode.OpPushTrue), byte(bytecode.OpRet)}, 2).
		function(2, []byte{byte(bytecode.OpRetUndef)}, 0).
		function(3, []byte{byte(bytecode.OpRetUndef)}, 0).buf
	path := writeContainer(t, dir, data)

	out, err := runCLI(t, "-a", "-o", "-f", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	markers := []string{
		"=== atom table ===",
		"=== heap objects ===",
		"=== function parent ===",
		"push_true",
		"=== end function parent ===",
		"=== function alpha ===",
		"=== function beta ===",
	}
	pos := -1
	for _, m := range markers {
		next := strings.Index(out, m)
		if next < 0 {
			t.Fatalf("missing %q:\n%s", m, out)
		}
		if next < pos {
			t.Fatalf("%q out of order:\n%s", m, out)
		}
		pos = next
	}
}

func TestRunTwiceIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		atomTable(map[uint32]string{1: "f"}, []uint32{1}).
		function(1, []byte{byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)

	first, err := runCLI(t, "-a", "-f", path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstFile, _ := os.ReadFile(filepath.Join(dir, "script-dump.txt"))

	second, err := runCLI(t, "-a", "-f", path)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	secondFile, _ := os.ReadFile(filepath.Join(dir, "script-dump.txt"))

	if first != second {
		t.Error("console output differs between runs")
	}
	if !bytes.Equal(firstFile, secondFile) {
		t.Error("dump files differ between runs")
	}
}

func TestRunMissingArgument(t *testing.T) {
	out, err := runCLI(t)
	if err == nil {
		t.Fatal("expected usage error without a positional argument")
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("usage not printed:\n%s", out)
	}
}

func TestRunEmptyInput(t *testing.T) {
	dir := t.TempDir()
	path := writeContainer(t, dir, nil)

	_, err := runCLI(t, path)
	var emptyErr *bytecode.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "script-dump.txt")); !os.IsNotExist(statErr) {
		t.Error("dump file must not be created for empty input")
	}
}

func TestRunVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeContainer(t, dir, []byte{bytecode.ExpectedVersion + 1, 0x01})

	out, err := runCLI(t, path)
	var vErr *bytecode.VersionMismatchError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected VersionMismatchError, got %v", err)
	}
	if strings.Contains(out, "=== ") {
		t.Errorf("no section may render on version mismatch:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "script-dump.txt")); !os.IsNotExist(statErr) {
		t.Error("dump file must not be created on version mismatch")
	}
}

func TestRunUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		function(0, []byte{byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)

	manifest := filepath.Join(dir, "custom.toml")
	content := "[output]\ndir = \"" + filepath.Join(dir, "no", "such", "dir") + "\"\n"
	if err := os.WriteFile(manifest, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	out, err := runCLI(t, "--config", manifest, path)
	var openErr *sink.FileOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected FileOpenError, got %v", err)
	}
	if strings.Contains(out, "=== ") {
		t.Errorf("no decode banner may precede the destination failure:\n%s", out)
	}
}

func TestRunNoFile(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		function(0, []byte{byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)

	out, err := runCLI(t, "--no-file", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "=== function <anonymous> ===") {
		t.Errorf("missing function section:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "script-dump.txt")); !os.IsNotExist(statErr) {
		t.Error("--no-file must not create a dump file")
	}
}

func TestRunManifestSelectsSections(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		atomTable(map[uint32]string{1: "f"}, []uint32{1}).
		function(1, []byte{byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)

	// Манифест рядом со входом подхватывается без --config.
	manifest := filepath.Join(dir, "inspect.toml")
	if err := os.WriteFile(manifest, []byte("[dump]\natoms = true\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	out, err := runCLI(t, path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "=== atom table ===") {
		t.Errorf("manifest atom selection ignored:\n%s", out)
	}
	if strings.Contains(out, "=== function f ===") {
		t.Errorf("function dump must stay off when the manifest selects atoms only:\n%s", out)
	}

	// Явный флаг добавляется поверх манифеста.
	out, err = runCLI(t, "-f", path)
	if err != nil {
		t.Fatalf("run with -f: %v", err)
	}
	if !strings.Contains(out, "=== atom table ===") || !strings.Contains(out, "=== function f ===") {
		t.Errorf("flag must merge with manifest selection:\n%s", out)
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	data := newContainerBytes().
		atomTable(map[uint32]string{1: "f"}, []uint32{1}).
		function(1, []byte{byte(bytecode.OpRet)}, 0).buf
	path := writeContainer(t, dir, data)
	exportPath := filepath.Join(dir, "graph.mp")

	if _, err := runCLI(t, "--export", exportPath, path); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
