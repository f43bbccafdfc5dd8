package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMultiDuplicatesWrites(t *testing.T) {
	var a, b bytes.Buffer
	tee := Multi(Console(&a), Console(&b))

	for _, line := range []string{"first\n", "second\n"} {
		if err := tee.Write(line); err != nil {
			t.Fatalf("Write(%q): %v", line, err)
		}
	}
	if a.String() != b.String() {
		t.Errorf("destinations diverged: %q vs %q", a.String(), b.String())
	}
	if a.String() != "first\nsecond\n" {
		t.Errorf("content = %q", a.String())
	}
}

func TestFileSinkFlushesEveryWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out-dump.txt")
	s, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	if err := s.Write("line before close\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Содержимое должно быть на диске до Close.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "line before close\n" {
		t.Errorf("file content before close = %q", data)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFileSinkTruncatesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out-dump.txt")
	if err := os.WriteFile(path, []byte("stale content"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	s, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if err := s.Write("fresh\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "fresh\n" {
		t.Errorf("file content = %q, want fresh", data)
	}
}

func TestFileOpenError(t *testing.T) {
	dir := t.TempDir()
	// Каталог вместо файла — открытие обязано провалиться.
	_, err := File(dir)
	var openErr *FileOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected FileOpenError, got %v", err)
	}
	if openErr.Path != dir {
		t.Errorf("Path = %q, want %q", openErr.Path, dir)
	}
}
