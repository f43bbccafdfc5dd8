// Package sink provides the dump output sinks: a console writer, a file
// writer that flushes after every write, and a tee that fans a write out to
// both. Every rendered line flows through a single Sink so the console and
// the dump file can never diverge in what they were asked to record.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink accepts rendered dump text.
type Sink interface {
	// Write appends text to the destination.
	Write(text string) error

	// Close flushes and releases resources. Safe to call on every exit path.
	Close() error
}

// FileOpenError reports a destination dump file that could not be opened.
// The run aborts before any decoding when this happens.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("cannot open dump file %q: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// Console returns a sink over an arbitrary writer. Closing it is a no-op;
// the caller owns the writer.
func Console(w io.Writer) Sink {
	return &consoleSink{w: w}
}

type consoleSink struct {
	w io.Writer
}

func (s *consoleSink) Write(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

func (s *consoleSink) Close() error { return nil }

// File opens path for writing, truncating any previous dump. Each write is
// flushed immediately so a crash mid-run leaves the file consistent up to the
// last completed write.
func File(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	return &fileSink{f: f, w: bufio.NewWriter(f)}, nil
}

type fileSink struct {
	f *os.File
	w *bufio.Writer
}

func (s *fileSink) Write(text string) error {
	if _, err := s.w.WriteString(text); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *fileSink) Close() error {
	flushErr := s.w.Flush()
	closeErr := s.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Multi fans every write out to all given sinks. Close closes each sink and
// returns the first error encountered.
func Multi(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

type multiSink struct {
	sinks []Sink
}

func (s *multiSink) Write(text string) error {
	var firstErr error
	for _, dst := range s.sinks {
		if err := dst.Write(text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *multiSink) Close() error {
	var firstErr error
	for _, dst := range s.sinks {
		if err := dst.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
