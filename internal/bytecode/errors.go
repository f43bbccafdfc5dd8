package bytecode

import "fmt"

// InputError reports a failure to open or read the input container file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot read bytecode file %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// EmptyInputError reports a zero-length container file.
type EmptyInputError struct {
	Path string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("bytecode file %q is empty", e.Path)
}

// VersionMismatchError reports a container whose format version byte does not
// match the version this decoder was built for.
type VersionMismatchError struct {
	Found    byte
	Expected byte
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf(
		"bytecode version mismatch: found 0x%02x, expected 0x%02x "+
			"(the extended numeric mode build flag changes the format version; "+
			"the file was likely produced by a compiler built with a different flag)",
		e.Found, e.Expected)
}

// MalformedError reports an unknown or out-of-range value tag.
type MalformedError struct {
	Offset int
	Tag    byte
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed bytecode: unknown tag 0x%02x at offset %d", e.Tag, e.Offset)
}

// TruncatedError reports a read that would run past the end of the container.
type TruncatedError struct {
	Offset int
	Need   int
	Have   int
	What   string
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated bytecode: %s at offset %d needs %d bytes, %d remain",
		e.What, e.Offset, e.Need, e.Have)
}
