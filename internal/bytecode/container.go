package bytecode

import (
	"io"
	"os"
)

// Container is an immutable bytecode buffer read from a compiled script file.
// The first byte of Data is the format version; the rest is the tagged value
// stream.
type Container struct {
	Path    string
	Data    []byte
	Version byte
}

// Load reads the file at path and validates the format version byte.
// Это жёсткое предусловие: при несовпадении версии декодирование не начинается.
func Load(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	if info.Mode().IsRegular() && int64(len(data)) < info.Size() {
		return nil, &InputError{Path: path, Err: io.ErrUnexpectedEOF}
	}
	if len(data) == 0 {
		return nil, &EmptyInputError{Path: path}
	}
	if data[0] != ExpectedVersion {
		return nil, &VersionMismatchError{Found: data[0], Expected: ExpectedVersion}
	}

	return &Container{
		Path:    path,
		Data:    data,
		Version: data[0],
	}, nil
}

// Body returns the tagged value stream following the version byte.
func (c *Container) Body() []byte {
	return c.Data[1:]
}
