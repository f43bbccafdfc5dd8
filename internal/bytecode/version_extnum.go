//go:build extnum

package bytecode

// ExpectedVersion is the container format version this decoder accepts.
// Extended numeric mode changes the serialized form of numbers (bigint
// payloads become legal), so the compiler stamps a different version byte.
const ExpectedVersion byte = 0x43
