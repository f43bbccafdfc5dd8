//go:build !extnum

package bytecode

// ExpectedVersion is the container format version this decoder accepts.
// Builds with the extnum tag accept the extended numeric mode version instead.
const ExpectedVersion byte = 0x02
