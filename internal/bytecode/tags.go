package bytecode

import "fmt"

// Tag is the one-byte discriminant preceding every serialized value.
type Tag byte

const (
	TagInvalid   Tag = 0x00
	TagNull      Tag = 0x01
	TagUndefined Tag = 0x02
	TagFalse     Tag = 0x03
	TagTrue      Tag = 0x04
	TagInt32     Tag = 0x05 // i32, big-endian
	TagFloat64   Tag = 0x06 // IEEE 754 double, big-endian
	TagString    Tag = 0x07 // u32 length + UTF-8 bytes
	TagAtomRef   Tag = 0x08 // u32 atom id
	TagBigInt    Tag = 0x09 // sign byte + u32 length + magnitude bytes
	TagAtomTable Tag = 0x0A // u32 count, then per entry: u32 id, u16 length, bytes
	TagObject    Tag = 0x0B // u32 property count, then per property: u32 atom id, value
	TagFunction  Tag = 0x0C // function bytecode record
)

// tagNames содержит имена для всех известных тегов.
var tagNames = map[Tag]string{
	TagNull:      "null",
	TagUndefined: "undefined",
	TagFalse:     "false",
	TagTrue:      "true",
	TagInt32:     "int32",
	TagFloat64:   "float64",
	TagString:    "string",
	TagAtomRef:   "atom-ref",
	TagBigInt:    "bigint",
	TagAtomTable: "atom-table",
	TagObject:    "object",
	TagFunction:  "function-bytecode",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(0x%02x)", byte(t))
}

// Known reports whether the tag is part of the format.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}
