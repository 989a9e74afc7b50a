package binary

import (
	"encoding/binary"
)

var (
	LittleEndian  = binary.LittleEndian
	BigEndian     = binary.BigEndian
	DefaultEndian = LittleEndian
)

var AppendUvarint = binary.AppendUvarint

// Uint64Key encodes n so that lexicographic key order matches numeric order.
func Uint64Key(n uint64) []byte {
	return BigEndian.AppendUint64(make([]byte, 0, 8), n)
}
