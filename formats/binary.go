package formats

import (
	"encoding/binary"
	"errors"
	"io"
)

// Uint16 returns the little endian uint16 at b[off:].
func Uint16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

// Uint32 returns the little endian uint32 at b[off:].
func Uint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

// PutUint16 writes v as little endian uint16 to b[off:].
func PutUint16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}

// PutUint32 writes v as little endian uint32 to b[off:].
func PutUint32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// ReadFull reads exactly n bytes. A short read is reported as a FormatError
// of the given format, as it means a length field points past the data.
func ReadFull(r io.Reader, n int, format, what string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, Errorf(format, "truncated %s: need %d bytes", what, n)
		}
		return nil, err
	}
	return buf, nil
}
