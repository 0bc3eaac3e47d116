// Package formats defines the contract shared by all cursor file codecs.
//
// A codec is either a StaticFormat, producing a single cursor, or an
// AnimatedFormat, producing an animated cursor. Detection only looks at the
// first HeaderSize bytes of a file. The concrete codecs live in the sub
// packages and are registered in formats/loader.
package formats

import (
	"errors"
	"io"

	"github.com/safing/cursorcreate/cursor"
)

// HeaderSize is the number of leading bytes passed to Detect.
const HeaderSize = 12

// StaticFormat reads and writes static cursors.
type StaticFormat interface {
	// ID returns the short identifier of the format, usually its file extension.
	ID() string
	// Detect reports whether header, the first bytes of a file, matches the format.
	Detect(header []byte) bool
	// Decode reads a cursor. It returns a *FormatError if the data is malformed.
	Decode(r io.ReadSeeker) (*cursor.Cursor, error)
	// Encode writes c to w.
	Encode(c *cursor.Cursor, w io.Writer) error
}

// AnimatedFormat reads and writes animated cursors.
type AnimatedFormat interface {
	// ID returns the short identifier of the format, usually its file extension.
	ID() string
	// Detect reports whether header, the first bytes of a file, matches the format.
	Detect(header []byte) bool
	// Decode reads an animated cursor. It returns a *FormatError if the data is malformed.
	Decode(r io.ReadSeeker) (*cursor.Animated, error)
	// Encode writes a to w.
	Encode(a *cursor.Animated, w io.Writer) error
}

// ReadHeader reads up to HeaderSize bytes from r and rewinds r to where it
// was. A shorter result means the stream is shorter than HeaderSize.
func ReadHeader(r io.ReadSeeker) ([]byte, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return header[:n], nil
}
