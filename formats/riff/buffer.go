package riff

import (
	"errors"
	"io"
)

// Buffer is an in-memory io.WriteSeeker.
type Buffer struct {
	buf []byte
	pos int
}

// Write writes p at the current position, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		if end > cap(b.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

// Seek sets the position for the next write.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("riff: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("riff: negative position")
	}

	// Seeking past the end leaves a zero filled gap on the next write.
	if abs > int64(len(b.buf)) {
		if _, err := b.Seek(0, io.SeekEnd); err != nil {
			return 0, err
		}
		if _, err := b.Write(make([]byte, int(abs)-len(b.buf))); err != nil {
			return 0, err
		}
	}
	b.pos = int(abs)
	return abs, nil
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the length of the buffer contents.
func (b *Buffer) Len() int {
	return len(b.buf)
}
