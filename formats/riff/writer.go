package riff

import (
	"errors"
	"fmt"
	"io"

	"github.com/safing/cursorcreate/formats"
)

var errClosed = errors.New("riff: writer is closed")

// Writer writes a RIFF stream. The total length in the header is patched when
// the writer is closed, which is why it needs a seekable destination.
type Writer struct {
	w      io.WriteSeeker
	start  int64
	closed bool
}

// NewWriter writes the RIFF header with the given form type to w.
func NewWriter(w io.WriteSeeker, form string) (*Writer, error) {
	if err := checkID(form); err != nil {
		return nil, err
	}
	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	rw := &Writer{w: w, start: start}
	if err := rw.write([]byte(RIFF), make([]byte, 4), []byte(form)); err != nil {
		return nil, err
	}
	return rw, nil
}

// WriteChunk writes a single data chunk.
func (rw *Writer) WriteChunk(id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	return rw.write([]byte(id), length(len(data)), data, padding(len(data)))
}

// WriteList writes a LIST chunk of the given type holding chunks.
func (rw *Writer) WriteList(listType string, chunks ...Chunk) error {
	if err := checkID(listType); err != nil {
		return err
	}

	size := 4
	for _, c := range chunks {
		if err := checkID(c.ID); err != nil {
			return err
		}
		size += 8 + len(c.Data) + len(padding(len(c.Data)))
	}

	if err := rw.write([]byte(LIST), length(size), []byte(listType)); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := rw.write([]byte(c.ID), length(len(c.Data)), c.Data, padding(len(c.Data))); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the final stream length into the header. It does not close
// the underlying writer.
func (rw *Writer) Close() error {
	if rw.closed {
		return errClosed
	}
	rw.closed = true

	end, err := rw.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := rw.w.Seek(rw.start+4, io.SeekStart); err != nil {
		return err
	}
	if _, err := rw.w.Write(length(int(end - rw.start - 8))); err != nil {
		return err
	}
	_, err = rw.w.Seek(end, io.SeekStart)
	return err
}

func (rw *Writer) write(parts ...[]byte) error {
	if rw.closed {
		return errClosed
	}
	for _, p := range parts {
		if _, err := rw.w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

func length(n int) []byte {
	b := make([]byte, 4)
	formats.PutUint32(b, 0, uint32(n))
	return b
}

// padding returns the pad byte needed after a chunk of n bytes.
func padding(n int) []byte {
	if n%2 == 1 {
		return []byte{0}
	}
	return nil
}

func checkID(id string) error {
	if len(id) != 4 {
		return fmt.Errorf("riff: chunk id %q must be four bytes long", id)
	}
	return nil
}
