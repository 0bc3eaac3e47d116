// Package riff reads and writes the RIFF container used by ANI files.
//
// The reader flattens nested lists: the chunks of a list are returned in
// place of the list itself. Chunks with an odd length are followed by a pad
// byte, which is written and skipped.
package riff

import (
	"errors"
	"fmt"
	"io"

	"github.com/safing/cursorcreate/formats"
)

// ID is the format name used in errors.
const ID = "riff"

// Well known chunk ids.
const (
	RIFF = "RIFF"
	LIST = "LIST"
)

// MaxChunkSize limits the length of a single data chunk.
const MaxChunkSize = 64 << 20

// Chunk is a single data chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// Reader reads chunks from a RIFF stream.
type Reader struct {
	stack []*level

	lists map[string]struct{}
	types map[string]struct{}
}

type level struct {
	r io.Reader
	// pad is set when the list has an odd length, so its parent holds a pad
	// byte after it.
	pad bool
}

// NewReader returns a reader that treats chunks with an id in lists as lists.
// Lists whose type is in types are descended into, all other lists are
// skipped as a whole.
func NewReader(r io.Reader, lists, types []string) *Reader {
	rr := &Reader{
		stack: []*level{{r: r}},
		lists: make(map[string]struct{}, len(lists)),
		types: make(map[string]struct{}, len(types)),
	}
	for _, id := range lists {
		rr.lists[id] = struct{}{}
	}
	for _, id := range types {
		rr.types[id] = struct{}{}
	}
	return rr
}

// ReadHeader reads the RIFF header and returns the form type.
func ReadHeader(r io.Reader) (form string, err error) {
	header, err := formats.ReadFull(r, 12, ID, "header")
	if err != nil {
		return "", err
	}
	if string(header[:4]) != RIFF {
		return "", formats.Errorf(ID, "missing %q magic", RIFF)
	}
	return string(header[8:12]), nil
}

// Next returns the next data chunk. It returns io.EOF at the end of the stream.
func (rr *Reader) Next() (*Chunk, error) {
	for len(rr.stack) > 0 {
		top := rr.stack[len(rr.stack)-1]

		id, err := readID(top.r)
		switch {
		case errors.Is(err, io.EOF):
			rr.stack = rr.stack[:len(rr.stack)-1]
			if top.pad && len(rr.stack) > 0 {
				skipPad(rr.stack[len(rr.stack)-1].r)
			}
			continue
		case err != nil:
			return nil, err
		}

		raw, err := formats.ReadFull(top.r, 4, ID, fmt.Sprintf("length of chunk %q", id))
		if err != nil {
			return nil, err
		}
		size := int64(formats.Uint32(raw, 0))

		if _, ok := rr.lists[id]; ok {
			if size < 4 {
				return nil, formats.Errorf(ID, "list of %d bytes has no type", size)
			}
			listType, err := formats.ReadFull(top.r, 4, ID, "list type")
			if err != nil {
				return nil, err
			}
			if _, ok := rr.types[string(listType)]; ok {
				rr.stack = append(rr.stack, &level{
					r:   io.LimitReader(top.r, size-4),
					pad: size%2 == 1,
				})
				continue
			}
			if n, err := io.CopyN(io.Discard, top.r, size-4); err != nil {
				return nil, formats.Errorf(ID, "list %q truncated after %d of %d bytes", listType, n, size-4)
			}
			if size%2 == 1 {
				skipPad(top.r)
			}
			continue
		}

		if size > MaxChunkSize {
			return nil, formats.Errorf(ID, "chunk %q of %d bytes exceeds size limit", id, size)
		}
		data, err := formats.ReadFull(top.r, int(size), ID, fmt.Sprintf("chunk %q", id))
		if err != nil {
			return nil, err
		}
		if size%2 == 1 {
			skipPad(top.r)
		}
		return &Chunk{ID: id, Data: data}, nil
	}

	return nil, io.EOF
}

// skipPad consumes the pad byte after an odd sized chunk. Writers that leave
// it out at the end of a stream are tolerated.
func skipPad(r io.Reader) {
	var pad [1]byte
	_, _ = io.ReadFull(r, pad[:])
}

func readID(r io.Reader) (string, error) {
	var id [4]byte
	_, err := io.ReadFull(r, id[:])
	switch {
	case err == nil:
		return string(id[:]), nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "", formats.Errorf(ID, "truncated chunk id")
	default:
		// io.EOF when the stream ends on a chunk boundary.
		return "", err
	}
}
