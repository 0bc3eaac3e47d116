// Package ani implements the Windows animated cursor format: a RIFF "ACON"
// file holding CUR encoded frames, an optional play sequence and per step
// rates in jiffies (1/60 s).
package ani

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
	"github.com/safing/cursorcreate/formats/cur"
	"github.com/safing/cursorcreate/formats/riff"
)

// ID is the format identifier.
const ID = "ani"

// Form is the RIFF form type of ANI files.
const Form = "ACON"

// Chunk ids.
const (
	chunkHeader   = "anih"
	chunkIcon     = "icon"
	chunkRate     = "rate"
	chunkSequence = "seq "
	listFrames    = "fram"
)

// Header flags.
const (
	FlagIcon     = 1 << 0
	FlagSequence = 1 << 1
)

const (
	headerSize = 36

	// defaultDisplayRate is the rate written to the header, in jiffies.
	defaultDisplayRate = 10

	maxSteps = 1 << 16
)

// Format is the ANI codec.
var Format formats.AnimatedFormat = aniFormat{}

type aniFormat struct{}

func (aniFormat) ID() string {
	return ID
}

func (aniFormat) Detect(header []byte) bool {
	return len(header) >= 12 &&
		string(header[:4]) == riff.RIFF &&
		string(header[8:12]) == Form
}

// Header is the content of the "anih" chunk.
type Header struct {
	Frames      int
	Steps       int
	Width       int
	Height      int
	BitCount    int
	Planes      int
	DisplayRate int
	Flags       uint32
}

func parseHeader(data []byte) (*Header, error) {
	if len(data) == headerSize {
		data = data[4:]
	}
	if len(data) != headerSize-4 {
		return nil, formats.Errorf(ID, "header chunk has invalid length %d", len(data))
	}

	h := &Header{
		Frames:      int(formats.Uint32(data, 0)),
		Steps:       int(formats.Uint32(data, 4)),
		Width:       int(formats.Uint32(data, 8)),
		Height:      int(formats.Uint32(data, 12)),
		BitCount:    int(formats.Uint32(data, 16)),
		Planes:      int(formats.Uint32(data, 20)),
		DisplayRate: int(formats.Uint32(data, 24)),
		Flags:       formats.Uint32(data, 28),
	}
	switch {
	case h.Frames <= 0:
		return nil, formats.Errorf(ID, "header declares no frames")
	case h.Steps < 0 || h.Steps > maxSteps:
		return nil, formats.Errorf(ID, "header declares %d steps", h.Steps)
	}
	return h, nil
}

func (h *Header) marshal() []byte {
	data := make([]byte, headerSize)
	formats.PutUint32(data, 0, headerSize)
	formats.PutUint32(data, 4, uint32(h.Frames))
	formats.PutUint32(data, 8, uint32(h.Steps))
	formats.PutUint32(data, 12, uint32(h.Width))
	formats.PutUint32(data, 16, uint32(h.Height))
	formats.PutUint32(data, 20, uint32(h.BitCount))
	formats.PutUint32(data, 24, uint32(h.Planes))
	formats.PutUint32(data, 28, uint32(h.DisplayRate))
	formats.PutUint32(data, 32, h.Flags)
	return data
}

type decodeState struct {
	header   *Header
	icons    []*cursor.Cursor
	sequence []int
	rates    []int
}

func (aniFormat) Decode(r io.ReadSeeker) (*cursor.Animated, error) {
	form, err := riff.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if form != Form {
		return nil, formats.Errorf(ID, "unexpected form type %q", form)
	}

	state := &decodeState{}
	chunks := riff.NewReader(r, []string{riff.LIST}, []string{listFrames})
	for {
		c, err := chunks.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := state.handle(c); err != nil {
			return nil, err
		}
	}

	if state.header == nil {
		return nil, formats.Errorf(ID, "missing %q chunk", chunkHeader)
	}
	return state.build()
}

func (s *decodeState) handle(c *riff.Chunk) error {
	switch c.ID {
	case chunkHeader, chunkIcon, chunkSequence, chunkRate:
	default:
		// Other chunks, such as stray INFO strings, are ignored. INFO lists
		// never get here, the reader skips lists other than "fram".
		return nil
	}

	if c.ID == chunkHeader {
		if s.header != nil {
			return formats.Errorf(ID, "duplicate %q chunk", chunkHeader)
		}
		h, err := parseHeader(c.Data)
		if err != nil {
			return err
		}
		s.header = h
		s.sequence = make([]int, h.Steps)
		s.rates = make([]int, h.Steps)
		for i := range s.sequence {
			s.sequence[i] = i % h.Frames
			s.rates[i] = h.DisplayRate
		}
		return nil
	}

	if s.header == nil {
		return formats.Errorf(ID, "%q chunk before header", c.ID)
	}

	switch c.ID {
	case chunkIcon:
		var (
			icon *cursor.Cursor
			err  error
		)
		if s.header.Flags&FlagIcon != 0 {
			icon, err = cur.Parse(c.Data)
		} else {
			icon, err = cur.ParseDIB(c.Data)
		}
		if err != nil {
			return fmt.Errorf("%s: frame %d: %w", ID, len(s.icons), err)
		}
		s.icons = append(s.icons, icon)

	case chunkSequence:
		values, err := s.steps(c)
		if err != nil {
			return err
		}
		s.sequence = values

	case chunkRate:
		values, err := s.steps(c)
		if err != nil {
			return err
		}
		s.rates = values
	}
	return nil
}

// steps parses a chunk holding one uint32 per animation step.
func (s *decodeState) steps(c *riff.Chunk) ([]int, error) {
	if len(c.Data) != 4*s.header.Steps {
		return nil, formats.Errorf(ID, "%q chunk has %d bytes, want %d for %d steps",
			c.ID, len(c.Data), 4*s.header.Steps, s.header.Steps)
	}
	values := make([]int, s.header.Steps)
	for i := range values {
		values[i] = int(formats.Uint32(c.Data, 4*i))
	}
	return values, nil
}

func (s *decodeState) build() (*cursor.Animated, error) {
	used := make([]bool, len(s.icons))

	a := &cursor.Animated{}
	for step, idx := range s.sequence {
		if idx < 0 || idx >= len(s.icons) {
			return nil, formats.Errorf(ID, "step %d references frame %d of %d", step, idx, len(s.icons))
		}

		c := s.icons[idx]
		if used[idx] {
			c = c.Copy()
		}
		used[idx] = true

		if err := a.Append(c, jiffiesToMillis(s.rates[step])); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (aniFormat) Encode(a *cursor.Animated, w io.Writer) error {
	if a.Len() == 0 {
		return cursor.Invalid("frames", "cannot encode an animated cursor without frames")
	}

	header := &Header{
		Frames:      a.Len(),
		Steps:       a.Len(),
		Planes:      1,
		DisplayRate: defaultDisplayRate,
		Flags:       FlagIcon,
	}

	icons := make([]riff.Chunk, 0, a.Len())
	rates := make([]byte, 4*a.Len())
	for i, frame := range a.Frames() {
		data, err := cur.Marshal(frame.Cursor)
		if err != nil {
			return fmt.Errorf("%s: frame %d: %w", ID, i, err)
		}
		icons = append(icons, riff.Chunk{ID: chunkIcon, Data: data})
		formats.PutUint32(rates, 4*i, uint32(millisToJiffies(frame.Delay)))
	}

	ws, seekable := w.(io.WriteSeeker)
	buf := &riff.Buffer{}
	if !seekable {
		ws = buf
	}

	rw, err := riff.NewWriter(ws, Form)
	if err != nil {
		return err
	}
	if err := rw.WriteChunk(chunkHeader, header.marshal()); err != nil {
		return err
	}
	if err := rw.WriteList(listFrames, icons...); err != nil {
		return err
	}
	if err := rw.WriteChunk(chunkRate, rates); err != nil {
		return err
	}
	if err := rw.Close(); err != nil {
		return err
	}

	if !seekable {
		_, err = io.Copy(w, bytes.NewReader(buf.Bytes()))
	}
	return err
}

func jiffiesToMillis(jiffies int) int {
	return int(math.Round(float64(jiffies) * 1000 / 60))
}

func millisToJiffies(millis int) int {
	return int(math.Round(float64(millis) * 60 / 1000))
}
