// Package xcur implements the X11 Xcursor format used by Linux cursor
// themes.
//
// An Xcursor file is a table of contents pointing to image chunks keyed by a
// nominal size. Each image chunk carries its own delay; animations are formed
// by the order of chunks sharing a nominal size.
package xcur

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
)

// ID is the format identifier.
const ID = "xcur"

// Magic is the Xcursor file signature.
const Magic = "Xcur"

const (
	fileVersion    = 0x10000
	fileHeaderSize = 16
	tocEntrySize   = 12

	imageType         = 0xfffd0002
	imageHeaderSize   = 36
	imageVersion      = 1
	maxImageDimension = 0x7fff

	// nominalScale converts a pixel size into the nominal size.
	nominalScale = 0.75
)

// Format is the Xcursor codec.
var Format formats.AnimatedFormat = xcurFormat{}

type xcurFormat struct{}

func (xcurFormat) ID() string {
	return ID
}

func (xcurFormat) Detect(header []byte) bool {
	return len(header) >= 4 && string(header[:4]) == Magic
}

// NominalSize returns the nominal size written for a pixel size.
func NominalSize(pixels int) int {
	return int(math.Round(float64(pixels) * nominalScale))
}

type sizeGroup struct {
	nominal uint32
	offsets []uint32
}

func (f xcurFormat) Decode(r io.ReadSeeker) (*cursor.Animated, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) < fileHeaderSize || !f.Detect(data) {
		return nil, formats.Errorf(ID, "not an xcursor file")
	}
	if size := formats.Uint32(data, 4); size != fileHeaderSize {
		return nil, formats.Errorf(ID, "header size is %d, want %d", size, fileHeaderSize)
	}
	ntoc := uint64(formats.Uint32(data, 12))
	if fileHeaderSize+ntoc*tocEntrySize > uint64(len(data)) {
		return nil, formats.Errorf(ID, "table of %d entries exceeds file size %d", ntoc, len(data))
	}

	// Group image entries by nominal size, keeping the order of first appearance.
	var groups []*sizeGroup
	index := make(map[uint32]*sizeGroup)
	for i := 0; i < int(ntoc); i++ {
		entry := data[fileHeaderSize+i*tocEntrySize:]
		if formats.Uint32(entry, 0) != imageType {
			continue
		}
		nominal := formats.Uint32(entry, 4)
		g, ok := index[nominal]
		if !ok {
			g = &sizeGroup{nominal: nominal}
			index[nominal] = g
			groups = append(groups, g)
		}
		g.offsets = append(g.offsets, formats.Uint32(entry, 8))
	}
	if len(groups) == 0 {
		return nil, formats.Errorf(ID, "file contains no images")
	}

	var frames int
	for _, g := range groups {
		if len(g.offsets) > frames {
			frames = len(g.offsets)
		}
	}

	a := &cursor.Animated{}
	for i := 0; i < frames; i++ {
		c := cursor.New()
		delay := 0
		for _, g := range groups {
			if i >= len(g.offsets) {
				continue
			}
			icon, d, err := readImage(data, g.offsets[i], g.nominal)
			if err != nil {
				return nil, err
			}
			c.Add(icon)
			if d > delay {
				delay = d
			}
		}
		if err := a.Append(c, delay); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func readImage(data []byte, offset, nominal uint32) (*cursor.Icon, int, error) {
	if uint64(offset)+imageHeaderSize > uint64(len(data)) {
		return nil, 0, formats.Errorf(ID, "image chunk at %d is outside of the file", offset)
	}
	chunk := data[offset:]

	switch {
	case formats.Uint32(chunk, 0) != imageHeaderSize:
		return nil, 0, formats.Errorf(ID, "image chunk at %d: header size must be %d", offset, imageHeaderSize)
	case formats.Uint32(chunk, 4) != imageType:
		return nil, 0, formats.Errorf(ID, "image chunk at %d: type does not match table of contents", offset)
	case formats.Uint32(chunk, 8) != nominal:
		return nil, 0, formats.Errorf(ID, "image chunk at %d: nominal size does not match table of contents", offset)
	case formats.Uint32(chunk, 12) != imageVersion:
		return nil, 0, formats.Errorf(ID, "image chunk at %d: unsupported version %d", offset, formats.Uint32(chunk, 12))
	}

	width := formats.Uint32(chunk, 16)
	height := formats.Uint32(chunk, 20)
	hotX := formats.Uint32(chunk, 24)
	hotY := formats.Uint32(chunk, 28)
	delay := formats.Uint32(chunk, 32)

	if width == 0 || height == 0 || width > maxImageDimension || height > maxImageDimension {
		return nil, 0, formats.Errorf(ID, "image chunk at %d: invalid size %dx%d", offset, width, height)
	}
	pixels := uint64(width) * uint64(height) * 4
	if imageHeaderSize+pixels > uint64(len(chunk)) {
		return nil, 0, formats.Errorf(ID, "image chunk at %d: pixel data truncated", offset)
	}

	w, h := int(width), int(height)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := chunk[imageHeaderSize : imageHeaderSize+pixels]
	for i := 0; i < len(src); i += 4 {
		img.Pix[i+0] = src[i+2]
		img.Pix[i+1] = src[i+1]
		img.Pix[i+2] = src[i+0]
		img.Pix[i+3] = src[i+3]
	}

	x, y := cursor.ClampHotspot(cursor.Sz(w, h), clampInt(hotX), clampInt(hotY))
	icon, err := cursor.NewIcon(img, x, y)
	if err != nil {
		return nil, 0, err
	}
	return icon, clampInt(delay), nil
}

// clampInt converts v to int, saturating at math.MaxInt32. Hotspots that
// large are reset by ClampHotspot, delays keep the largest value.
func clampInt(v uint32) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func (xcurFormat) Encode(a *cursor.Animated, w io.Writer) error {
	a = a.Copy()
	if err := a.Normalize(); err != nil {
		return err
	}
	if a.Len() == 0 {
		return nil
	}

	frames := a.Frames()
	sizes := frames[0].Cursor.Sizes()
	for _, size := range sizes {
		if size.W > maxImageDimension || size.H > maxImageDimension {
			return cursor.Invalid("size", "%s exceeds the xcursor limit of %d pixels", size, maxImageDimension)
		}
	}

	count := len(sizes) * len(frames)
	header := make([]byte, fileHeaderSize+count*tocEntrySize)
	copy(header, Magic)
	formats.PutUint32(header, 4, fileHeaderSize)
	formats.PutUint32(header, 8, fileVersion)
	formats.PutUint32(header, 12, uint32(count))

	offset := len(header)
	entry := header[fileHeaderSize:]
	for _, size := range sizes {
		for range frames {
			formats.PutUint32(entry, 0, imageType)
			formats.PutUint32(entry, 4, uint32(NominalSize(size.W)))
			formats.PutUint32(entry, 8, uint32(offset))
			entry = entry[tocEntrySize:]
			offset += imageHeaderSize + size.Area()*4
		}
	}

	out := bytes.NewBuffer(make([]byte, 0, offset))
	out.Write(header)
	for _, size := range sizes {
		for _, frame := range frames {
			writeImage(out, frame.Cursor.Get(size), frame.Delay)
		}
	}

	_, err := w.Write(out.Bytes())
	return err
}

func writeImage(out *bytes.Buffer, icon *cursor.Icon, delay int) {
	size := icon.Size()
	hotX, hotY := icon.Hotspot()
	hotX, hotY = cursor.ClampHotspot(size, hotX, hotY)

	header := make([]byte, imageHeaderSize)
	formats.PutUint32(header, 0, imageHeaderSize)
	formats.PutUint32(header, 4, imageType)
	formats.PutUint32(header, 8, uint32(NominalSize(size.W)))
	formats.PutUint32(header, 12, imageVersion)
	formats.PutUint32(header, 16, uint32(size.W))
	formats.PutUint32(header, 20, uint32(size.H))
	formats.PutUint32(header, 24, uint32(hotX))
	formats.PutUint32(header, 28, uint32(hotY))
	formats.PutUint32(header, 32, uint32(delay))
	out.Write(header)

	img := icon.Image()
	pixels := make([]byte, size.Area()*4)
	for y := 0; y < size.H; y++ {
		row := img.Pix[img.PixOffset(0, y):]
		dst := pixels[y*size.W*4:]
		for x := 0; x < size.W*4; x += 4 {
			dst[x+0] = row[x+2]
			dst[x+1] = row[x+1]
			dst[x+2] = row[x+0]
			dst[x+3] = row[x+3]
		}
	}
	out.Write(pixels)
}
