// Package cur implements the Windows CUR format and reads ICO files as
// cursors with a (0, 0) hotspot.
//
// Writing always produces 32-bit BMP payloads instead of PNG, because the ANI
// loader of Windows does not reliably accept PNG payloads.
package cur

import (
	"bytes"
	"fmt"
	"image"
	"io"

	ico "github.com/sergeymakinen/go-ico"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
)

// ID is the format identifier.
const ID = "cur"

const (
	headerSize = 6
	entrySize  = 16

	// MaxSize is the largest width and height a directory entry can describe.
	MaxSize = 256
)

var (
	// Magic is the CUR file signature.
	Magic = []byte{0, 0, 2, 0}
	// IcoMagic is the ICO file signature.
	IcoMagic = []byte{0, 0, 1, 0}

	pngMagic = []byte("\x89PNG\r\n\x1a\n")
)

// Format is the CUR codec.
var Format formats.StaticFormat = curFormat{}

type curFormat struct{}

func (curFormat) ID() string {
	return ID
}

func (curFormat) Detect(header []byte) bool {
	return len(header) >= 4 &&
		(bytes.Equal(header[:4], Magic) || bytes.Equal(header[:4], IcoMagic))
}

func (f curFormat) Decode(r io.ReadSeeker) (*cursor.Cursor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (curFormat) Encode(c *cursor.Cursor, w io.Writer) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type entry struct {
	width  int
	height int
	hotX   int
	hotY   int
	length uint32
	offset uint32
}

// Parse decodes a CUR or ICO file held in data.
func Parse(data []byte) (*cursor.Cursor, error) {
	if len(data) < headerSize || !Format.Detect(data) {
		return nil, formats.Errorf(ID, "not a cur or ico file")
	}
	isIco := bytes.Equal(data[:4], IcoMagic)

	count := int(formats.Uint16(data, 4))
	if len(data) < headerSize+count*entrySize {
		return nil, formats.Errorf(ID, "directory of %d entries exceeds file size %d", count, len(data))
	}

	c := cursor.New()
	for i := 0; i < count; i++ {
		raw := data[headerSize+i*entrySize:]
		e := entry{
			width:  dimension(raw[0]),
			height: dimension(raw[1]),
			length: formats.Uint32(raw, 8),
			offset: formats.Uint32(raw, 12),
		}
		// ICO stores planes and bit count where CUR stores the hotspot.
		if !isIco {
			e.hotX = int(formats.Uint16(raw, 4))
			e.hotY = int(formats.Uint16(raw, 6))
		}

		end := uint64(e.offset) + uint64(e.length)
		if e.length == 0 || end > uint64(len(data)) {
			return nil, formats.Errorf(ID, "entry %d points outside of the file (offset %d, length %d)", i, e.offset, e.length)
		}

		img, err := decodePayload(data[e.offset:end], e.width, e.height)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		size := cursor.Sz(img.Bounds().Dx(), img.Bounds().Dy())
		hotX, hotY := cursor.ClampHotspot(size, e.hotX, e.hotY)
		icon, err := cursor.NewIcon(img, hotX, hotY)
		if err != nil {
			return nil, formats.Errorf(ID, "entry %d: %s", i, err)
		}
		c.Add(icon)
	}

	return c, nil
}

// ParseDIB decodes a bare device independent bitmap with a doubled height, as
// embedded in ANI files that do not use CUR payloads.
func ParseDIB(data []byte) (*cursor.Cursor, error) {
	if len(data) < bmpHeaderSize {
		return nil, formats.Errorf(ID, "bitmap header truncated")
	}
	width := int(int32(formats.Uint32(data, 4)))
	height := int(int32(formats.Uint32(data, 8))) / 2
	if height < 0 {
		height = -height
	}
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return nil, formats.Errorf(ID, "unsupported bitmap size %dx%d", width, height)
	}

	img, err := decodePayload(data, width, height)
	if err != nil {
		return nil, err
	}
	icon, err := cursor.NewIcon(img, 0, 0)
	if err != nil {
		return nil, formats.Errorf(ID, "%s", err)
	}
	return cursor.New(icon), nil
}

// decodePayload frames a single PNG or BMP payload as a one entry ICO file and
// hands it to the ICO decoder.
func decodePayload(payload []byte, width, height int) (image.Image, error) {
	planes, bits := uint16(1), uint16(32)
	if !bytes.HasPrefix(payload, pngMagic) && len(payload) >= bmpHeaderSize {
		planes = formats.Uint16(payload, 12)
		bits = formats.Uint16(payload, 14)
	}

	buf := make([]byte, headerSize+entrySize, headerSize+entrySize+len(payload))
	copy(buf, IcoMagic)
	formats.PutUint16(buf, 4, 1)
	buf[6] = dimensionByte(width)
	buf[7] = dimensionByte(height)
	formats.PutUint16(buf, 10, planes)
	formats.PutUint16(buf, 12, bits)
	formats.PutUint32(buf, 14, uint32(len(payload)))
	formats.PutUint32(buf, 18, headerSize+entrySize)
	buf = append(buf, payload...)

	img, err := ico.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, formats.Errorf(ID, "failed to decode image payload: %s", err)
	}
	if img.Bounds().Empty() {
		return nil, formats.Errorf(ID, "image payload is empty")
	}
	return img, nil
}

// dimension reads a directory width or height, where 0 means 256.
func dimension(b byte) int {
	if b == 0 {
		return MaxSize
	}
	return int(b)
}

func dimensionByte(n int) byte {
	if n >= MaxSize {
		return 0
	}
	return byte(n)
}
