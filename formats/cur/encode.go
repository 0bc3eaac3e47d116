package cur

import (
	"bytes"
	"image"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
)

const (
	bmpHeaderSize = 40
	// 96 DPI in pixels per meter.
	bmpPixelsPerMeter = 3780
)

// Marshal encodes c as a CUR file. Icons are written sorted by size; icons
// wider or taller than 256 pixels cannot be described and are skipped.
func Marshal(c *cursor.Cursor) ([]byte, error) {
	icons := make([]*cursor.Icon, 0, c.Len())
	for _, size := range c.Sizes() {
		if size.W > MaxSize || size.H > MaxSize {
			continue
		}
		icons = append(icons, c.Get(size))
	}

	header := make([]byte, headerSize+len(icons)*entrySize)
	copy(header, Magic)
	formats.PutUint16(header, 4, uint16(len(icons)))

	out := bytes.NewBuffer(header)
	offset := len(header)
	for i, icon := range icons {
		size := icon.Size()
		hotX, hotY := icon.Hotspot()
		hotX, hotY = cursor.ClampHotspot(size, hotX, hotY)
		payload := EncodeBitmap(icon.Image())

		e := header[headerSize+i*entrySize:]
		e[0] = dimensionByte(size.W)
		e[1] = dimensionByte(size.H)
		formats.PutUint16(e, 4, uint16(hotX))
		formats.PutUint16(e, 6, uint16(hotY))
		formats.PutUint32(e, 8, uint32(len(payload)))
		formats.PutUint32(e, 12, uint32(offset))

		out.Write(payload)
		offset += len(payload)
	}

	return out.Bytes(), nil
}

// EncodeBitmap returns img as an ICO style device independent bitmap: a
// BITMAPINFOHEADER with doubled height, bottom-up BGRA rows and a bottom-up
// 1-bpp transparency mask, zero filled to the color data size.
func EncodeBitmap(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	colorSize := w * h * 4

	buf := make([]byte, bmpHeaderSize+2*colorSize)
	formats.PutUint32(buf, 0, bmpHeaderSize)
	formats.PutUint32(buf, 4, uint32(int32(w)))
	formats.PutUint32(buf, 8, uint32(int32(h*2)))
	formats.PutUint16(buf, 12, 1)  // planes
	formats.PutUint16(buf, 14, 32) // bits per pixel
	formats.PutUint32(buf, 16, 0)  // BI_RGB
	formats.PutUint32(buf, 20, uint32(2*colorSize))
	formats.PutUint32(buf, 24, bmpPixelsPerMeter)
	formats.PutUint32(buf, 28, bmpPixelsPerMeter)

	pixels := buf[bmpHeaderSize : bmpHeaderSize+colorSize]
	mask := buf[bmpHeaderSize+colorSize:]
	maskStride := (w + 31) / 32 * 4

	for row := 0; row < h; row++ {
		y := b.Min.Y + h - 1 - row
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := pixels[row*w*4:]
		maskRow := mask[row*maskStride:]
		for x := 0; x < w; x++ {
			p := src[x*4 : x*4+4]
			dst[x*4+0] = p[2]
			dst[x*4+1] = p[1]
			dst[x*4+2] = p[0]
			dst[x*4+3] = p[3]
			if p[3] == 0 {
				maskRow[x/8] |= 0x80 >> (x % 8)
			}
		}
	}

	return buf
}
