package cursor

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Size is a width and height in pixels.
type Size struct {
	W int
	H int
}

// Sz is a shorthand for Size{w, h}.
func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

// Square returns a square size.
func Square(n int) Size {
	return Size{W: n, H: n}
}

// Area returns the number of pixels.
func (s Size) Area() int {
	return s.W * s.H
}

// IsSquare returns whether width and height are equal.
func (s Size) IsSquare() bool {
	return s.W == s.H
}

// Less orders sizes by width, then height.
func (s Size) Less(o Size) bool {
	if s.W != o.W {
		return s.W < o.W
	}
	return s.H < o.H
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Icon is a single bitmap of a cursor at one size, plus the hotspot. The
// bitmap must not be modified after construction; the hotspot may change.
type Icon struct {
	img  *image.NRGBA
	hotX int
	hotY int
}

// NewIcon creates an icon from img with the given hotspot. The image is
// copied into non-premultiplied RGBA with its origin at (0, 0), so later
// changes to img do not affect the icon.
func NewIcon(img image.Image, hotX, hotY int) (*Icon, error) {
	icon := &Icon{img: toNRGBA(img)}
	if err := icon.SetHotspot(hotX, hotY); err != nil {
		return nil, err
	}
	return icon, nil
}

// Image returns the bitmap. Callers must treat it as read-only.
func (i *Icon) Image() *image.NRGBA {
	return i.img
}

// Size returns the size of the bitmap.
func (i *Icon) Size() Size {
	b := i.img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// Hotspot returns the hotspot coordinates.
func (i *Icon) Hotspot() (x, y int) {
	return i.hotX, i.hotY
}

// SetHotspot sets the hotspot. It must lie within [0, width) x [0, height).
func (i *Icon) SetHotspot(x, y int) error {
	size := i.Size()
	if x < 0 || x >= size.W || y < 0 || y >= size.H {
		return Invalid("hotspot", "(%d, %d) is outside of icon of size %s", x, y, size)
	}
	i.hotX, i.hotY = x, y
	return nil
}

// clone returns an icon sharing the bitmap with an independent hotspot.
func (i *Icon) clone() *Icon {
	return &Icon{
		img:  i.img,
		hotX: i.hotX,
		hotY: i.hotY,
	}
}

// ClampHotspot returns x and y, each reset to 0 if out of range for size.
// Decoders use it to accept slightly broken files.
func ClampHotspot(size Size, x, y int) (int, int) {
	if x < 0 || x >= size.W {
		x = 0
	}
	if y < 0 || y >= size.H {
		y = 0
	}
	return x, y
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:(y+1)*out.Stride], nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
