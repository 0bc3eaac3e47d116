package cursor

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// scaleIcon letterboxes src into size. The image is fit into size keeping its
// aspect ratio, centered, and the hotspot is scaled along.
func scaleIcon(src *Icon, size Size) *Icon {
	from := src.Size()
	xRatio := float64(size.W) / float64(from.W)
	yRatio := float64(size.H) / float64(from.H)

	var fitW, fitH, offX, offY float64
	if xRatio <= yRatio {
		fitW = float64(size.W)
		fitH = float64(from.H) / float64(from.W) * fitW
		offY = (float64(size.H) - fitH) / 2
	} else {
		fitH = float64(size.H)
		fitW = float64(from.W) / float64(from.H) * fitH
		offX = (float64(size.W) - fitW) / 2
	}

	hotX, hotY := src.Hotspot()
	newHotX := int(offX + float64(hotX)/float64(from.W)*fitW)
	newHotY := int(offY + float64(hotY)/float64(from.H)*fitH)
	newHotX, newHotY = ClampHotspot(size, newHotX, newHotY)

	return &Icon{
		img:  Pad(src.Image(), size),
		hotX: newHotX,
		hotY: newHotY,
	}
}

// Pad resizes img with Lanczos resampling so that it fits into size keeping
// its aspect ratio, and centers it on a transparent canvas of exactly size.
func Pad(img image.Image, size Size) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	fitW, fitH := size.W, size.H
	srcRatio := float64(w) / float64(h)
	dstRatio := float64(size.W) / float64(size.H)
	switch {
	case srcRatio > dstRatio:
		fitH = clampDim(int(math.Round(float64(h) / float64(w) * float64(size.W))))
	case srcRatio < dstRatio:
		fitW = clampDim(int(math.Round(float64(w) / float64(h) * float64(size.H))))
	}

	scaled := Resize(img, Size{W: fitW, H: fitH})
	if fitW == size.W && fitH == size.H {
		return scaled
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, size.W, size.H))
	x := int(math.Round(float64(size.W-fitW) / 2))
	y := int(math.Round(float64(size.H-fitH) / 2))
	draw.Draw(canvas, image.Rect(x, y, x+fitW, y+fitH), scaled, image.Point{}, draw.Src)
	return canvas
}

// Resize scales img to exactly size with Lanczos resampling.
func Resize(img image.Image, size Size) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size.W && b.Dy() == size.H {
		return toNRGBA(img)
	}
	return toNRGBA(resize.Resize(uint(size.W), uint(size.H), img, resize.Lanczos3))
}

func clampDim(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
