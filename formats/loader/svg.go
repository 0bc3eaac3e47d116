package loader

import (
	"fmt"
	"image"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/safing/cursorcreate/cursor"
)

// LoadSVG renders an SVG at every default size. Like LoadImage, a wide
// document is cut into square frames, the number of frames being the integer
// part of its width to height ratio.
func LoadSVG(r io.Reader) (*cursor.Animated, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("svg has no usable view box (%gx%g)", icon.ViewBox.W, icon.ViewBox.H)
	}

	ratio := icon.ViewBox.W / icon.ViewBox.H
	numFrames := int(ratio)
	if numFrames == 0 {
		return nil, ErrNoFrames
	}

	frames := make([]*cursor.Cursor, numFrames)
	for i := range frames {
		frames[i] = cursor.New()
	}
	for _, size := range DefaultSizes {
		img := renderSVG(icon, int(float64(size.H)*ratio), size.H)
		for i, tile := range Tiles(img) {
			if i >= numFrames {
				break
			}
			c, err := cursor.NewIcon(tile, 0, 0)
			if err != nil {
				return nil, err
			}
			frames[i].Add(c)
		}
	}

	a := &cursor.Animated{}
	for _, c := range frames {
		if err := a.Append(c, StaticDelay); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func renderSVG(icon *oksvg.SvgIcon, w, h int) *image.RGBA {
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img
}
