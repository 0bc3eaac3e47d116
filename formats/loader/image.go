package loader

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"

	"golang.org/x/image/draw"

	// Register raster decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/safing/cursorcreate/cursor"
)

var (
	// ErrNotAnImage is returned by LoadImage if no raster decoder accepts the input.
	ErrNotAnImage = errors.New("not a supported raster image")
	// ErrNoFrames is returned if an image is narrower than it is high and
	// would thus produce no frame.
	ErrNoFrames = errors.New("image is narrower than high, which yields no frames")
)

// LoadImage reads a raster image. Animated GIFs yield one frame per GIF frame,
// cropped to a centered square. Other images are cut into horizontal tiles of
// height x height pixels, one frame each. Every frame holds DefaultSizes with
// a hotspot of (0, 0).
func LoadImage(r io.ReadSeeker) (*cursor.Animated, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	_, kind, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		frames []image.Image
		delays []int
	)
	if kind == "gif" {
		frames, delays, err = gifFrames(r)
	} else {
		frames, delays, err = tileFrames(r)
	}
	if err != nil {
		return nil, err
	}

	a := &cursor.Animated{}
	for i, img := range frames {
		c := cursor.New()
		for _, size := range DefaultSizes {
			icon, err := cursor.NewIcon(cursor.Resize(img, size), 0, 0)
			if err != nil {
				return nil, err
			}
			c.Add(icon)
		}
		if err := a.Append(c, delays[i]); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func tileFrames(r io.Reader) ([]image.Image, []int, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}
	tiles := Tiles(img)
	if len(tiles) == 0 {
		return nil, nil, ErrNoFrames
	}
	delays := make([]int, len(tiles))
	for i := range delays {
		delays[i] = StaticDelay
	}
	return tiles, delays, nil
}

// Tiles cuts img into horizontal square tiles with the height of the image.
// A trailing partial tile is dropped.
func Tiles(img image.Image) []image.Image {
	b := img.Bounds()
	h := b.Dy()
	if h == 0 {
		return nil
	}
	tiles := make([]image.Image, 0, b.Dx()/h)
	for i := 0; i < b.Dx()/h; i++ {
		rect := image.Rect(b.Min.X+i*h, b.Min.Y, b.Min.X+(i+1)*h, b.Max.Y)
		tiles = append(tiles, crop(img, rect))
	}
	return tiles
}

func gifFrames(r io.Reader) ([]image.Image, []int, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}
	return composeGIF(g)
}

// composeGIF renders every frame of g onto the logical screen, honouring the
// disposal methods, and crops the centered square of each result.
func composeGIF(g *gif.GIF) ([]image.Image, []int, error) {
	if len(g.Image) == 0 {
		return nil, nil, ErrNoFrames
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	square := squareCenter(bounds)

	canvas := image.NewNRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]int, 0, len(g.Image))
	for i, frame := range g.Image {
		var previous *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = crop(canvas, frame.Bounds())
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, crop(canvas, square))

		// GIF delays are in 1/100 s, zero means "as fast as possible".
		delay := StaticDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i] * 10
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			// previous starts at the origin.
			draw.Draw(canvas, frame.Bounds(), previous, image.Point{}, draw.Src)
		}
	}
	return frames, delays, nil
}

// squareCenter returns the largest square centered in r.
func squareCenter(r image.Rectangle) image.Rectangle {
	dim := r.Dx()
	if r.Dy() < dim {
		dim = r.Dy()
	}
	x := r.Min.X + (r.Dx()-dim)/2
	y := r.Min.Y + (r.Dy()-dim)/2
	return image.Rect(x, y, x+dim, y+dim)
}

// crop copies the rect part of img into a new image at the origin.
func crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}
