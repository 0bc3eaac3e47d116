package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
	"github.com/safing/cursorcreate/formats/ani"
	"github.com/safing/cursorcreate/formats/cur"
	"github.com/safing/cursorcreate/formats/xcur"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func testCursor(t *testing.T, size, hot int) *cursor.Cursor {
	t.Helper()
	icon, err := cursor.NewIcon(solid(size, size, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), hot, hot)
	require.NoError(t, err)
	return cursor.New(icon)
}

func assertDefaultSizes(t *testing.T, a *cursor.Animated) {
	t.Helper()
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, DefaultSizes, a.Frame(i).Cursor.Sizes(), "frame %d", i)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"ani", ".ANI", "xcur", "cur"} {
		f, err := Lookup(id)
		require.NoError(t, err, id)
		assert.NotNil(t, f)
	}
	_, err := Lookup("png")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, []string{"ani", "xcur", "cur"}, IDs())
}

func TestLoadStaticCursor(t *testing.T) {
	t.Parallel()

	data, err := cur.Marshal(testCursor(t, 32, 4))
	require.NoError(t, err)

	a, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())
	assert.Equal(t, StaticDelay, a.Frame(0).Delay)
	assertDefaultSizes(t, a)

	x, y := a.Frame(0).Cursor.Get(cursor.Square(32)).Hotspot()
	assert.Equal(t, 4, x)
	assert.Equal(t, 4, y)
}

func TestLoadAnimatedCursors(t *testing.T) {
	t.Parallel()

	a, err := cursor.NewAnimated(
		cursor.Frame{Cursor: testCursor(t, 32, 0), Delay: 50},
		cursor.Frame{Cursor: testCursor(t, 32, 0), Delay: 200},
	)
	require.NoError(t, err)

	for _, f := range []formats.AnimatedFormat{ani.Format, xcur.Format} {
		var buf bytes.Buffer
		require.NoError(t, f.Encode(a, &buf), f.ID())

		got, err := Load(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err, f.ID())
		require.Equal(t, 2, got.Len(), f.ID())
		assert.InDelta(t, 200, got.Frame(1).Delay, 17, f.ID())
		assertDefaultSizes(t, got)
	}
}

func TestDecodeKeepsSizes(t *testing.T) {
	t.Parallel()

	data, err := cur.Marshal(testCursor(t, 24, 0))
	require.NoError(t, err)

	a, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []cursor.Size{cursor.Square(24)}, a.Frame(0).Cursor.Sizes())
}

func TestDecodeMalformedCursor(t *testing.T) {
	t.Parallel()

	// Matches the ANI magic, but has no header chunk.
	_, err := Decode(bytes.NewReader([]byte("RIFF\x04\x00\x00\x00ACON")))
	assert.True(t, formats.IsFormatError(err))

	_, err = Decode(bytes.NewReader([]byte("plain text")))
	assert.True(t, formats.IsFormatError(err))
}

func TestLoadImageTiles(t *testing.T) {
	t.Parallel()

	strip := image.NewNRGBA(image.Rect(0, 0, 70, 20))
	copy(strip.Pix, solid(70, 20, color.NRGBA{R: 255, A: 255}).Pix)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, strip))

	a, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []int{100, 100, 100}, a.Delays())
	assertDefaultSizes(t, a)

	x, y := a.Frame(2).Cursor.Get(cursor.Square(64)).Hotspot()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	var tall bytes.Buffer
	require.NoError(t, png.Encode(&tall, solid(10, 20, color.NRGBA{A: 255})))
	_, err = Load(bytes.NewReader(tall.Bytes()))
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestLoadGIF(t *testing.T) {
	t.Parallel()

	g := &gif.GIF{}
	for i, c := range []color.Color{color.White, color.Black} {
		frame := image.NewPaletted(image.Rect(0, 0, 30, 20), palette.Plan9)
		for j := range frame.Pix {
			frame.Pix[j] = uint8(frame.Palette.Index(c))
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, []int{0, 15}[i])
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	a, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []int{100, 150}, a.Delays())
	assertDefaultSizes(t, a)

	first := a.Frame(0).Cursor.Get(cursor.Square(32)).Image().NRGBAAt(16, 16)
	second := a.Frame(1).Cursor.Get(cursor.Square(32)).Image().NRGBAAt(16, 16)
	assert.Equal(t, uint8(255), first.R)
	assert.Equal(t, uint8(0), second.R)
}

func TestComposeGIFRestoresPrevious(t *testing.T) {
	t.Parallel()

	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	pal := color.Palette{color.NRGBA{}, red, green, blue}

	fill := func(rect image.Rectangle, index func(x, y int) uint8) *image.Paletted {
		img := image.NewPaletted(rect, pal)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				img.SetColorIndex(x, y, index(x, y))
			}
		}
		return img
	}

	// No logical screen, so the canvas takes the bounds of the first
	// frame, which does not start at the origin.
	g := &gif.GIF{
		Image: []*image.Paletted{
			fill(image.Rect(2, 2, 6, 6), func(x, _ int) uint8 {
				if x < 4 {
					return 1
				}
				return 2
			}),
			fill(image.Rect(3, 3, 5, 5), func(_, _ int) uint8 { return 3 }),
			fill(image.Rect(2, 2, 3, 3), func(_, _ int) uint8 { return 0 }),
		},
		Delay:    []int{0, 0, 0},
		Disposal: []byte{gif.DisposalNone, gif.DisposalPrevious, gif.DisposalNone},
	}

	frames, delays, err := composeGIF(g)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, []int{StaticDelay, StaticDelay, StaticDelay}, delays)

	at := func(i, x, y int) color.NRGBA {
		return frames[i].(*image.NRGBA).NRGBAAt(x, y)
	}
	assert.Equal(t, red, at(0, 1, 1))
	assert.Equal(t, green, at(0, 2, 1))
	assert.Equal(t, blue, at(1, 1, 1))
	assert.Equal(t, blue, at(1, 2, 2))
	assert.Equal(t, red, at(2, 1, 1))
	assert.Equal(t, green, at(2, 2, 1))
	assert.Equal(t, green, at(2, 2, 2))

	_, _, err = composeGIF(&gif.GIF{})
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestLoadSVG(t *testing.T) {
	t.Parallel()

	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
<rect x="10" y="0" width="10" height="10" fill="#0000ff"/>
</svg>`

	a, err := Load(bytes.NewReader([]byte(doc)))
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())
	assertDefaultSizes(t, a)

	first := a.Frame(0).Cursor.Get(cursor.Square(64)).Image().NRGBAAt(32, 32)
	second := a.Frame(1).Cursor.Get(cursor.Square(64)).Image().NRGBAAt(32, 32)
	assert.Greater(t, first.R, first.B)
	assert.Greater(t, second.B, second.R)
}

func TestLoadUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Load(bytes.NewReader([]byte("\x01\x02\x03 definitely not a cursor")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestStaticAdapter(t *testing.T) {
	t.Parallel()

	f, err := Lookup("cur")
	require.NoError(t, err)

	a, err := cursor.NewAnimated(
		cursor.Frame{Cursor: testCursor(t, 32, 1), Delay: 10},
		cursor.Frame{Cursor: testCursor(t, 48, 1), Delay: 10},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Encode(a, &buf))
	got, err := f.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []cursor.Size{cursor.Square(32)}, got.Frame(0).Cursor.Sizes())

	assert.True(t, cursor.IsValidationError(f.Encode(&cursor.Animated{}, &buf)))
}
