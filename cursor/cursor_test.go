package cursor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mustIcon(t *testing.T, w, h, hotX, hotY int) *Icon {
	t.Helper()
	icon, err := NewIcon(solid(w, h, color.NRGBA{R: 200, G: 10, B: 30, A: 255}), hotX, hotY)
	require.NoError(t, err)
	return icon
}

func TestIconHotspot(t *testing.T) {
	t.Parallel()

	icon := mustIcon(t, 32, 16, 31, 15)
	x, y := icon.Hotspot()
	assert.Equal(t, 31, x)
	assert.Equal(t, 15, y)
	assert.Equal(t, Sz(32, 16), icon.Size())

	for _, hs := range [][2]int{{32, 0}, {0, 16}, {-1, 0}, {0, -1}} {
		err := icon.SetHotspot(hs[0], hs[1])
		require.Error(t, err, hs)
		assert.True(t, IsValidationError(err))
	}
	// Failed updates keep the old hotspot.
	x, y = icon.Hotspot()
	assert.Equal(t, 31, x)
	assert.Equal(t, 15, y)

	_, err := NewIcon(solid(8, 8, color.NRGBA{}), 8, 0)
	assert.True(t, IsValidationError(err))
}

func TestIconFromOffsetImage(t *testing.T) {
	t.Parallel()

	big := solid(10, 10, color.NRGBA{G: 255, A: 255})
	sub := big.SubImage(image.Rect(2, 2, 6, 6))
	icon, err := NewIcon(sub, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), icon.Image().Bounds())
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, icon.Image().NRGBAAt(3, 3))
}

func TestIconOwnsBitmap(t *testing.T) {
	t.Parallel()

	img := solid(4, 4, color.NRGBA{R: 255, A: 255})
	icon, err := NewIcon(img, 0, 0)
	require.NoError(t, err)

	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, icon.Image().NRGBAAt(1, 1))
}

func TestCursorBasics(t *testing.T) {
	t.Parallel()

	c := New(mustIcon(t, 48, 48, 0, 0), mustIcon(t, 32, 32, 0, 0), mustIcon(t, 64, 16, 0, 0))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []Size{Square(32), Square(48), Sz(64, 16)}, c.Sizes())

	max, ok := c.MaxSize()
	require.True(t, ok)
	assert.Equal(t, Square(48), max)

	assert.True(t, c.Has(Square(32)))
	assert.NotNil(t, c.Remove(Square(32)))
	assert.False(t, c.Has(Square(32)))
	assert.Nil(t, c.Get(Square(32)))

	c.RemoveNonSquareSizes()
	assert.Equal(t, []Size{Square(48)}, c.Sizes())

	var empty Cursor
	_, ok = empty.MaxSize()
	assert.False(t, ok)
	assert.ErrorIs(t, empty.AddSizes(Square(32)), ErrEmptyCursor)
}

func TestAddSizesScalesHotspot(t *testing.T) {
	t.Parallel()

	c := New(mustIcon(t, 20, 20, 10, 10))

	// Present sizes are untouched.
	before := c.Get(Square(20))
	require.NoError(t, c.AddSizes(Square(20)))
	assert.Same(t, before, c.Get(Square(20)))

	require.NoError(t, c.AddSizes(Square(40)))
	icon := c.Get(Square(40))
	require.NotNil(t, icon)
	x, y := icon.Hotspot()
	assert.Equal(t, 20, x)
	assert.Equal(t, 20, y)
	assert.Equal(t, Square(40), icon.Size())
}

func TestAddSizesInvalid(t *testing.T) {
	t.Parallel()

	c := New(mustIcon(t, 20, 20, 10, 10))
	err := c.AddSizes(Square(32), Sz(0, 16), Square(48))
	assert.True(t, IsValidationError(err))
	assert.Equal(t, []Size{Square(20)}, c.Sizes())
}

func TestAddSizesLetterbox(t *testing.T) {
	t.Parallel()

	// Wide source into a square target: transparent bars top and bottom.
	c := New(mustIcon(t, 20, 10, 4, 2))
	require.NoError(t, c.AddSizes(Square(20)))

	icon := c.Get(Square(20))
	require.NotNil(t, icon)
	img := icon.Image()
	for x := 0; x < 20; x++ {
		for _, y := range []int{0, 4, 15, 19} {
			assert.Equal(t, uint8(0), img.NRGBAAt(x, y).A, "margin pixel (%d, %d)", x, y)
		}
		assert.Equal(t, uint8(255), img.NRGBAAt(x, 10).A, "content pixel (%d, 10)", x)
	}

	x, y := icon.Hotspot()
	assert.Equal(t, 4, x)
	assert.Equal(t, 7, y)
}

func TestRestrictToSizes(t *testing.T) {
	t.Parallel()

	c := New(mustIcon(t, 64, 64, 10, 20), mustIcon(t, 16, 16, 0, 0))
	require.NoError(t, c.RestrictToSizes(Square(32), Square(64)))
	assert.Equal(t, []Size{Square(32), Square(64)}, c.Sizes())

	x, y := c.Get(Square(32)).Hotspot()
	assert.Equal(t, 5, x)
	assert.Equal(t, 10, y)
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	c := New(mustIcon(t, 32, 32, 1, 1))
	cp := c.Copy()
	require.NoError(t, cp.Get(Square(32)).SetHotspot(5, 5))
	cp.Remove(Square(32))

	x, y := c.Get(Square(32)).Hotspot()
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, 1, c.Len())
}

func TestAnimated(t *testing.T) {
	t.Parallel()

	a, err := NewAnimated(
		Frame{Cursor: New(mustIcon(t, 32, 32, 0, 0)), Delay: 100},
		Frame{Cursor: New(mustIcon(t, 48, 48, 0, 0)), Delay: 150},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.False(t, a.IsStatic())
	assert.Equal(t, 250, a.TotalDuration())
	assert.Equal(t, []int{100, 150}, a.Delays())

	require.NoError(t, a.Normalize(Square(64)))
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, []Size{Square(32), Square(48), Square(64)}, a.Frame(i).Cursor.Sizes())
	}

	cp := a.Copy()
	require.NoError(t, cp.RestrictToSizes(Square(32)))
	require.NoError(t, cp.Frame(0).Cursor.Get(Square(32)).SetHotspot(3, 3))
	assert.Equal(t, 3, a.Frame(0).Cursor.Len())
	x, _ := a.Frame(0).Cursor.Get(Square(32)).Hotspot()
	assert.Equal(t, 0, x)

	assert.True(t, IsValidationError(a.Append(New(), -1)))
	assert.True(t, IsValidationError(a.Append(nil, 10)))
	require.NoError(t, a.SetDelay(1, 0))
	assert.Equal(t, 0, a.Frame(1).Delay)
	assert.Error(t, a.SetDelay(2, 10))

	single, err := Static(New(mustIcon(t, 32, 32, 0, 0)), 100)
	require.NoError(t, err)
	assert.True(t, single.IsStatic())
}
