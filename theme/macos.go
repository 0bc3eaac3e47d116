package theme

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"howett.net/plist"

	"github.com/safing/cursorcreate/cursor"
)

// MacOS builds a .cape file for Mousecape, as macOS has no native cursor
// themes. A cape is an XML property list holding every cursor as a vertical
// strip of equally long frames.
var MacOS Builder = macOSBuilder{}

// MacOSSizes are the sizes of the representations in a cape, at 1x, 2x and 5x.
var MacOSSizes = []cursor.Size{
	cursor.Square(32),
	cursor.Square(64),
	cursor.Square(160),
}

// MacOSCursors maps roles to the Mousecape cursor identifiers they replace.
var MacOSCursors = []struct {
	Role  string
	Names []string
}{
	{"default", []string{"com.apple.coregraphics.Arrow", "com.apple.coregraphics.ArrowCtx", "com.apple.coregraphics.Move"}},
	{"alias", []string{"com.apple.coregraphics.Alias", "com.apple.cursor.2"}},
	{"wait", []string{"com.apple.coregraphics.Wait"}},
	{"text", []string{"com.apple.coregraphics.IBeam", "com.apple.coregraphics.IBeamXOR"}},
	{"no-drop", []string{"com.apple.cursor.3"}},
	{"progress", []string{"com.apple.cursor.4"}},
	{"copy", []string{"com.apple.cursor.5"}},
	{"crosshair", []string{"com.apple.cursor.7", "com.apple.cursor.8"}},
	{"dnd-move", []string{"com.apple.cursor.11"}},
	{"openhand", []string{"com.apple.cursor.12"}},
	{"pointer", []string{"com.apple.cursor.13"}},
	{"left_side", []string{"com.apple.cursor.17"}},
	{"right_side", []string{"com.apple.cursor.18"}},
	{"col-resize", []string{"com.apple.cursor.19"}},
	{"top_side", []string{"com.apple.cursor.21"}},
	{"bottom_side", []string{"com.apple.cursor.22"}},
	{"row-resize", []string{"com.apple.cursor.23"}},
	{"context-menu", []string{"com.apple.cursor.24"}},
	{"pirate", []string{"com.apple.cursor.25"}},
	{"vertical-text", []string{"com.apple.cursor.26"}},
	{"right-arrow", []string{"com.apple.cursor.27"}},
	{"size_hor", []string{"com.apple.cursor.28"}},
	{"size_bdiag", []string{"com.apple.cursor.30"}},
	{"up-arrow", []string{"com.apple.cursor.31"}},
	{"size_ver", []string{"com.apple.cursor.32"}},
	{"size_fdiag", []string{"com.apple.cursor.34"}},
	{"down-arrow", []string{"com.apple.cursor.36"}},
	{"left-arrow", []string{"com.apple.cursor.38"}},
	{"fleur", []string{"com.apple.cursor.39"}},
	{"help", []string{"com.apple.cursor.40"}},
	{"cell", []string{"com.apple.cursor.41", "com.apple.cursor.20"}},
	{"zoom-in", []string{"com.apple.cursor.42"}},
	{"zoom-out", []string{"com.apple.cursor.43"}},
}

var errNoFrames = errors.New("cursor has no frames")

type macOSBuilder struct{}

func (macOSBuilder) Name() string {
	return "mousecape_macos"
}

// Cape is the property list of a Mousecape theme.
type Cape struct {
	Author         string                `plist:"Author"`
	CapeName       string                `plist:"CapeName"`
	CapeVersion    float64               `plist:"CapeVersion"`
	Cloud          bool                  `plist:"Cloud"`
	Cursors        map[string]CapeCursor `plist:"Cursors"`
	HiDPI          bool                  `plist:"HiDPI"`
	Identifier     string                `plist:"Identifier"`
	MinimumVersion float64               `plist:"MinimumVersion"`
	Version        float64               `plist:"Version"`
}

// CapeCursor is a single cursor of a cape.
type CapeCursor struct {
	FrameCount      int      `plist:"FrameCount"`
	FrameDuration   float64  `plist:"FrameDuration"`
	HotSpotX        float64  `plist:"HotSpotX"`
	HotSpotY        float64  `plist:"HotSpotY"`
	PointsHigh      float64  `plist:"PointsHigh"`
	PointsWide      float64  `plist:"PointsWide"`
	Representations [][]byte `plist:"Representations"`
}

func (macOSBuilder) Build(t *Theme, dir string) error {
	authorID := "unknown"
	if t.Metadata.Author != "" {
		authorID = strings.Join(strings.Fields(strings.ToLower(t.Metadata.Author)), "")
	}
	themeID := strings.Join(strings.Fields(strings.ToLower(t.Name)), "")

	cape := &Cape{
		Author:         t.Metadata.Author,
		CapeName:       t.Name,
		CapeVersion:    1.0,
		Cloud:          true,
		Cursors:        make(map[string]CapeCursor),
		HiDPI:          true,
		Identifier:     strings.Join([]string{"com", authorID, themeID}, "."),
		MinimumVersion: 2.0,
		Version:        2.0,
	}

	for _, mapping := range MacOSCursors {
		a, ok := t.Cursors[mapping.Role]
		if !ok {
			continue
		}
		strip, err := UnifyFrames(a)
		if err != nil {
			return fmt.Errorf("cursor %q: %w", mapping.Role, err)
		}

		representations := make([][]byte, 0, len(strip.Images))
		for _, img := range strip.Images {
			var buf bytes.Buffer
			if err := encodePNG(&buf, img); err != nil {
				return fmt.Errorf("cursor %q: %w", mapping.Role, err)
			}
			representations = append(representations, buf.Bytes())
		}

		for _, name := range mapping.Names {
			cape.Cursors[name] = CapeCursor{
				FrameCount:      strip.Frames,
				FrameDuration:   float64(strip.Delay) / 1000,
				HotSpotX:        float64(strip.Hotspot.X),
				HotSpotY:        float64(strip.Hotspot.Y),
				PointsWide:      float64(strip.Points.W),
				PointsHigh:      float64(strip.Points.H),
				Representations: representations,
			}
		}
	}

	if t.Metadata.Licence != "" {
		if err := writeFile(filepath.Join(dir, LicenceFileName), func(w io.Writer) error {
			_, err := io.WriteString(w, t.Metadata.Licence)
			return err
		}); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, t.Name+".cape"), func(w io.Writer) error {
		enc := plist.NewEncoderForFormat(w, plist.XMLFormat)
		enc.Indent("\t")
		return enc.Encode(cape)
	})
}

// FrameStrip is an animated cursor resampled to a single frame delay, with
// all frames stacked vertically.
type FrameStrip struct {
	// Frames is the number of frames in each image.
	Frames int
	// Delay is the duration of every frame in milliseconds.
	Delay int
	// Hotspot is the shared hotspot in points.
	Hotspot image.Point
	// Points is the size of a single frame in points.
	Points cursor.Size
	// Images holds one strip per entry of MacOSSizes.
	Images []*image.NRGBA
}

// UnifyFrames resamples a to a single frame delay of
// max(gcd(delays), int(mean(delays)/4)) and renders each output frame into a
// cell twice the size of the cursor, placing the cursor's hotspot at the
// center of the cell.
func UnifyFrames(a *cursor.Animated) (*FrameStrip, error) {
	if a.Len() == 0 {
		return nil, errNoFrames
	}
	a = a.Copy()

	delays := a.Delays()
	cumulative := make([]int, len(delays))
	var sum, divisor int
	for i, d := range delays {
		sum += d
		cumulative[i] = sum
		divisor = gcd(divisor, d)
	}
	quarterMean := int(float64(sum) / float64(len(delays)) / 4)

	unified := divisor
	if quarterMean > unified {
		unified = quarterMean
	}
	// Without any delay there is nothing to resample.
	numFrames := 1
	if unified > 0 {
		numFrames = sum / unified
	}

	if err := a.RestrictToSizes(MacOSSizes...); err != nil {
		return nil, err
	}
	images := make([]*image.NRGBA, len(MacOSSizes))
	for i, size := range MacOSSizes {
		images[i] = image.NewNRGBA(image.Rect(0, 0, size.W*2, size.H*2*numFrames))
	}

	next := 1
	for out := 0; out < numFrames; out++ {
		timeIn := out * unified
		for next < len(cumulative) && timeIn >= cumulative[next] {
			next++
		}

		for i, size := range MacOSSizes {
			icon := a.Frame(next - 1).Cursor.Get(size)
			hotX, hotY := icon.Hotspot()
			x := size.W - hotX
			y := size.H*2*out + size.H - hotY
			img := icon.Image()
			draw.Draw(images[i], image.Rect(x, y, x+size.W, y+size.H), img, image.Point{}, draw.Src)
		}
	}

	base := MacOSSizes[0]
	return &FrameStrip{
		Frames:  numFrames,
		Delay:   unified,
		Hotspot: image.Pt(base.W, base.H),
		Points:  cursor.Sz(base.W*2, base.H*2),
		Images:  images,
	}, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
