package theme

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"

	"github.com/fogleman/gg"

	"github.com/safing/cursorcreate/cursor"
)

// Preview renders all cursors of a theme into a transparent PNG grid, to be
// put on top of a background when presenting the theme.
var Preview Builder = previewBuilder{}

// PreviewCursorSize is the size each cursor is drawn at. Every cursor gets a
// cell of twice this size with its hotspot in the center.
const PreviewCursorSize = 64

// previewOrder is the order of cursors in the preview.
var previewOrder = []string{
	"default", "alias", "copy", "context-menu", "help", "no-drop", "center_ptr",
	"right_ptr", "text", "vertical-text", "progress", "wait", "pointer",
	"openhand", "dnd-move", "dnd-no-drop", "not-allowed", "pirate", "draft",
	"pencil", "color-picker", "zoom-in", "zoom-out", "crosshair", "cell",
	"fleur", "all-scroll", "up-arrow", "right-arrow", "down-arrow",
	"left-arrow", "top_side", "right_side", "bottom_side", "left_side",
	"top_left_corner", "top_right_corner", "bottom_right_corner",
	"bottom_left_corner", "col-resize", "row-resize", "size_ver",
	"size_bdiag", "size_hor", "size_fdiag", "wayland-cursor", "x-cursor",
}

type previewBuilder struct{}

func (previewBuilder) Name() string {
	return "preview_picture"
}

func (previewBuilder) Build(t *Theme, dir string) error {
	if len(t.Cursors) == 0 {
		return errors.New("theme has no cursors to preview")
	}

	names := previewNames(t)
	perRow := int(math.Ceil(math.Sqrt(float64(len(names)))))
	center := PreviewCursorSize
	cell := PreviewCursorSize * 2
	size := cursor.Square(PreviewCursorSize)

	dc := gg.NewContext(perRow*cell, perRow*cell)
	for i, name := range names {
		a := t.Cursors[name]
		if a.Len() == 0 {
			continue
		}
		c := a.Frame(0).Cursor.Copy()
		if err := c.RestrictToSizes(size); err != nil {
			return fmt.Errorf("cursor %q: %w", name, err)
		}
		icon := c.Get(size)
		hotX, hotY := icon.Hotspot()

		x := (i%perRow)*cell + center
		y := (i/perRow)*cell + center

		// Crosshair marking the hotspot.
		for _, d := range [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			endX := float64(x + int(float64(d[0]*center)*0.25))
			endY := float64(y + int(float64(d[1]*center)*0.25))
			dc.SetRGBA255(50, 50, 50, 150)
			dc.SetLineWidth(3)
			dc.DrawLine(float64(x), float64(y), endX, endY)
			dc.Stroke()
			dc.SetRGBA255(205, 205, 205, 150)
			dc.SetLineWidth(1)
			dc.DrawLine(float64(x), float64(y), endX, endY)
			dc.Stroke()
		}

		dc.DrawImage(icon.Image(), x-hotX, y-hotY)
	}

	return writeFile(filepath.Join(dir, t.Name+"_preview.png"), func(w io.Writer) error {
		return dc.EncodePNG(w)
	})
}

// previewNames returns the cursor names in preview order. Names outside of
// the preview order follow alphabetically.
func previewNames(t *Theme) []string {
	rank := make(map[string]int, len(previewOrder))
	for i, name := range previewOrder {
		rank[name] = i
	}
	names := t.RoleNames()
	sort.SliceStable(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})
	return names
}
