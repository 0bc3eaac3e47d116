package cursor

import (
	"fmt"
	"sort"
)

// Cursor is a static cursor: a set of icons with unique sizes. The zero value
// is an empty cursor ready to use.
type Cursor struct {
	icons map[Size]*Icon
}

// New returns a cursor holding the given icons. Later icons replace earlier
// ones of the same size.
func New(icons ...*Icon) *Cursor {
	c := &Cursor{icons: make(map[Size]*Icon, len(icons))}
	for _, icon := range icons {
		c.Add(icon)
	}
	return c
}

// Add adds the icon, replacing any icon of the same size.
func (c *Cursor) Add(icon *Icon) {
	if c.icons == nil {
		c.icons = make(map[Size]*Icon)
	}
	c.icons[icon.Size()] = icon
}

// Get returns the icon of the given size, or nil.
func (c *Cursor) Get(size Size) *Icon {
	return c.icons[size]
}

// Has returns whether an icon of the given size exists.
func (c *Cursor) Has(size Size) bool {
	_, ok := c.icons[size]
	return ok
}

// Remove deletes and returns the icon of the given size, or nil.
func (c *Cursor) Remove(size Size) *Icon {
	icon := c.icons[size]
	delete(c.icons, size)
	return icon
}

// Len returns the number of icons.
func (c *Cursor) Len() int {
	return len(c.icons)
}

// Sizes returns all sizes, sorted by width and then height.
func (c *Cursor) Sizes() []Size {
	sizes := make([]Size, 0, len(c.icons))
	for size := range c.icons {
		sizes = append(sizes, size)
	}
	sortSizes(sizes)
	return sizes
}

// MaxSize returns the size with the largest area. On equal area the size
// sorting first wins. It returns false if the cursor is empty.
func (c *Cursor) MaxSize() (Size, bool) {
	var (
		max   Size
		found bool
	)
	for _, size := range c.Sizes() {
		if !found || size.Area() > max.Area() {
			max = size
			found = true
		}
	}
	return max, found
}

// AddSizes synthesizes every missing size from the largest icon. Differing
// aspect ratios are letterboxed with transparent margins and the hotspot is
// moved along with the scaled image.
func (c *Cursor) AddSizes(sizes ...Size) error {
	max, ok := c.MaxSize()
	if !ok {
		return fmt.Errorf("cannot add sizes: %w", ErrEmptyCursor)
	}
	src := c.icons[max]

	for _, size := range sizes {
		if size.W <= 0 || size.H <= 0 {
			return Invalid("size", "%s is not a valid cursor size", size)
		}
	}
	for _, size := range sizes {
		if !c.Has(size) {
			c.Add(scaleIcon(src, size))
		}
	}
	return nil
}

// RestrictToSizes makes the cursor hold exactly the given sizes, synthesizing
// missing ones and deleting all others.
func (c *Cursor) RestrictToSizes(sizes ...Size) error {
	if err := c.AddSizes(sizes...); err != nil {
		return err
	}

	keep := make(map[Size]struct{}, len(sizes))
	for _, size := range sizes {
		keep[size] = struct{}{}
	}
	for size := range c.icons {
		if _, ok := keep[size]; !ok {
			delete(c.icons, size)
		}
	}
	return nil
}

// RemoveNonSquareSizes deletes every icon whose width differs from its height.
func (c *Cursor) RemoveNonSquareSizes() {
	for size := range c.icons {
		if !size.IsSquare() {
			delete(c.icons, size)
		}
	}
}

// Copy returns a new cursor with copies of all icons. Bitmaps are shared, as
// they are immutable, but hotspots are independent.
func (c *Cursor) Copy() *Cursor {
	cp := &Cursor{icons: make(map[Size]*Icon, len(c.icons))}
	for size, icon := range c.icons {
		cp.icons[size] = icon.clone()
	}
	return cp
}

func sortSizes(sizes []Size) {
	sort.Slice(sizes, func(i, j int) bool {
		return sizes[i].Less(sizes[j])
	})
}

// SortedSizes returns a sorted copy of sizes without duplicates.
func SortedSizes(sizes []Size) []Size {
	seen := make(map[Size]struct{}, len(sizes))
	out := make([]Size, 0, len(sizes))
	for _, size := range sizes {
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		out = append(out, size)
	}
	sortSizes(out)
	return out
}
