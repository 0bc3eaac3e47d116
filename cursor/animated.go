package cursor

import "fmt"

// Frame is one step of an animated cursor.
type Frame struct {
	Cursor *Cursor
	// Delay is the display time in milliseconds.
	Delay int
}

// Animated is an animated cursor: an ordered list of frames. Frame order is
// playback order. A cursor with zero or one frame counts as static.
type Animated struct {
	frames []Frame
}

// NewAnimated returns an animated cursor holding the given frames.
func NewAnimated(frames ...Frame) (*Animated, error) {
	a := &Animated{frames: make([]Frame, 0, len(frames))}
	for _, f := range frames {
		if err := a.Append(f.Cursor, f.Delay); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Static wraps a single cursor as a one frame animation.
func Static(c *Cursor, delay int) (*Animated, error) {
	return NewAnimated(Frame{Cursor: c, Delay: delay})
}

func checkFrame(c *Cursor, delay int) error {
	switch {
	case c == nil:
		return Invalid("frame", "cursor is nil")
	case delay < 0:
		return Invalid("delay", "%d ms is negative", delay)
	}
	return nil
}

// Append adds a frame at the end.
func (a *Animated) Append(c *Cursor, delay int) error {
	if err := checkFrame(c, delay); err != nil {
		return err
	}
	a.frames = append(a.frames, Frame{Cursor: c, Delay: delay})
	return nil
}

// Set replaces the frame at index i.
func (a *Animated) Set(i int, c *Cursor, delay int) error {
	if i < 0 || i >= len(a.frames) {
		return fmt.Errorf("frame index %d out of range [0, %d)", i, len(a.frames))
	}
	if err := checkFrame(c, delay); err != nil {
		return err
	}
	a.frames[i] = Frame{Cursor: c, Delay: delay}
	return nil
}

// SetDelay changes the delay of the frame at index i.
func (a *Animated) SetDelay(i int, delay int) error {
	if i < 0 || i >= len(a.frames) {
		return fmt.Errorf("frame index %d out of range [0, %d)", i, len(a.frames))
	}
	return a.Set(i, a.frames[i].Cursor, delay)
}

// Len returns the number of frames.
func (a *Animated) Len() int {
	return len(a.frames)
}

// Frame returns the frame at index i. It panics if i is out of range.
func (a *Animated) Frame(i int) Frame {
	return a.frames[i]
}

// Frames returns a copy of the frame list. The cursors are not copied.
func (a *Animated) Frames() []Frame {
	return append([]Frame(nil), a.frames...)
}

// Delays returns the delay of every frame.
func (a *Animated) Delays() []int {
	delays := make([]int, len(a.frames))
	for i, f := range a.frames {
		delays[i] = f.Delay
	}
	return delays
}

// TotalDuration returns the sum of all delays in milliseconds.
func (a *Animated) TotalDuration() int {
	var total int
	for _, f := range a.frames {
		total += f.Delay
	}
	return total
}

// IsStatic returns whether the cursor has at most one frame.
func (a *Animated) IsStatic() bool {
	return len(a.frames) <= 1
}

// Sizes returns the union of sizes across all frames, sorted.
func (a *Animated) Sizes() []Size {
	var all []Size
	for _, f := range a.frames {
		all = append(all, f.Cursor.Sizes()...)
	}
	return SortedSizes(all)
}

// Normalize makes all frames share the same sizes: the union of every frame's
// sizes plus extra.
func (a *Animated) Normalize(extra ...Size) error {
	sizes := SortedSizes(append(a.Sizes(), extra...))
	for i, f := range a.frames {
		if err := f.Cursor.AddSizes(sizes...); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// RemoveNonSquareSizes removes non-square icons from all frames.
func (a *Animated) RemoveNonSquareSizes() {
	for _, f := range a.frames {
		f.Cursor.RemoveNonSquareSizes()
	}
}

// RestrictToSizes makes every frame hold exactly the given sizes.
func (a *Animated) RestrictToSizes(sizes ...Size) error {
	for i, f := range a.frames {
		if err := f.Cursor.RestrictToSizes(sizes...); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Copy returns an animated cursor with copies of every frame's cursor.
// Changing hotspots or sizes of the copy never affects the original.
func (a *Animated) Copy() *Animated {
	cp := &Animated{frames: make([]Frame, len(a.frames))}
	for i, f := range a.frames {
		cp.frames[i] = Frame{Cursor: f.Cursor.Copy(), Delay: f.Delay}
	}
	return cp
}
