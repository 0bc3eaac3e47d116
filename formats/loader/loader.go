// Package loader turns arbitrary input into animated cursors.
//
// Cursor formats are tried first, animated ones before static ones, since
// animated containers embed static payloads. Input that is no cursor file is
// read as a raster image and finally as an SVG.
package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/safing/cursorcreate/base/log"
	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats"
	"github.com/safing/cursorcreate/formats/ani"
	"github.com/safing/cursorcreate/formats/cur"
	"github.com/safing/cursorcreate/formats/xcur"
)

// StaticDelay is the delay given to the single frame of a static cursor.
const StaticDelay = 100

var (
	// AnimatedFormats are tried in order before StaticFormats.
	AnimatedFormats = []formats.AnimatedFormat{
		ani.Format,
		xcur.Format,
	}

	// StaticFormats are tried in order after AnimatedFormats.
	StaticFormats = []formats.StaticFormat{
		cur.Format,
	}

	// DefaultSizes are the sizes every loaded cursor is normalized to.
	DefaultSizes = []cursor.Size{
		cursor.Square(32),
		cursor.Square(48),
		cursor.Square(64),
		cursor.Square(128),
	}
)

var (
	// ErrUnsupported is returned when no loader understands the input.
	ErrUnsupported = errors.New("unsupported cursor source")
	// ErrUnknownFormat is returned by Lookup for unknown format IDs.
	ErrUnknownFormat = errors.New("unknown cursor format")

	errNoCursor = formats.Errorf("loader", "no cursor format matches the file header")
)

// Lookup returns the codec for a format ID. Static formats are adapted to
// the animated interface, see AsAnimated.
func Lookup(id string) (formats.AnimatedFormat, error) {
	id = strings.ToLower(strings.TrimPrefix(id, "."))
	for _, f := range AnimatedFormats {
		if f.ID() == id {
			return f, nil
		}
	}
	for _, f := range StaticFormats {
		if f.ID() == id {
			return AsAnimated(f), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, id)
}

// IDs returns the IDs of all registered formats.
func IDs() []string {
	ids := make([]string, 0, len(AnimatedFormats)+len(StaticFormats))
	for _, f := range AnimatedFormats {
		ids = append(ids, f.ID())
	}
	for _, f := range StaticFormats {
		ids = append(ids, f.ID())
	}
	return ids
}

// Decode reads a cursor file of any registered format as is, without
// normalizing its sizes. A static cursor becomes a single frame with
// StaticDelay. If no format matches, a *formats.FormatError is returned.
func Decode(r io.ReadSeeker) (*cursor.Animated, error) {
	header, err := formats.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	var lastErr error = errNoCursor
	for _, f := range AnimatedFormats {
		if !f.Detect(header) {
			continue
		}
		a, err := f.Decode(r)
		if err == nil {
			return a, nil
		}
		if !formats.IsFormatError(err) {
			return nil, err
		}
		log.Tracef("loader: %s codec rejected input: %s", f.ID(), err)
		lastErr = err
		if _, err := r.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
	}

	for _, f := range StaticFormats {
		if !f.Detect(header) {
			continue
		}
		c, err := f.Decode(r)
		if err == nil {
			return cursor.Static(c, StaticDelay)
		}
		if !formats.IsFormatError(err) {
			return nil, err
		}
		log.Tracef("loader: %s codec rejected input: %s", f.ID(), err)
		lastErr = err
		if _, err := r.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// LoadCursor reads a cursor file and normalizes it to DefaultSizes, dropping
// all non-square sizes.
func LoadCursor(r io.ReadSeeker) (*cursor.Animated, error) {
	a, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := a.Normalize(DefaultSizes...); err != nil {
		return nil, err
	}
	a.RemoveNonSquareSizes()
	return a, nil
}

// Load reads a cursor file, a raster image or an SVG, in that order. The
// returned cursor always holds at least DefaultSizes.
func Load(r io.ReadSeeker) (*cursor.Animated, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	rewind := func() error {
		_, err := r.Seek(start, io.SeekStart)
		return err
	}

	var causes *multierror.Error

	a, err := LoadCursor(r)
	switch {
	case err == nil:
		return a, nil
	case !formats.IsFormatError(err):
		return nil, err
	}
	causes = multierror.Append(causes, err)

	if err := rewind(); err != nil {
		return nil, err
	}
	a, err = LoadImage(r)
	switch {
	case err == nil:
		return a, nil
	case !errors.Is(err, ErrNotAnImage):
		return nil, err
	}
	causes = multierror.Append(causes, err)

	if err := rewind(); err != nil {
		return nil, err
	}
	a, err = LoadSVG(r)
	if err == nil {
		return a, nil
	}
	causes = multierror.Append(causes, err)

	return nil, fmt.Errorf("%w: %w", ErrUnsupported, causes.ErrorOrNil())
}

// AsAnimated adapts a static format to the animated interface. Decoding
// yields a single frame with StaticDelay, encoding writes the first frame.
func AsAnimated(f formats.StaticFormat) formats.AnimatedFormat {
	return staticAdapter{f}
}

type staticAdapter struct {
	formats.StaticFormat
}

func (s staticAdapter) Decode(r io.ReadSeeker) (*cursor.Animated, error) {
	c, err := s.StaticFormat.Decode(r)
	if err != nil {
		return nil, err
	}
	return cursor.Static(c, StaticDelay)
}

func (s staticAdapter) Encode(a *cursor.Animated, w io.Writer) error {
	if a.Len() == 0 {
		return cursor.Invalid("frames", "cannot encode an animated cursor without frames")
	}
	if !a.IsStatic() {
		log.Warningf("loader: %s stores a single frame, dropping %d frames", s.ID(), a.Len()-1)
	}
	return s.StaticFormat.Encode(a.Frame(0).Cursor, w)
}
