// Package project saves and loads cursor theme projects.
//
// A project is a directory named after the theme, holding one source file per
// cursor and a build file describing the theme metadata plus the hotspots and
// delays of every cursor. Hotspots are stored relative to a 64 pixel cursor,
// so they survive re-rendering the sources at any size.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/ghodss/yaml"
	"github.com/tidwall/gjson"

	"github.com/safing/cursorcreate/base/log"
	"github.com/safing/cursorcreate/base/utils"
	"github.com/safing/cursorcreate/base/utils/renameio"
	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats/loader"
	"github.com/safing/cursorcreate/theme"
)

const (
	// FormatName identifies build files.
	FormatName = "cursor_build_file"
	// FormatVersion is the supported build file version.
	FormatVersion = 1
	// BuildFileName is the name of the build file in the project directory.
	BuildFileName = "build.json"

	// HotspotSize is the cursor size hotspots are stored for.
	HotspotSize = 64
	// stripSize is the frame size of generated source images.
	stripSize = 128
)

// ErrNotABuildFile is returned when a file is not a build file of a supported version.
var ErrNotABuildFile = errors.New("not a cursor build file of a supported version")

// Cursor is a cursor of a project with the file it was loaded from.
type Cursor struct {
	// Source is the path of the source file. If empty, a PNG strip of the
	// frames is written as source on Save.
	Source string
	Cursor *cursor.Animated
}

// Project is a cursor theme with the sources of its cursors.
type Project struct {
	Name     string
	Metadata theme.Metadata
	Cursors  map[string]*Cursor
}

// Theme returns the theme described by the project. The cursors are shared.
func (p *Project) Theme() *theme.Theme {
	t := &theme.Theme{
		Name:     p.Name,
		Metadata: p.Metadata,
		Cursors:  make(map[string]*cursor.Animated, len(p.Cursors)),
	}
	for name, c := range p.Cursors {
		t.Cursors[name] = c.Cursor
	}
	return t
}

type buildFile struct {
	Format   string         `json:"format"`
	Version  int            `json:"version"`
	Metadata theme.Metadata `json:"metadata"`
	Data     []buildEntry   `json:"data"`
}

type buildEntry struct {
	Name       string   `json:"cursor_name"`
	File       string   `json:"cursor_file"`
	Hotspots64 [][2]int `json:"hotspots_64"`
	Delays     []int    `json:"delays"`
}

// Save writes the project into dir/<name>/. Source files are copied into the
// project directory, named after their cursor. The sources in p are updated
// to point to the copies.
func Save(dir string, p *Project) error {
	projectDir := filepath.Join(dir, p.Name)
	if err := utils.EnsureDirectory(projectDir, utils.PublicReadPermission); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	bf := &buildFile{
		Format:   FormatName,
		Version:  FormatVersion,
		Metadata: p.Metadata,
		Data:     make([]buildEntry, 0, len(p.Cursors)),
	}

	names := make([]string, 0, len(p.Cursors))
	for name := range p.Cursors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pc := p.Cursors[name]
		entry, err := saveCursor(projectDir, name, pc)
		if err != nil {
			return fmt.Errorf("cursor %q: %w", name, err)
		}
		bf.Data = append(bf.Data, *entry)
	}

	data, err := json.MarshalIndent(bf, "", "    ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(projectDir, BuildFileName), data, 0o644)
}

func saveCursor(projectDir, name string, pc *Cursor) (*buildEntry, error) {
	a := pc.Cursor.Copy()
	if err := a.Normalize(cursor.Square(HotspotSize)); err != nil {
		return nil, err
	}

	var target string
	if pc.Source != "" {
		target = filepath.Join(projectDir, name+strings.ToLower(filepath.Ext(pc.Source)))
		if err := copyFile(pc.Source, target); err != nil {
			return nil, err
		}
	} else {
		target = filepath.Join(projectDir, name+".png")
		if err := writeStrip(target, a); err != nil {
			return nil, err
		}
	}
	pc.Source = target

	entry := &buildEntry{
		Name:       name,
		File:       filepath.Base(target),
		Hotspots64: make([][2]int, a.Len()),
		Delays:     a.Delays(),
	}
	for i := 0; i < a.Len(); i++ {
		x, y := a.Frame(i).Cursor.Get(cursor.Square(HotspotSize)).Hotspot()
		entry.Hotspots64[i] = [2]int{x, y}
	}
	return entry, nil
}

func copyFile(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if srcAbs == dstAbs {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	return renameio.WriteWith(dst, 0o644, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// writeStrip writes all frames of a side by side as a PNG, which loads back
// as the same frames.
func writeStrip(filename string, a *cursor.Animated) error {
	size := cursor.Square(stripSize)
	if err := a.Normalize(size); err != nil {
		return err
	}

	dc := gg.NewContext(size.W*a.Len(), size.H)
	for i := 0; i < a.Len(); i++ {
		dc.DrawImage(a.Frame(i).Cursor.Get(size).Image(), size.W*i, 0)
	}
	return renameio.WriteWith(filename, 0o644, func(w io.Writer) error {
		return dc.EncodePNG(w)
	})
}

// Load reads the project of the given build file, which may be JSON or YAML.
// The project is named after the directory holding the build file. Every
// cursor is loaded from its source, then the stored delays and hotspots are
// applied.
func Load(buildFilePath string) (*Project, error) {
	data, err := os.ReadFile(buildFilePath)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(buildFilePath)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrNotABuildFile)
	}
	if format := gjson.GetBytes(data, "format"); format.String() != FormatName {
		return nil, fmt.Errorf("%w: format is %q", ErrNotABuildFile, format.String())
	}
	if version := gjson.GetBytes(data, "version"); version.Int() != FormatVersion {
		return nil, fmt.Errorf("%w: version is %s", ErrNotABuildFile, version.Raw)
	}

	bf := &buildFile{}
	if err := json.Unmarshal(data, bf); err != nil {
		return nil, fmt.Errorf("failed to parse build file: %w", err)
	}

	absPath, err := filepath.Abs(buildFilePath)
	if err != nil {
		return nil, err
	}
	projectDir := filepath.Dir(absPath)

	p := &Project{
		Name:     filepath.Base(projectDir),
		Metadata: bf.Metadata,
		Cursors:  make(map[string]*Cursor, len(bf.Data)),
	}
	for _, entry := range bf.Data {
		pc, err := loadCursor(projectDir, &entry)
		if err != nil {
			return nil, fmt.Errorf("cursor %q: %w", entry.Name, err)
		}
		if _, ok := p.Cursors[entry.Name]; ok {
			log.Warningf("project: %s lists cursor %q more than once, using the last entry", buildFilePath, entry.Name)
		}
		p.Cursors[entry.Name] = pc
	}
	return p, nil
}

func loadCursor(projectDir string, entry *buildEntry) (*Cursor, error) {
	if entry.File == "" || filepath.Base(entry.File) != entry.File {
		return nil, fmt.Errorf("invalid cursor file %q", entry.File)
	}
	source := filepath.Join(projectDir, entry.File)

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	a, err := loader.Load(f)
	if err != nil {
		return nil, err
	}

	if len(entry.Delays) > a.Len() {
		return nil, fmt.Errorf("%d delays given for %d frames", len(entry.Delays), a.Len())
	}
	for i, delay := range entry.Delays {
		if err := a.SetDelay(i, delay); err != nil {
			return nil, err
		}
	}

	for i, hotspot := range entry.Hotspots64 {
		if i >= a.Len() {
			break
		}
		c := a.Frame(i).Cursor
		for _, size := range c.Sizes() {
			x := int(float64(size.W) / HotspotSize * float64(hotspot[0]))
			y := int(float64(size.H) / HotspotSize * float64(hotspot[1]))
			x, y = cursor.ClampHotspot(size, x, y)
			if err := c.Get(size).SetHotspot(x, y); err != nil {
				return nil, err
			}
		}
	}

	return &Cursor{Source: source, Cursor: a}, nil
}
