package project

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats/cur"
	"github.com/safing/cursorcreate/theme"
)

func solidCursor(t *testing.T, size, hotX, hotY int, c color.NRGBA) *cursor.Cursor {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	icon, err := cursor.NewIcon(img, hotX, hotY)
	require.NoError(t, err)
	return cursor.New(icon)
}

func testProject(t *testing.T) *Project {
	t.Helper()
	a, err := cursor.NewAnimated(
		cursor.Frame{Cursor: solidCursor(t, 64, 10, 20, color.NRGBA{R: 255, A: 255}), Delay: 30},
		cursor.Frame{Cursor: solidCursor(t, 64, 10, 20, color.NRGBA{G: 255, A: 255}), Delay: 70},
	)
	require.NoError(t, err)
	return &Project{
		Name: "Test Theme",
		Metadata: theme.Metadata{
			Author:  "Jane Doe",
			Licence: "Do whatever.",
		},
		Cursors: map[string]*Cursor{
			"wait": {Cursor: a},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := testProject(t)
	require.NoError(t, Save(dir, p))

	projectDir := filepath.Join(dir, "Test Theme")
	assert.Equal(t, filepath.Join(projectDir, "wait.png"), p.Cursors["wait"].Source)

	data, err := os.ReadFile(filepath.Join(projectDir, BuildFileName))
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, FormatName, raw["format"])
	assert.EqualValues(t, FormatVersion, raw["version"])
	assert.Equal(t, map[string]interface{}{"author": "Jane Doe", "licence": "Do whatever."}, raw["metadata"])
	assert.Equal(t, []interface{}{map[string]interface{}{
		"cursor_name": "wait",
		"cursor_file": "wait.png",
		"hotspots_64": []interface{}{[]interface{}{10.0, 20.0}, []interface{}{10.0, 20.0}},
		"delays":      []interface{}{30.0, 70.0},
	}}, raw["data"])

	loaded, err := Load(filepath.Join(projectDir, BuildFileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Theme", loaded.Name)
	assert.Equal(t, p.Metadata, loaded.Metadata)
	require.Contains(t, loaded.Cursors, "wait")

	a := loaded.Cursors["wait"].Cursor
	require.Equal(t, 2, a.Len())
	assert.Equal(t, []int{30, 70}, a.Delays())

	for _, tc := range []struct {
		size int
		x, y int
	}{
		{32, 5, 10},
		{48, 7, 15},
		{64, 10, 20},
		{128, 20, 40},
	} {
		x, y := a.Frame(1).Cursor.Get(cursor.Square(tc.size)).Hotspot()
		assert.Equal(t, tc.x, x, "size %d", tc.size)
		assert.Equal(t, tc.y, y, "size %d", tc.size)
	}

	// Frames come back from the strip in order.
	r, g, _, _ := a.Frame(1).Cursor.Get(cursor.Square(32)).Image().At(16, 16).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, g)

	th := loaded.Theme()
	assert.Equal(t, "Test Theme", th.Name)
	assert.Same(t, a, th.Cursors["wait"])
}

func TestSaveCopiesSource(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	data, err := cur.Marshal(solidCursor(t, 32, 3, 4, color.NRGBA{B: 255, A: 255}))
	require.NoError(t, err)
	src := filepath.Join(srcDir, "arrow.CUR")
	require.NoError(t, os.WriteFile(src, data, 0o600))

	a, err := cur.Format.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	st, err := cursor.Static(a, 100)
	require.NoError(t, err)

	dir := t.TempDir()
	p := &Project{
		Name:    "copy",
		Cursors: map[string]*Cursor{"default": {Source: src, Cursor: st}},
	}
	require.NoError(t, Save(dir, p))

	copied, err := os.ReadFile(filepath.Join(dir, "copy", "default.cur"))
	require.NoError(t, err)
	assert.Equal(t, data, copied)

	loaded, err := Load(filepath.Join(dir, "copy", BuildFileName))
	require.NoError(t, err)
	x, y := loaded.Cursors["default"].Cursor.Frame(0).Cursor.Get(cursor.Square(64)).Hotspot()
	assert.Equal(t, 6, x)
	assert.Equal(t, 8, y)

	// Saving again in place keeps the file.
	require.NoError(t, Save(dir, loaded))
	copied, err = os.ReadFile(filepath.Join(dir, "copy", "default.cur"))
	require.NoError(t, err)
	assert.Equal(t, data, copied)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := testProject(t)
	require.NoError(t, Save(dir, p))

	projectDir := filepath.Join(dir, "Test Theme")
	yamlFile := filepath.Join(projectDir, "build.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(`format: cursor_build_file
version: 1
metadata:
  author: Someone
data:
  - cursor_name: progress
    cursor_file: wait.png
    hotspots_64: [[32, 32]]
    delays: [250]
`), 0o600))

	loaded, err := Load(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, "Someone", loaded.Metadata.Author)

	a := loaded.Cursors["progress"].Cursor
	require.Equal(t, 2, a.Len())
	assert.Equal(t, []int{250, 100}, a.Delays())
	x, y := a.Frame(0).Cursor.Get(cursor.Square(48)).Hotspot()
	assert.Equal(t, 24, x)
	assert.Equal(t, 24, y)
	x, y = a.Frame(1).Cursor.Get(cursor.Square(48)).Hotspot()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, Save(dir, testProject(t)))
	projectDir := filepath.Join(dir, "Test Theme")

	write := func(name, content string) string {
		path := filepath.Join(projectDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	_, err := Load(write("wrong_format.json", `{"format": "other", "version": 1}`))
	assert.ErrorIs(t, err, ErrNotABuildFile)

	_, err = Load(write("wrong_version.json", `{"format": "cursor_build_file", "version": 2}`))
	assert.ErrorIs(t, err, ErrNotABuildFile)

	_, err = Load(write("broken.json", `{"format": `))
	assert.ErrorIs(t, err, ErrNotABuildFile)

	_, err = Load(write("delays.json", `{"format": "cursor_build_file", "version": 1, "data": [
		{"cursor_name": "wait", "cursor_file": "wait.png", "hotspots_64": [], "delays": [1, 2, 3]}
	]}`))
	assert.ErrorContains(t, err, "3 delays given for 2 frames")

	_, err = Load(write("escape.json", `{"format": "cursor_build_file", "version": 1, "data": [
		{"cursor_name": "wait", "cursor_file": "../wait.png", "hotspots_64": [], "delays": []}
	]}`))
	assert.ErrorContains(t, err, "invalid cursor file")

	_, err = Load(filepath.Join(projectDir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
