package theme

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats/xcur"
)

// Linux builds an X11/Wayland cursor theme as a .tar.gz archive, to be
// extracted into ~/.icons or /usr/share/icons.
var Linux Builder = linuxBuilder{}

const (
	linuxThemeFile   = "index.theme"
	linuxPreviewFile = "thumbnail.png"
	linuxCursorDir   = "cursors"
)

// LinuxSizes are the sizes written to Linux themes.
var LinuxSizes = []cursor.Size{
	cursor.Square(32),
	cursor.Square(48),
	cursor.Square(64),
	cursor.Square(128),
}

// LinuxAliases maps the alternative names applications look up, including
// the hashes used by legacy toolkits, to the role they are linked to.
var LinuxAliases = []struct {
	Link   string
	Target string
}{
	{"e29285e634086352946a0e7090d73106", "pointer"},
	{"9d800788f1b08800ae810202380a0822", "pointer"},
	{"xterm", "text"},
	{"crossed_circle", "not-allowed"},
	{"1081e37283d90000800003c07f3ef6bf", "copy"},
	{"closedhand", "dnd-move"},
	{"hand2", "pointer"},
	{"hand1", "pointer"},
	{"sb_h_double_arrow", "size_hor"},
	{"a2a266d0498c3104214a47bd64ab0fc8", "alias"},
	{"split_h", "col-resize"},
	{"dnd-none", "dnd-move"},
	{"split_v", "row-resize"},
	{"3085a0e285430894940527032f8b26df", "alias"},
	{"5c6cd98b3f3ebcb1f9c7f1c204630408", "help"},
	{"fcf21c00b30f7e3f83fe0dfd12e71cff", "dnd-move"},
	{"left_ptr", "default"},
	{"circle", "not-allowed"},
	{"d9ce0ab605698f320427677b458ad60b", "help"},
	{"03b6e0fcb3499374a867c041f52298f0", "not-allowed"},
	{"size-hor", "default"},
	{"00008160000006810000408080010102", "size_ver"},
	{"size-ver", "default"},
	{"forbidden", "no-drop"},
	{"08e8e1c95fe2fc01f976f1e063a24ccd", "progress"},
	{"ibeam", "text"},
	{"4498f0e0c1937ffe01fd06f973665830", "dnd-move"},
	{"left_ptr_watch", "progress"},
	{"cross", "crosshair"},
	{"watch", "wait"},
	{"3ecb610c1bf2410f44200f48c40d3599", "progress"},
	{"link", "alias"},
	{"9081237383d90e509aa00f00170e968f", "dnd-move"},
	{"h_double_arrow", "size_hor"},
	{"640fb0e74195791501fd1ed57b41487f", "alias"},
	{"plus", "cell"},
	{"b66166c04f8c3109214a4fbd64a50fc8", "copy"},
	{"pointing_hand", "pointer"},
	{"size-bdiag", "default"},
	{"w-resize", "size_hor"},
	{"n-resize", "size_ver"},
	{"s-resize", "size_ver"},
	{"question_arrow", "help"},
	{"sb_v_double_arrow", "size_ver"},
	{"dnd-copy", "copy"},
	{"half-busy", "progress"},
	{"e-resize", "size_hor"},
	{"00000000000000020006000e7e9ffc3f", "progress"},
	{"top_left_arrow", "default"},
	{"whats_this", "help"},
	{"size-fdiag", "default"},
	{"move", "dnd-move"},
	{"v_double_arrow", "size_ver"},
	{"left_ptr_help", "help"},
	{"size_all", "fleur"},
	{"6407b0e94181790501fd1e167b474872", "copy"},
}

type linuxBuilder struct{}

func (linuxBuilder) Name() string {
	return "linux"
}

func (b linuxBuilder) Build(t *Theme, dir string) error {
	// Role names become archive paths.
	for _, name := range t.RoleNames() {
		if err := CheckRole(name); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, t.Name+".tar.gz"), func(w io.Writer) error {
		archive := newTarGzWriter(w)
		if err := b.write(archive, t); err != nil {
			return err
		}
		return archive.Close()
	})
}

func (linuxBuilder) write(archive *tarGzWriter, t *Theme) error {
	themeDir := t.Name
	if err := archive.Dir(themeDir); err != nil {
		return err
	}

	var index bytes.Buffer
	if t.Metadata.Author != "" {
		fmt.Fprintf(&index, "# %s cursor theme created by %s.\n", t.Name, t.Metadata.Author)
	}
	fmt.Fprintf(&index, "[Icon Theme]\nName=%s\n", t.Name)
	if err := archive.File(archivePath(themeDir, linuxThemeFile), index.Bytes()); err != nil {
		return err
	}

	if t.Metadata.Licence != "" {
		if err := archive.File(archivePath(themeDir, LicenceFileName), []byte(t.Metadata.Licence)); err != nil {
			return err
		}
	}

	cursorDir := archivePath(themeDir, linuxCursorDir)
	if err := archive.Dir(cursorDir); err != nil {
		return err
	}

	for _, name := range t.RoleNames() {
		a := t.Cursors[name].Copy()
		if err := a.RestrictToSizes(LinuxSizes...); err != nil {
			return fmt.Errorf("cursor %q: %w", name, err)
		}

		var buf bytes.Buffer
		if err := xcur.Format.Encode(a, &buf); err != nil {
			return fmt.Errorf("cursor %q: %w", name, err)
		}
		if err := archive.File(archivePath(cursorDir, name), buf.Bytes()); err != nil {
			return err
		}
	}

	if def, ok := t.Cursors["default"]; ok && def.Len() > 0 {
		first := def.Frame(0).Cursor
		if size, ok := first.MaxSize(); ok {
			var buf bytes.Buffer
			if err := encodePNG(&buf, first.Get(size).Image()); err != nil {
				return fmt.Errorf("failed to encode preview: %w", err)
			}
			if err := archive.File(archivePath(cursorDir, linuxPreviewFile), buf.Bytes()); err != nil {
				return err
			}
		}
	}

	for _, alias := range LinuxAliases {
		if _, ok := t.Cursors[alias.Target]; !ok {
			continue
		}
		if err := archive.Symlink(archivePath(cursorDir, alias.Link), alias.Target); err != nil {
			return err
		}
	}

	return nil
}
