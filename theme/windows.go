package theme

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/safing/cursorcreate/cursor"
	"github.com/safing/cursorcreate/formats/ani"
	"github.com/safing/cursorcreate/formats/cur"
)

// Windows builds a .zip archive with the cursors and an install.inf which
// copies them into the system cursor directory and registers a cursor scheme.
var Windows Builder = windowsBuilder{}

// WindowsSizes are the sizes written to Windows themes.
var WindowsSizes = []cursor.Size{
	cursor.Square(32),
	cursor.Square(48),
	cursor.Square(64),
}

// WindowsCursors maps roles to the registry name and file name (without
// extension) of the corresponding Windows cursor.
var WindowsCursors = []struct {
	Role     string
	Registry string
	File     string
}{
	{"default", "pointer", "normal-select"},
	{"help", "help", "help-select"},
	{"progress", "work", "working-in-background"},
	{"wait", "busy", "busy"},
	{"text", "text", "text-select"},
	{"no-drop", "unavailable", "unavailable"},
	{"size_ver", "vert", "vertical-resize"},
	{"size_hor", "horz", "horizontal-resize"},
	{"size_fdiag", "dgn1", "diagonal-resize-1"},
	{"size_bdiag", "dgn2", "diagonal-resize-2"},
	{"fleur", "move", "move"},
	{"pointer", "link", "link-select"},
	{"crosshair", "cross", "precision-select"},
	{"pencil", "hand", "handwriting"},
	{"up-arrow", "alternate", "alt-select"},
}

// windowsRegistryOrder is the order of cursors in a registry scheme string.
var windowsRegistryOrder = []string{
	"pointer", "help", "work", "busy", "cross", "text", "hand", "unavailable",
	"vert", "horz", "dgn1", "dgn2", "move", "alternate", "link",
}

const windowsInfTemplate = `; Windows installer for %[1]s cursor theme%[2]s.
; Right click on this file ("install.inf"), and click "Install" to install the cursor theme.
; After installing, change the cursors via windows mouse pointer settings dialog.

[Version]
signature="$CHICAGO$"

[DefaultInstall]
CopyFiles = Scheme.Cur, Scheme.Txt
AddReg = Scheme.Reg

[DestinationDirs]
Scheme.Cur = 10,"%%CUR_DIR%%"
Scheme.Txt = 10,"%%CUR_DIR%%"

[Scheme.Reg]
HKCU,"Control Panel\Cursors\Schemes","%%SCHEME_NAME%%",,"%[3]s"

[Scheme.Cur]
"install.inf"
%[4]s

%[5]s

[Strings]
CUR_DIR = "Cursors\%[1]s"
SCHEME_NAME = "%[1]s"
%[6]s
`

type windowsBuilder struct{}

func (windowsBuilder) Name() string {
	return "windows"
}

type windowsFile struct {
	registry string
	file     string
}

func (windowsBuilder) Build(t *Theme, dir string) error {
	return writeFile(filepath.Join(dir, t.Name+".zip"), func(w io.Writer) error {
		archive := newZipWriter(w)

		var files []windowsFile
		used := make(map[string]bool)
		for _, mapping := range WindowsCursors {
			a, ok := t.Cursors[mapping.Role]
			if !ok {
				continue
			}
			// Listed in the registry even if there is nothing to write.
			used[mapping.Registry] = true

			a = a.Copy()
			if err := a.RestrictToSizes(WindowsSizes...); err != nil {
				return fmt.Errorf("cursor %q: %w", mapping.Role, err)
			}

			var (
				buf      bytes.Buffer
				fileName string
			)
			switch a.Len() {
			case 0:
				continue
			case 1:
				fileName = mapping.File + ".cur"
				if err := cur.Format.Encode(a.Frame(0).Cursor, &buf); err != nil {
					return fmt.Errorf("cursor %q: %w", mapping.Role, err)
				}
			default:
				fileName = mapping.File + ".ani"
				if err := ani.Format.Encode(a, &buf); err != nil {
					return fmt.Errorf("cursor %q: %w", mapping.Role, err)
				}
			}
			if err := archive.File(archivePath(t.Name, fileName), buf.Bytes()); err != nil {
				return err
			}
			files = append(files, windowsFile{registry: mapping.Registry, file: fileName})
		}

		var licenceInfo string
		if t.Metadata.Licence != "" {
			if err := archive.File(archivePath(t.Name, LicenceFileName), []byte(t.Metadata.Licence)); err != nil {
				return err
			}
			licenceInfo = "[Scheme.Txt]\n" + LicenceFileName
		}

		if err := archive.File(archivePath(t.Name, "install.inf"), []byte(windowsInf(t, files, used, licenceInfo))); err != nil {
			return err
		}
		return archive.Close()
	})
}

func windowsInf(t *Theme, files []windowsFile, used map[string]bool, licenceInfo string) string {
	regList := make([]string, len(windowsRegistryOrder))
	for i, name := range windowsRegistryOrder {
		if used[name] {
			regList[i] = `%10%\%CUR_DIR%\%` + name + `%`
		}
	}

	cursorList := make([]string, len(files))
	cursorRegList := make([]string, len(files))
	for i, f := range files {
		cursorList[i] = `"` + f.file + `"`
		cursorRegList[i] = fmt.Sprintf(`%s = "%s"`, f.registry, f.file)
	}

	var author string
	if t.Metadata.Author != "" {
		author = " by " + t.Metadata.Author
	}

	return fmt.Sprintf(windowsInfTemplate,
		t.Name,
		author,
		strings.Join(regList, ","),
		strings.Join(cursorList, "\n"),
		licenceInfo,
		strings.Join(cursorRegList, "\n"),
	)
}
