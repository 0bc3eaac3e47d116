// Package theme packages a set of cursors into installable themes for Linux,
// Windows and macOS.
//
// Every platform is handled by a Builder. Build runs all of them on a private
// snapshot of the cursors, so a failing platform never keeps the others from
// being built.
package theme

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/safing/cursorcreate/base/log"
	"github.com/safing/cursorcreate/base/utils"
	"github.com/safing/cursorcreate/cursor"
)

// LicenceFileName is the name of the licence file placed next to the themes.
const LicenceFileName = "LICENSE.txt"

// Roles is the vocabulary of cursor roles a theme may provide.
var Roles = []string{
	"alias",
	"all-scroll",
	"bottom_left_corner",
	"bottom_right_corner",
	"bottom_side",
	"cell",
	"center_ptr",
	"col-resize",
	"color-picker",
	"context-menu",
	"copy",
	"crosshair",
	"default",
	"dnd-move",
	"dnd-no-drop",
	"down-arrow",
	"draft",
	"fleur",
	"help",
	"left-arrow",
	"left_side",
	"no-drop",
	"not-allowed",
	"openhand",
	"pencil",
	"pirate",
	"pointer",
	"progress",
	"right-arrow",
	"right_ptr",
	"right_side",
	"row-resize",
	"size_bdiag",
	"size_fdiag",
	"size_hor",
	"size_ver",
	"text",
	"top_left_corner",
	"top_right_corner",
	"top_side",
	"up-arrow",
	"vertical-text",
	"wait",
	"wayland-cursor",
	"x-cursor",
	"zoom-in",
	"zoom-out",
}

// ErrUnknownRole is returned for cursor names outside of Roles.
var ErrUnknownRole = errors.New("unknown cursor role")

// IsRole returns whether name is one of Roles.
func IsRole(name string) bool {
	i := sort.SearchStrings(Roles, name)
	return i < len(Roles) && Roles[i] == name
}

// CheckRole returns an error suggesting the closest role if name is unknown.
func CheckRole(name string) error {
	if IsRole(name) {
		return nil
	}

	best, bestDist := "", -1
	for _, role := range Roles {
		if d := levenshtein.Distance(name, role, nil); bestDist < 0 || d < bestDist {
			best, bestDist = role, d
		}
	}
	if bestDist <= len(name)/2 {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownRole, name, best)
	}
	return fmt.Errorf("%w %q", ErrUnknownRole, name)
}

// Metadata describes a theme. Empty fields are left out of the output.
type Metadata struct {
	Author      string `json:"author,omitempty"`
	Licence     string `json:"licence,omitempty"`
	LicenceName string `json:"licence_name,omitempty"`
}

// Theme is a named set of cursors keyed by role.
type Theme struct {
	Name     string
	Metadata Metadata
	Cursors  map[string]*cursor.Animated
}

// RoleNames returns the names of all cursors in the theme, sorted.
func (t *Theme) RoleNames() []string {
	names := make([]string, 0, len(t.Cursors))
	for name := range t.Cursors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy returns a theme with copies of all cursors.
func (t *Theme) Copy() *Theme {
	cp := &Theme{
		Name:     t.Name,
		Metadata: t.Metadata,
		Cursors:  make(map[string]*cursor.Animated, len(t.Cursors)),
	}
	for name, a := range t.Cursors {
		cp.Cursors[name] = a.Copy()
	}
	return cp
}

func (t *Theme) check() error {
	switch {
	case t.Name == "":
		return errors.New("theme name is empty")
	case t.Name == "." || t.Name == "..",
		strings.ContainsAny(t.Name, `/\`):
		return fmt.Errorf("theme name %q is not a valid file name", t.Name)
	}
	for name, a := range t.Cursors {
		if a == nil {
			return fmt.Errorf("cursor %q is nil", name)
		}
	}
	return nil
}

// Builder builds the theme for one platform.
type Builder interface {
	// Name returns the name of the builder, which is also the name of its
	// output directory.
	Name() string
	// Build writes the theme into dir. It must not modify t.
	Build(t *Theme, dir string) error
}

// Builders returns all available builders.
func Builders() []Builder {
	return []Builder{
		Linux,
		Windows,
		MacOS,
		Preview,
	}
}

// SelectBuilders returns the builders with the given names, in order.
func SelectBuilders(names ...string) ([]Builder, error) {
	all := Builders()
	selected := make([]Builder, 0, len(names))
names:
	for _, name := range names {
		for _, b := range all {
			if b.Name() == name {
				selected = append(selected, b)
				continue names
			}
		}
		return nil, fmt.Errorf("unknown theme builder %q", name)
	}
	return selected, nil
}

// BuildError reports the failure of a single builder.
type BuildError struct {
	Platform string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build %s theme: %s", e.Platform, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Options configures Build.
type Options struct {
	// Builders to run. Defaults to Builders().
	Builders []Builder
	// Parallel runs the builders concurrently.
	Parallel bool
}

// Build builds the theme with every builder into dir/<name>/<builder>/.
// The cursors are copied first, so the caller may keep editing them. Failing
// builders are logged and reported as *BuildError in the returned
// *multierror.Error, they do not stop the other builders.
func Build(t *Theme, dir string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if err := t.check(); err != nil {
		return err
	}
	builders := opts.Builders
	if builders == nil {
		builders = Builders()
	}

	themeDir := filepath.Join(dir, t.Name)
	if err := utils.EnsureDirectory(themeDir, utils.PublicReadPermission); err != nil {
		return fmt.Errorf("failed to create theme directory: %w", err)
	}
	snapshot := t.Copy()

	results := make([]error, len(builders))
	if opts.Parallel {
		// Builders only read the snapshot and each owns its result slot.
		var g errgroup.Group
		for i, b := range builders {
			g.Go(func() error {
				results[i] = runBuilder(b, snapshot, themeDir)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, b := range builders {
			results[i] = runBuilder(b, snapshot, themeDir)
		}
	}

	var errs *multierror.Error
	for _, err := range results {
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func runBuilder(b Builder, t *Theme, themeDir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Debugf("theme: %s builder panicked:\n%s", b.Name(), debug.Stack())
		}
		if err != nil {
			err = &BuildError{Platform: b.Name(), Err: err}
			log.Errorf("theme: %s", err)
		}
	}()

	outDir := filepath.Join(themeDir, b.Name())
	if err := utils.EnsureDirectory(outDir, utils.PublicReadPermission); err != nil {
		return err
	}

	log.Debugf("theme: building %s theme %q", b.Name(), t.Name)
	if err := b.Build(t, outDir); err != nil {
		return err
	}
	log.Infof("theme: built %s theme %q in %s", b.Name(), t.Name, outDir)
	return nil
}
