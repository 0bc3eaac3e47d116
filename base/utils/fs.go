// Package utils provides file system helpers for writing theme output.
package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
)

const isWindows = runtime.GOOS == "windows"

// EnsureDirectory ensures that the given directory and its parents exist and
// that it has the given permissions set.
// If path is a file, it is deleted and a directory created.
func EnsureDirectory(path string, perm FSPermission) error {
	f, err := os.Stat(path)
	if err == nil {
		if f.IsDir() {
			if isWindows {
				// Fails for non-admin users.
				_ = SetDirPermission(path, perm)
				return nil
			} else if f.Mode().Perm() != perm.AsUnixDirExecPermission() {
				return SetDirPermission(path, perm)
			}
			return nil
		}
		err = os.Remove(path)
		if err != nil {
			return fmt.Errorf("could not remove file %s to place dir: %w", path, err)
		}
	}

	if err == nil || errors.Is(err, fs.ErrNotExist) {
		err = os.MkdirAll(path, perm.AsUnixDirExecPermission())
		if err != nil {
			return fmt.Errorf("could not create dir %s: %w", path, err)
		}
		err = SetDirPermission(path, perm)
		if !isWindows {
			return err
		}
		return nil
	}
	return fmt.Errorf("failed to access %s: %w", path, err)
}
