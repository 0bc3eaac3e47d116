//go:build !windows

package utils

import "os"

// SetDirPermission sets the permission of a directory.
func SetDirPermission(path string, perm FSPermission) error {
	return os.Chmod(path, perm.AsUnixDirExecPermission())
}
