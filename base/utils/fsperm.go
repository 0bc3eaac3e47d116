package utils

import "io/fs"

// FSPermission is a platform independent permission level for created
// directories.
type FSPermission uint8

// Permission levels.
const (
	AdminOnlyPermission FSPermission = iota
	PublicReadPermission
	PublicWritePermission
)

// AsUnixDirExecPermission returns the corresponding unix permission for a directory.
func (perm FSPermission) AsUnixDirExecPermission() fs.FileMode {
	switch perm {
	case AdminOnlyPermission:
		return 0o700
	case PublicReadPermission:
		return 0o755
	case PublicWritePermission:
		return 0o777
	}

	return 0
}
