//go:build windows

package utils

import (
	"github.com/hectane/go-acl"
	"golang.org/x/sys/windows"
)

// SetDirPermission sets the permission of a directory. Errors are ignored, as
// they are expected for non-admin users.
func SetDirPermission(path string, perm FSPermission) error {
	switch perm {
	case AdminOnlyPermission:
		_ = acl.Apply(path, true, false, acl.GrantName(windows.GENERIC_ALL|windows.STANDARD_RIGHTS_ALL, "Administrators"))
	case PublicReadPermission:
		// Admins get full control, users may read and enter.
		_ = acl.Apply(path, true, false, acl.GrantName(windows.GENERIC_ALL|windows.STANDARD_RIGHTS_ALL, "Administrators"))
		_ = acl.Apply(path, false, false, acl.GrantName(windows.GENERIC_EXECUTE|windows.GENERIC_READ, "Users"))
	case PublicWritePermission:
		_ = acl.Apply(path, true, false, acl.GrantName(windows.GENERIC_ALL|windows.STANDARD_RIGHTS_ALL, "Administrators"))
		_ = acl.Apply(path, false, false, acl.GrantName(windows.GENERIC_ALL|windows.STANDARD_RIGHTS_ALL, "Users"))
	}
	return nil
}
