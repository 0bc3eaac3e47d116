package renameio

import (
	"os"
	"path/filepath"
)

// PendingFile is a pending temporary file, waiting to replace the destination
// path in a call to CloseAtomicallyReplace.
type PendingFile struct {
	*os.File

	path   string
	done   bool
	closed bool
}

// TempFile creates a hidden temporary file next to path. Keeping it in the
// same directory guarantees that the final rename stays on one file system.
//
// The file's permissions will be 0600 by default. Use Chmod on the returned
// PendingFile to change them.
func TempFile(path string) (*PendingFile, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path))
	if err != nil {
		return nil, err
	}

	return &PendingFile{File: f, path: path}, nil
}

// Path returns the destination path.
func (t *PendingFile) Path() string {
	return t.path
}

// Cleanup is a no-op if CloseAtomicallyReplace succeeded, and otherwise closes
// and removes the temporary file.
func (t *PendingFile) Cleanup() error {
	if t.done {
		return nil
	}

	var closeErr error
	if !t.closed {
		closeErr = t.Close()
	}
	if err := os.Remove(t.Name()); err != nil {
		return err
	}
	return closeErr
}

// CloseAtomicallyReplace syncs and closes the temporary file and renames it
// over the destination path.
func (t *PendingFile) CloseAtomicallyReplace() error {
	// Without the fsync a zero-length file is a valid outcome after a crash.
	if err := t.Sync(); err != nil {
		return err
	}
	t.closed = true
	if err := t.Close(); err != nil {
		return err
	}
	if err := os.Rename(t.Name(), t.path); err != nil {
		return err
	}
	t.done = true
	return nil
}
