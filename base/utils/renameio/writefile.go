package renameio

import (
	"io"
	"os"
	"runtime"

	"github.com/hectane/go-acl"
)

// Chmod sets the permissions of the pending file. On Windows the permission
// bits are translated to an ACL.
func (t *PendingFile) Chmod(perm os.FileMode) error {
	if runtime.GOOS == "windows" {
		return acl.Chmod(t.Name(), perm)
	}
	return t.File.Chmod(perm)
}

// WriteFile mirrors os.WriteFile, replacing an existing file with the same
// name atomically.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return WriteWith(filename, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteWith creates filename atomically with the content written by fn. If fn
// fails, the destination is left untouched.
func WriteWith(filename string, perm os.FileMode, fn func(w io.Writer) error) error {
	t, err := TempFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = t.Cleanup()
	}()

	// Set permissions before writing data.
	if err := t.Chmod(perm); err != nil {
		return err
	}

	if err := fn(t); err != nil {
		return err
	}

	return t.CloseAtomicallyReplace()
}
