package theme

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"image"
	"io"
	"path"
	"time"

	"github.com/fogleman/gg"

	"github.com/safing/cursorcreate/base/utils/renameio"
)

const (
	archiveFileMode = 0o666
	archiveDirMode  = 0o777

	outputFileMode = 0o644
)

// tarGzWriter writes a gzip compressed tar archive. Paths always use forward
// slashes.
type tarGzWriter struct {
	gz  *gzip.Writer
	tw  *tar.Writer
	now time.Time
}

func newTarGzWriter(w io.Writer) *tarGzWriter {
	gz := gzip.NewWriter(w)
	return &tarGzWriter{
		gz:  gz,
		tw:  tar.NewWriter(gz),
		now: time.Now(),
	}
}

func (a *tarGzWriter) Dir(name string) error {
	return a.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     archiveDirMode,
		ModTime:  a.now,
	})
}

func (a *tarGzWriter) File(name string, data []byte) error {
	if err := a.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     archiveFileMode,
		Size:     int64(len(data)),
		ModTime:  a.now,
	}); err != nil {
		return err
	}
	_, err := a.tw.Write(data)
	return err
}

func (a *tarGzWriter) Symlink(name, target string) error {
	return a.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeSymlink,
		Name:     name,
		Linkname: target,
		Mode:     archiveFileMode,
		ModTime:  a.now,
	})
}

// Close flushes the tar and gzip streams. It does not close the underlying writer.
func (a *tarGzWriter) Close() error {
	if err := a.tw.Close(); err != nil {
		return err
	}
	return a.gz.Close()
}

// zipWriter writes a zip archive whose entries are marked as created on
// MS-DOS, so that no unix permissions are carried over on extraction.
type zipWriter struct {
	zw  *zip.Writer
	now time.Time
}

func newZipWriter(w io.Writer) *zipWriter {
	return &zipWriter{
		zw:  zip.NewWriter(w),
		now: time.Now(),
	}
}

func (a *zipWriter) File(name string, data []byte) error {
	// The upper byte of CreatorVersion is the creator system, 0 is MS-DOS.
	f, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.now,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// Close finishes the archive. It does not close the underlying writer.
func (a *zipWriter) Close() error {
	return a.zw.Close()
}

// archivePath joins archive path segments.
func archivePath(elem ...string) string {
	return path.Join(elem...)
}

// writeFile atomically writes the output file at filename.
func writeFile(filename string, fn func(w io.Writer) error) error {
	return renameio.WriteWith(filename, outputFileMode, fn)
}

func encodePNG(w io.Writer, img image.Image) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}
