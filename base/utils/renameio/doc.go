// Package renameio writes files so that readers either see the previous
// content or the complete new content, never a partial write. Theme archives
// are produced through it so that a failed build never leaves a truncated
// bundle behind.
//
// Caveat: this package requires the file system rename(2) implementation to be
// atomic. Notably, this is not the case when using NFS with multiple clients.
package renameio
