//go:build unix

package core

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// statBlocks reads the allocated size and inode identity of path without
// following symlinks. linked is true for non-directories with more than one
// hard link.
func statBlocks(path string, info fs.FileInfo) (size int64, id fileID, linked bool, ok bool) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, fileID{}, false, false
	}
	id = fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}
	linked = !info.IsDir() && uint64(st.Nlink) > 1
	// st_blocks is always in 512-byte units.
	return int64(st.Blocks) * 512, id, linked, true
}
