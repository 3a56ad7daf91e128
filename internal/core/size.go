package core

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// maxSizeWarnings caps how many per-entry errors MeasureSize keeps.
const maxSizeWarnings = 20

// fileID identifies an inode so hard links are only counted once.
type fileID struct {
	dev uint64
	ino uint64
}

// MeasureSize returns the recursive on-disk size of path in bytes, counting
// allocated blocks the way du does. Symlinks are not followed and every
// hard-linked inode is counted once.
//
// A missing path measures 0 with a nil error. Entries that can't be read are
// skipped; the returned error joins their failures while the size still
// reflects everything that could be read.
func MeasureSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	seen := make(map[fileID]struct{})
	if !info.IsDir() {
		return diskUsage(path, info, seen), nil
	}

	var total int64
	var errs []error
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission denied or vanished mid-walk: skip, don't fail.
			if len(errs) < maxSizeWarnings {
				errs = append(errs, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) && len(errs) < maxSizeWarnings {
				errs = append(errs, err)
			}
			return nil
		}
		total += diskUsage(p, fi, seen)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	return total, errors.Join(errs...)
}

// diskUsage returns the allocated size of a single entry, or 0 when the
// inode was already counted.
func diskUsage(path string, info fs.FileInfo, seen map[fileID]struct{}) int64 {
	blocks, id, linked, ok := statBlocks(path, info)
	if !ok {
		return info.Size()
	}
	if linked {
		if _, dup := seen[id]; dup {
			return 0
		}
		seen[id] = struct{}{}
	}
	return blocks
}
