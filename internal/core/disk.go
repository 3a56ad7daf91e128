package core

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskSpace is a point-in-time view of one filesystem's capacity.
type DiskSpace struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// GetDiskSpace queries the filesystem mounted at root.
func GetDiskSpace(ctx context.Context, root string) (*DiskSpace, error) {
	u, err := disk.UsageWithContext(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("cannot read disk usage for %s: %w", root, err)
	}
	return &DiskSpace{
		Path:        u.Path,
		Fstype:      u.Fstype,
		Total:       u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}

// FreeSpace returns the bytes available to unprivileged users on the
// filesystem mounted at root.
func FreeSpace(ctx context.Context, root string) (uint64, error) {
	ds, err := GetDiskSpace(ctx, root)
	if err != nil {
		return 0, err
	}
	return ds.Free, nil
}
