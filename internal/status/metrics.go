package status

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// ─── Metric types ────────────────────────────────────────────────────────────

// SystemMetrics is one status snapshot.
type SystemMetrics struct {
	CollectedAt  time.Time        `json:"collected_at"`
	Host         HostInfo         `json:"host"`
	Boot         core.DiskSpace   `json:"boot_volume"`
	Volumes      []core.DiskSpace `json:"volumes"`
	Memory       MemoryInfo       `json:"memory"`
	Snapshots    []Snapshot       `json:"snapshots"`
	SnapshotNote string           `json:"snapshot_note,omitempty"`
}

// HostInfo describes the machine.
type HostInfo struct {
	Hostname     string        `json:"hostname"`
	OSVersion    string        `json:"os_version"`
	Architecture string        `json:"arch"`
	Uptime       time.Duration `json:"uptime"`
}

// MemoryInfo is the virtual memory summary.
type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// Snapshot is one local snapshot with its creation time when known.
type Snapshot struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created,omitzero"`
}

// Age renders the snapshot age relative to now, e.g. "3 hours ago".
func (s Snapshot) Age(now time.Time) string {
	if s.Created.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(s.Created, now, "ago", "from now")
}

// ─── Collection ──────────────────────────────────────────────────────────────

// Collector gathers SystemMetrics for the volume mounted at Root.
type Collector struct {
	Root      string
	Snapshots clean.SnapshotManager
	Now       func() time.Time
}

// Collect reads disk, memory, host and snapshot state. Only a failure to read
// the boot volume is an error; the rest degrades to empty values.
func (c *Collector) Collect(ctx context.Context) (*SystemMetrics, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	root := c.Root
	if root == "" {
		root = "/"
	}

	boot, err := core.GetDiskSpace(ctx, root)
	if err != nil {
		return nil, err
	}

	m := &SystemMetrics{
		CollectedAt: now(),
		Boot:        *boot,
		Volumes:     externalVolumes(ctx, root),
		Host:        hostInfo(ctx),
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		m.Memory = MemoryInfo{Total: vm.Total, Used: vm.Used, UsedPercent: vm.UsedPercent}
	}

	if c.Snapshots != nil {
		ids, err := c.Snapshots.List(ctx)
		switch {
		case errors.Is(err, clean.ErrToolAbsent):
			m.SnapshotNote = "tmutil not available"
		case err != nil:
			m.SnapshotNote = err.Error()
		}
		for _, id := range ids {
			s := Snapshot{ID: id}
			if t, ok := clean.SnapshotTime(id); ok {
				s.Created = t
			}
			m.Snapshots = append(m.Snapshots, s)
		}
	}

	return m, nil
}

func hostInfo(ctx context.Context) HostInfo {
	hi := HostInfo{
		OSVersion:    core.MacOSVersionString(),
		Architecture: runtime.GOARCH,
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		hi.Hostname = info.Hostname
		hi.Uptime = time.Duration(info.Uptime) * time.Second
	} else if h, err := os.Hostname(); err == nil {
		hi.Hostname = h
	}
	return hi
}

// externalVolumes lists mounted volumes under /Volumes other than root.
func externalVolumes(ctx context.Context, root string) []core.DiskSpace {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil
	}
	var out []core.DiskSpace
	seen := map[string]bool{root: true}
	for _, p := range parts {
		if seen[p.Mountpoint] || !strings.HasPrefix(p.Mountpoint, "/Volumes/") {
			continue
		}
		seen[p.Mountpoint] = true
		ds, err := core.GetDiskSpace(ctx, p.Mountpoint)
		if err != nil || ds.Total == 0 {
			continue
		}
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Pressure labels how full a volume is.
func Pressure(usedPercent float64) string {
	switch {
	case usedPercent >= 95:
		return "CRITICAL"
	case usedPercent >= 85:
		return "LOW SPACE"
	case usedPercent >= 70:
		return "FAIR"
	default:
		return "HEALTHY"
	}
}
