package analyze

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// DirEntry is one file or directory in a drill-down listing.
type DirEntry struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Size     int64       `json:"size"`
	IsDir    bool        `json:"is_dir"`
	Children []*DirEntry `json:"children,omitempty"`
	Parent   *DirEntry   `json:"-"`
	ModTime  time.Time   `json:"mod_time"`
}

// IsOld returns true if the entry hasn't been modified in 6+ months.
func (e *DirEntry) IsOld() bool {
	return time.Since(e.ModTime) > 180*24*time.Hour
}

// Percentage returns the entry's size as a percentage of its parent's size.
func (e *DirEntry) Percentage(parentSize int64) float64 {
	if parentSize == 0 {
		return 0
	}
	return float64(e.Size) / float64(parentSize) * 100
}

// Scanner measures the direct children of a directory with bounded
// concurrency.
type Scanner struct {
	sem          chan struct{}
	mu           sync.Mutex
	warnings     []string
	scannedCount atomic.Int64
}

// NewScanner creates a scanner that measures at most maxConcurrency
// children at once.
func NewScanner(maxConcurrency int) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &Scanner{sem: make(chan struct{}, maxConcurrency)}
}

// Warnings returns any warnings accumulated during scanning.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// ScannedCount returns the number of children measured so far.
func (s *Scanner) ScannedCount() int64 {
	return s.scannedCount.Load()
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan lists dirPath one level deep, each child sized recursively, children
// sorted by size descending.
func (s *Scanner) Scan(dirPath string, parent *DirEntry) (*DirEntry, error) {
	dirPath = filepath.Clean(dirPath)
	info, err := os.Lstat(dirPath)
	if err != nil {
		return nil, err
	}

	root := &DirEntry{
		Path:    dirPath,
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Parent:  parent,
		ModTime: info.ModTime(),
	}
	if !info.IsDir() {
		root.Size, _ = core.MeasureSize(dirPath)
		return root, nil
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	root.Children = make([]*DirEntry, 0, len(entries))
	var wg sync.WaitGroup
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			s.addWarning("cannot stat " + filepath.Join(dirPath, e.Name()) + ": " + err.Error())
			continue
		}
		child := &DirEntry{
			Path:    filepath.Join(dirPath, e.Name()),
			Name:    e.Name(),
			IsDir:   e.IsDir(),
			Parent:  root,
			ModTime: info.ModTime(),
		}
		root.Children = append(root.Children, child)

		wg.Add(1)
		go func(c *DirEntry) {
			defer wg.Done()
			s.sem <- struct{}{}
			n, err := core.MeasureSize(c.Path)
			<-s.sem
			if err != nil {
				s.addWarning("incomplete size for " + c.Path + ": " + err.Error())
			}
			c.Size = n
			s.scannedCount.Add(1)
		}(child)
	}
	wg.Wait()

	var total int64
	for _, c := range root.Children {
		total += c.Size
	}
	root.Size = total
	sort.SliceStable(root.Children, func(i, j int) bool {
		return root.Children[i].Size > root.Children[j].Size
	})

	return root, nil
}
