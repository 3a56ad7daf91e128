package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	kib = int64(1) << 10
	mib = int64(1) << 20
	gib = int64(1) << 30
)

// FormatSize renders a byte count using fixed binary unit thresholds:
// GB and MB with one decimal, KB rounded to an integer, raw bytes otherwise.
// Negative counts render as "0B".
func FormatSize(n int64) string {
	switch {
	case n <= 0:
		return "0B"
	case n >= gib:
		return fmt.Sprintf("%.1fGB", float64(n)/float64(gib))
	case n >= mib:
		return fmt.Sprintf("%.1fMB", float64(n)/float64(mib))
	case n >= kib:
		return fmt.Sprintf("%dKB", int64(math.Round(float64(n)/float64(kib))))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// ParseSize parses a human size such as "500MB", "1.5GiB" or "0".
// Decimal suffixes (MB) are powers of 1000, binary suffixes (MiB) powers of 1024.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}
