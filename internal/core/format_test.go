package core

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{-5, "0B"},
		{1, "1B"},
		{1023, "1023B"},
		{1024, "1KB"},
		{1536, "2KB"},
		{10 * 1024, "10KB"},
		{1024*1024 - 1, "1024KB"},
		{1024 * 1024, "1.0MB"},
		{10 * 1024 * 1024, "10.0MB"},
		{1536 * 1024, "1.5MB"},
		{1073741824, "1.0GB"},
		{5 * 1073741824 / 2, "2.5GB"},
		{2 << 40, "2048.0GB"},
		{math.MaxInt64, "8589934592.0GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFormatSize_Deterministic(t *testing.T) {
	for _, n := range []int64{0, 999, 4096, 123456789, 1 << 41} {
		if a, b := FormatSize(n), FormatSize(n); a != b {
			t.Errorf("FormatSize(%d) not deterministic: %q vs %q", n, a, b)
		}
	}
}

// splitTier separates the numeric part from the unit suffix.
func splitTier(s string) (float64, string) {
	i := strings.IndexFunc(s, func(r rune) bool { return r == 'B' || r == 'K' || r == 'M' || r == 'G' })
	v, _ := strconv.ParseFloat(s[:i], 64)
	return v, s[i:]
}

func TestFormatSize_MonotonicWithinTier(t *testing.T) {
	samples := []int64{0, 1, 512, 1023, 1024, 2047, 4096, 500000, 1 << 20, 3 << 20, 900 << 20, 1 << 30, 7 << 30, 1 << 40}
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			va, ua := splitTier(FormatSize(samples[i]))
			vb, ub := splitTier(FormatSize(samples[j]))
			if ua != ub {
				continue
			}
			if va > vb {
				t.Errorf("expected %s <= %s", FormatSize(samples[i]), FormatSize(samples[j]))
			}
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"10MB", 10 * 1000 * 1000, false},
		{"1GiB", 1 << 30, false},
		{"512 KiB", 512 << 10, false},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q): expected error, got nil", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
