package core

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// GetMacOSVersion returns the major, minor, and patch numbers of the running
// macOS release. All three are zero when the platform version can't be read.
func GetMacOSVersion() (major, minor, patch int) {
	_, _, version, err := host.PlatformInformation()
	if err != nil {
		return 0, 0, 0
	}
	return parseVersion(version)
}

// parseVersion splits a dotted version such as "14.5" or "13.6.7".
func parseVersion(version string) (major, minor, patch int) {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 3)
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2]
}

// IsMacOS reports whether the binary is running on macOS.
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

// HasAPFSSnapshots checks if the running release manages local APFS snapshots
// through tmutil. Local snapshots moved to APFS with High Sierra (10.13).
func HasAPFSSnapshots() bool {
	major, minor, _ := GetMacOSVersion()
	return major > 10 || (major == 10 && minor >= 13)
}

// MacOSVersionString returns a human-readable macOS version string.
// Examples: "macOS Sonoma 14.5 (arm64)", "macOS 15.1 (amd64)"
func MacOSVersionString() string {
	major, minor, patch := GetMacOSVersion()
	if major == 0 {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}

	var name string
	switch major {
	case 15:
		name = "Sequoia"
	case 14:
		name = "Sonoma"
	case 13:
		name = "Ventura"
	case 12:
		name = "Monterey"
	case 11:
		name = "Big Sur"
	}

	version := fmt.Sprintf("%d.%d", major, minor)
	if patch > 0 {
		version += fmt.Sprintf(".%d", patch)
	}
	if name != "" {
		return fmt.Sprintf("macOS %s %s (%s)", name, version, runtime.GOARCH)
	}
	return fmt.Sprintf("macOS %s (%s)", version, runtime.GOARCH)
}
