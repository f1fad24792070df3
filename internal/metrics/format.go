package metrics

import "fmt"

const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
)

// FormatBytes formats a byte count in the largest 1024-based unit whose
// value is at least 1, up to GB. Whole bytes are printed without decimals.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= gib:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gib)
	case bytes >= mib:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mib)
	case bytes >= kib:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kib)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatRate formats a bytes-per-second rate using the same units as FormatBytes.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	switch {
	case bytesPerSecond >= gib:
		return fmt.Sprintf("%.2f GB/s", bytesPerSecond/gib)
	case bytesPerSecond >= mib:
		return fmt.Sprintf("%.2f MB/s", bytesPerSecond/mib)
	case bytesPerSecond >= kib:
		return fmt.Sprintf("%.2f KB/s", bytesPerSecond/kib)
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSecond)
	}
}

// UsagePercent returns used/total as a percentage, or 0 when total is 0.
func UsagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// Rate returns the per-second change between two cumulative counters.
// A counter that went backwards (reset or wrap) yields 0.
func Rate(prev, cur uint64, seconds float64) float64 {
	if seconds <= 0 || cur < prev {
		return 0
	}
	return float64(cur-prev) / seconds
}

// saturatingSub returns a-b, or 0 if b > a.
func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
