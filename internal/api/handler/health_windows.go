//go:build windows

package handler

import "golang.org/x/sys/windows"

// getDiskStats returns disk usage statistics for the volume holding path.
func getDiskStats(path string) (total, free, used int64, usedPct float64) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return
	}
	var avail, tot, totFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &avail, &tot, &totFree); err != nil {
		return
	}
	total = int64(tot)
	free = int64(avail)
	used = total - int64(totFree)
	if total > 0 {
		usedPct = float64(used) / float64(total) * 100
	}
	return
}

// Process CPU time is not sampled on Windows.
func getCPUUsage() float64 {
	return 0
}
