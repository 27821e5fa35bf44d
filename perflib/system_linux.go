//go:build linux

package perflib

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func bootTime() (time.Time, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return time.Time{}, fmt.Errorf("sysinfo: %w", err)
	}

	return time.Now().Add(-time.Duration(info.Uptime) * time.Second), nil
}
