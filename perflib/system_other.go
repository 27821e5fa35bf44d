//go:build !linux

package perflib

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

func bootTime() (time.Time, error) {
	bt, err := host.BootTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("boot time: %w", err)
	}
	return time.Unix(int64(bt), 0), nil
}
