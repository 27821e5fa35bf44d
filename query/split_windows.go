//go:build windows

package query

import (
	"strings"

	"golang.org/x/sys/windows"
)

// SplitCommandLine splits line into arguments with CommandLineToArgvW, the
// rules Windows programs parse their own command line with.
func SplitCommandLine(line string) ([]string, error) {
	// CommandLineToArgvW returns the program path for an empty line.
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	return windows.DecomposeCommandLine(line)
}
