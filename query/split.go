//go:build !windows

package query

import (
	"fmt"

	"github.com/mattn/go-shellwords"
)

// SplitCommandLine splits line into arguments following POSIX shell
// quoting. Environment variables and backquotes are not expanded. Shell
// operators such as ; and | and parentheses must be quoted.
func SplitCommandLine(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, err
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unquoted shell operator at position %d", p.Position)
	}
	return args, nil
}
