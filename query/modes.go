package query

import (
	"sort"
	"strconv"
	"time"
)

// next2Delay separates the two samples of the next2 mode. Rate counters
// need a time delta between samples to produce a meaningful value.
const next2Delay = 1000 * time.Millisecond

// modes maps each value type to the function that reads and formats it.
var modes = map[string]func(Counter) (string, error){
	"raw":   rawValue,
	"next":  nextValue,
	"next2": secondNextValue,
}

// Modes returns the supported value types in lexical order.
func Modes() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func rawValue(c Counter) (string, error) {
	v, err := c.RawValue()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

func nextValue(c Counter) (string, error) {
	v, err := c.NextValue()
	if err != nil {
		return "", err
	}
	return formatCalculated(v), nil
}

// secondNextValue discards one calculated sample to prime the counter and
// returns the one taken next2Delay later.
func secondNextValue(c Counter) (string, error) {
	if _, err := c.NextValue(); err != nil {
		return "", err
	}
	time.Sleep(next2Delay)
	return nextValue(c)
}

// formatCalculated formats v with the fewest digits that represent it
// exactly, never in exponent form.
func formatCalculated(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
