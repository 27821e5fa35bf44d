// Package query runs a single counter query: it normalizes the command
// line, validates the counter reference against a Registry, samples the
// counter in the requested mode and writes the value.
package query

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/leoluk/typeperf2/perflib"
)

const usage = `Usage:
TypePerf2 <value type> <category> <counter> [instance]
    where type is any of:
        raw => the raw value of the counter
        next2 => the second calculated value
        next => the calculated value`

// Counter is a live handle to one counter.
type Counter interface {
	RawValue() (int64, error)
	// NextValue is stateful: each value is calculated against the sample
	// taken by the previous call.
	NextValue() (float32, error)
}

// Registry is the performance counter registry queries are validated and
// sampled against.
type Registry interface {
	CategoryExists(category string) bool
	CounterExists(counter, category string) bool
	InstanceExists(instance, category string) (bool, error)
	Open(category, counter, instance string) (Counter, error)
}

// Perflib returns a Registry backed by r.
func Perflib(r *perflib.Registry) Registry {
	return perflibRegistry{r}
}

type perflibRegistry struct {
	*perflib.Registry
}

func (r perflibRegistry) Open(category, counter, instance string) (Counter, error) {
	c, err := r.NewCounter(category, counter, instance)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Outcome is how a query ended.
type Outcome int

const (
	Failed Outcome = iota
	Sampled
	Usage
	UnsupportedMode
	CategoryNotFound
	CounterNotFound
	InstanceNotFound
)

var outcomeNames = map[Outcome]string{
	Failed:           "failed",
	Sampled:          "sampled",
	Usage:            "usage",
	UnsupportedMode:  "unsupported mode",
	CategoryNotFound: "category not found",
	CounterNotFound:  "counter not found",
	InstanceNotFound: "instance not found",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ExitCode is the process exit status for o when distinct exit codes are
// requested.
func (o Outcome) ExitCode() int {
	switch o {
	case Sampled:
		return 0
	case Usage:
		return 2
	case UnsupportedMode:
		return 3
	case CategoryNotFound:
		return 4
	case CounterNotFound:
		return 5
	case InstanceNotFound:
		return 6
	}
	return 1
}

// Runner runs queries against a registry and writes results to out.
type Runner struct {
	registry Registry
	out      io.Writer
	logger   log.Logger
	split    func(string) ([]string, error)
}

func NewRunner(registry Registry, out io.Writer, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		registry: registry,
		out:      out,
		logger:   logger,
		split:    SplitCommandLine,
	}
}

// Run runs the query given by args, either
//
//	<mode> <category> <counter> [instance]
//
// or the same as a single command line string. Every rejected query is
// reported with one line on out and a non-Sampled outcome; the returned
// error is only set when the command line cannot be split or the registry
// fails.
func (r *Runner) Run(args []string) (Outcome, error) {
	if len(args) == 1 {
		split, err := r.split(args[0])
		if err != nil {
			return Failed, fmt.Errorf("split command line %q: %w", args[0], err)
		}
		level.Debug(r.logger).Log("msg", "split command line", "line", args[0], "args", strings.Join(split, "|"))
		args = split
	}

	if len(args) != 3 && len(args) != 4 {
		r.println(usage)
		return Usage, nil
	}

	mode, category, counter := args[0], args[1], args[2]
	instance := ""
	if len(args) == 4 {
		instance = args[3]
	}

	sample, ok := modes[mode]
	if !ok {
		r.println(fmt.Sprintf("'%s' is not a supported type", mode))
		return UnsupportedMode, nil
	}

	if !r.registry.CategoryExists(category) {
		r.println(fmt.Sprintf("Performance counter category %s does not exist", category))
		return CategoryNotFound, nil
	}
	if !r.registry.CounterExists(counter, category) {
		r.println(fmt.Sprintf("Performance counter %s:%s does not exist", category, counter))
		return CounterNotFound, nil
	}
	if instance != "" {
		exists, err := r.registry.InstanceExists(instance, category)
		if err != nil {
			return Failed, fmt.Errorf("look up instance %s of %s: %w", instance, category, err)
		}
		if !exists {
			r.println(fmt.Sprintf("There is no instance %s for performance counter %s:%s", instance, category, counter))
			return InstanceNotFound, nil
		}
	}

	c, err := r.registry.Open(category, counter, instance)
	if err != nil {
		return Failed, fmt.Errorf("open counter %s:%s: %w", category, counter, err)
	}

	value, err := sample(c)
	if err != nil {
		return Failed, fmt.Errorf("read %s value of %s:%s: %w", mode, category, counter, err)
	}
	level.Debug(r.logger).Log("msg", "sampled counter", "mode", mode, "category", category,
		"counter", counter, "instance", instance, "value", value)

	if _, err := io.WriteString(r.out, value); err != nil {
		return Failed, fmt.Errorf("write value: %w", err)
	}

	return Sampled, nil
}

func (r *Runner) println(message string) {
	if _, err := fmt.Fprintln(r.out, message); err != nil {
		level.Warn(r.logger).Log("msg", "cannot write message", "err", err)
	}
}
