package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/common/version"

	"github.com/leoluk/typeperf2/perflib"
	"github.com/leoluk/typeperf2/query"
)

func main() {
	os.Exit(run(os.Args[1:], query.Perflib(perflib.NewRegistry()), os.Stdout, os.Stderr))
}

// run executes one counter query and returns the process exit status.
func run(args []string, registry query.Registry, stdout, stderr io.Writer) int {
	app := kingpin.New("typeperf2",
		"Prints the value of a performance counter.\n\n"+
			"Arguments: <value type> <category> <counter> [instance], or all of them as one command line string. "+
			"Flags are only recognized before the first argument; use -- to end them.")

	var (
		logLevel = app.Flag(
			"log.level", "Only log messages with the given severity or above. One of: [debug, info, warn, error]").
			Default("warn").Envar("TYPEPERF2_LOG_LEVEL").Enum("debug", "info", "warn", "error")
		exitCodes = app.Flag(
			"exit-codes", "Exit with a distinct non-zero status for each kind of rejected query.").Bool()
	)

	terminated, status := false, 0
	app.Version(version.Print("typeperf2"))
	app.UsageWriter(stderr).ErrorWriter(stderr)
	app.Terminate(func(code int) {
		terminated, status = true, code
	})

	flags, rest := splitFlags(app, args)
	if _, err := app.Parse(flags); err != nil {
		app.Errorf("%s", err)
		return 1
	}
	if terminated {
		return status
	}

	logger := newLogger(stderr, *logLevel)

	runner := query.NewRunner(registry, stdout, logger)
	outcome, err := runner.Run(rest)
	if err != nil {
		level.Error(logger).Log("msg", "counter query failed", "err", err)
		return 1
	}

	level.Debug(logger).Log("msg", "query finished", "outcome", outcome)
	if *exitCodes {
		return outcome.ExitCode()
	}
	return 0
}

// splitFlags returns the leading run of known long flags, with their values,
// and the query arguments after them. A "--" ends the flags and is dropped.
// Everything else, including tokens starting with - or @, is left for the
// query untouched.
func splitFlags(app *kingpin.Application, args []string) (flags, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args[:i], args[i+1:]
		}
		if !strings.HasPrefix(arg, "--") {
			return args[:i], args[i:]
		}

		name, _, hasValue := strings.Cut(arg[2:], "=")
		flag := app.GetFlag(name)
		if flag == nil && strings.HasPrefix(name, "no-") {
			if f := app.GetFlag(strings.TrimPrefix(name, "no-")); f != nil && f.Model().IsBoolFlag() {
				flag = f
			}
		}
		if flag == nil {
			return args[:i], args[i:]
		}

		if !hasValue && !flag.Model().IsBoolFlag() {
			i++
		}
	}
	return args, nil
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowWarn()
	}

	return level.NewFilter(logger, allow)
}
