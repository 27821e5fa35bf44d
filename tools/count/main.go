// Command count prints the number of counters returned by a perflib query.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/leoluk/typeperf2/perflib"
)

func main() {
	args := kingpin.Arg("query", "Perflib query: Global or a list of object indices").Required().Strings()
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := newLogger(os.Stderr)
	query := strings.Join(*args, " ")

	objects, err := perflib.QueryPerformanceData(query)
	if err != nil {
		level.Error(logger).Log("msg", "perflib query failed", "query", query, "err", err)
		os.Exit(1)
	}

	fmt.Printf("\nNumber of counters: %d\n", countCounters(objects))
}

func countCounters(objects []*perflib.PerfObject) int {
	numCounters := 0
	for _, object := range objects {
		for _, instance := range object.Instances {
			numCounters += len(instance.Counters)
		}
	}
	return numCounters
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
