// Command benchmark times the query of every perflib object selected by a
// query, slowest first.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/leoluk/typeperf2/perflib"
)

type objectTimings struct {
	index uint
	name  string
	value time.Duration
}

type querier interface {
	QueryPerformanceData(query string) ([]*perflib.PerfObject, error)
}

func main() {
	args := kingpin.Arg("query", "Perflib query: Global or a list of object indices").Required().Strings()
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := newLogger(os.Stderr)
	query := strings.Join(*args, " ")

	timings, err := benchmark(perflib.NewRegistry(), query)
	if err != nil {
		level.Error(logger).Log("msg", "benchmark failed", "query", query, "err", err)
		os.Exit(1)
	}

	writeTimings(os.Stdout, timings)
}

// benchmark queries every object selected by query on its own.
func benchmark(q querier, query string) ([]objectTimings, error) {
	objects, err := q.QueryPerformanceData(query)
	if err != nil {
		return nil, err
	}

	timings := make([]objectTimings, 0, len(objects))

	for _, o := range objects {
		tStart := time.Now()
		if _, err := q.QueryPerformanceData(strconv.Itoa(int(o.NameIndex))); err != nil {
			return nil, fmt.Errorf("query %s: %w", o.Name, err)
		}
		timings = append(timings, objectTimings{
			index: o.NameIndex,
			name:  o.Name,
			value: time.Since(tStart),
		})
	}

	sort.SliceStable(timings, func(i, j int) bool {
		return timings[i].value > timings[j].value
	})

	return timings, nil
}

func writeTimings(w io.Writer, timings []objectTimings) {
	for _, v := range timings {
		// One block per 0.2ms.
		bar := strings.Repeat("█", int(v.value/(200*time.Microsecond)))
		fmt.Fprintf(w, "%s %d %s %s\n", bar, v.index, v.name, v.value)
	}
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
