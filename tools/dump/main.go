// Command dump prints the perflib objects selected by a query.
package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/leoluk/typeperf2/perflib"
)

func main() {
	var (
		args = kingpin.Arg("query",
			"Perflib query: Global or a list of object indices").Required().Strings()
		showValues = kingpin.Flag("values",
			"Show counter values").Short('v').Bool()
		defsOnly = kingpin.Flag("defs-only",
			"Show definitions only (no instances) and include Prometheus names").Short('o').Bool()
		unsorted = kingpin.Flag("unsorted",
			"Do not sort objects").Short('u').Bool()
		format = kingpin.Flag("format",
			"Output format").Default("text").Enum("text", "prom", "html")
		spewDump = kingpin.Flag("spew",
			"Dump the raw object structures").Bool()
	)

	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := newLogger(os.Stderr)

	query := strings.Join(*args, " ")
	registry := perflib.NewRegistry()

	if *format == "prom" {
		if err := writeMetrics(os.Stdout, logger, registry, query); err != nil {
			level.Error(logger).Log("msg", "cannot export metrics", "query", query, "err", err)
			os.Exit(1)
		}
		return
	}

	tStart := time.Now()
	objects, err := registry.QueryPerformanceData(query)
	queryTime := time.Since(tStart)
	if err != nil {
		level.Error(logger).Log("msg", "perflib query failed", "query", query, "err", err)
		os.Exit(1)
	}

	if !*unsorted {
		perflib.SortObjects(objects)
	}

	switch {
	case *spewDump:
		spew.Fdump(os.Stdout, objects)
	case *format == "html":
		err = writeHTML(os.Stdout, dumpTpl{
			Objects:   objects,
			Query:     query,
			QueryTime: queryTime,
			Count:     countCounters(objects),
		})
	default:
		writeText(os.Stdout, objects, textOptions{values: *showValues, defsOnly: *defsOnly})
	}

	if err != nil {
		level.Error(logger).Log("msg", "cannot write dump", "err", err)
		os.Exit(1)
	}
	level.Debug(logger).Log("msg", "dump written", "objects", len(objects), "duration", queryTime)
}

func countCounters(objects []*perflib.PerfObject) int {
	count := 0
	for _, o := range objects {
		for _, i := range o.Instances {
			count += len(i.Counters)
		}
	}
	return count
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
