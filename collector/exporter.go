package collector

import (
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scrapeDurationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "exporter", "collector_duration_seconds"),
		"perflib_exporter: Duration of a collection.",
		[]string{"collector"},
		nil,
	)
	scrapeSuccessDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "exporter", "collector_success"),
		"perflib_exporter: Whether the collector was successful.",
		[]string{"collector"},
		nil,
	)
)

// Exporter implements the prometheus.Collector interface.
type Exporter struct {
	collectors map[string]Collector
	logger     log.Logger
}

func NewExporter(logger log.Logger, collectors map[string]Collector) *Exporter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Exporter{collectors: collectors, logger: logger}
}

// Describe sends all the descriptors of the collectors included to
// the provided channel.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- scrapeDurationDesc
	ch <- scrapeSuccessDesc
}

// Collect runs all collectors concurrently and sends their metrics
// followed by the duration and success of each.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	wg := sync.WaitGroup{}
	wg.Add(len(e.collectors))
	for name, c := range e.collectors {
		go func(name string, c Collector) {
			defer wg.Done()
			execute(e.logger, name, c, ch)
		}(name, c)
	}
	wg.Wait()
}

func execute(logger log.Logger, name string, c Collector, ch chan<- prometheus.Metric) {
	begin := time.Now()
	err := c.Collect(ch)
	duration := time.Since(begin)
	var success float64

	if err != nil {
		level.Error(logger).Log("msg", "collector failed", "name", name, "duration", duration, "err", err)
		success = 0
	} else {
		level.Debug(logger).Log("msg", "collector succeeded", "name", name, "duration", duration)
		success = 1
	}
	ch <- prometheus.MustNewConstMetric(
		scrapeDurationDesc,
		prometheus.GaugeValue,
		duration.Seconds(),
		name,
	)
	ch <- prometheus.MustNewConstMetric(
		scrapeSuccessDesc,
		prometheus.GaugeValue,
		success,
		name,
	)
}
