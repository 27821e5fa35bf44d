package main

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/leoluk/typeperf2/collector"
)

// writeMetrics writes the objects selected by query in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, logger log.Logger, querier collector.Querier, query string) error {
	c, err := collector.NewPerflibCollector(logger, querier, query)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(versioncollector.NewCollector("typeperf2"))
	registry.MustRegister(collector.NewExporter(logger, map[string]collector.Collector{
		"perflib": c,
	}))

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	return writeMetricFamilies(w, families)
}

func writeMetricFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
