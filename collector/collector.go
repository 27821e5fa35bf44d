// Package collector exports perflib objects as Prometheus metrics.
package collector

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/leoluk/typeperf2/perflib"
)

const (
	Namespace = "perflib"

	// Conversion factors
	hundredNsPerSecond = 1e7
)

// Collector is the interface a collector has to implement.
type Collector interface {
	// Get new metrics and expose them via prometheus registry.
	Collect(ch chan<- prometheus.Metric) (err error)
}

// Querier samples perflib objects. *perflib.Registry implements it.
type Querier interface {
	QueryPerformanceData(query string) ([]*perflib.PerfObject, error)
}

type descKey struct {
	object uint
	def    uint
}

type PerflibCollector struct {
	logger       log.Logger
	querier      Querier
	perflibQuery string
	perflibDescs map[descKey]*prometheus.Desc
}

// NewPerflibCollector queries the objects selected by query once to build
// their metric descriptors.
func NewPerflibCollector(logger log.Logger, querier Querier, query string) (*PerflibCollector, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &PerflibCollector{
		logger:       logger,
		querier:      querier,
		perflibQuery: query,
		perflibDescs: make(map[descKey]*prometheus.Desc),
	}

	objects, err := querier.QueryPerformanceData(query)
	if err != nil {
		return nil, fmt.Errorf("query perflib definitions: %w", err)
	}
	level.Debug(logger).Log("msg", "perflib definitions queried", "objects", len(objects))

	// Merged counters share a descriptor.
	merged := make(map[string]*prometheus.Desc)

	for _, object := range objects {
		for _, def := range object.CounterDefs {
			if IsDefPromotedLabel(object.NameIndex, def.NameIndex) {
				continue
			}

			name, desc := descFromCounterDef(object, def)
			if mergedName, _ := MergedLabelsForInstance(object.NameIndex, def.NameIndex); mergedName != "" {
				if _, value := MergedMetricForInstance(object.NameIndex, def.NameIndex); value == "" {
					continue
				}
				key := fmt.Sprintf("%d|%s", object.NameIndex, name)
				if shared, ok := merged[key]; ok {
					desc = shared
				} else {
					merged[key] = desc
				}
			}

			c.perflibDescs[descKey{object.NameIndex, def.NameIndex}] = desc
		}
	}

	return c, nil
}

func (c *PerflibCollector) Collect(ch chan<- prometheus.Metric) (err error) {
	objects, err := c.querier.QueryPerformanceData(c.perflibQuery)
	if err != nil {
		return fmt.Errorf("query perflib: %w", err)
	}

	level.Debug(c.logger).Log("msg", "perflib queried", "objects", len(objects))

	for _, object := range objects {
		n := object.NameIndex
		names := perflib.InstanceNames(object.Instances)

		for i, instance := range object.Instances {
			for _, counter := range instance.Counters {
				if counter == nil {
					level.Debug(c.logger).Log("msg", "nil counter", "object", object.Name, "instance", names[i])
					continue
				}

				if IsDefPromotedLabel(n, counter.Def.NameIndex) {
					continue
				}

				desc, ok := c.perflibDescs[descKey{n, counter.Def.NameIndex}]
				if !ok {
					level.Debug(c.logger).Log("msg", "missing metric description", "object", object.Name, "counter", counter.Def.Name)
					continue
				}

				var labels []string
				if object.MultiInstance {
					labels = append(labels, names[i])
				}

				if HasPromotedLabels(n) {
					labels = append(labels, PromotedLabelValuesForInstance(n, instance)...)
				}

				if HasMergedLabels(n) {
					if name, value := MergedMetricForInstance(n, counter.Def.NameIndex); name != "" {
						labels = append(labels, value)
					}
				}

				valueType, value := counterValue(object, counter)

				metric, err := prometheus.NewConstMetric(desc, valueType, value, labels...)
				if err != nil {
					level.Error(c.logger).Log("msg", "invalid metric", "object", object.Name, "counter", counter.Def.Name, "err", err)
					continue
				}

				ch <- metric
			}
		}
	}

	return nil
}

// counterValue exports cumulative counters and raw counts with their raw
// value, scaled to seconds for 100 ns timers, and everything else with its
// calculated value.
func counterValue(object *perflib.PerfObject, counter *perflib.PerfCounter) (prometheus.ValueType, float64) {
	if counter.Def.IsCounter {
		value := float64(counter.Value)
		if counter.Def.IsNanosecondCounter {
			value = value / hundredNsPerSecond
		}
		return prometheus.CounterValue, value
	}

	switch counter.Def.CounterType {
	case perflib.PERF_COUNTER_RAWCOUNT, perflib.PERF_COUNTER_LARGE_RAWCOUNT:
		return prometheus.GaugeValue, float64(counter.Value)
	}

	v := perflib.Calculate(perflib.CounterSample{}, perflib.CounterSample{
		RawValue:    counter.Value,
		BaseValue:   counter.Base,
		TimeStamp:   object.PerfTime,
		CounterType: counter.Def.CounterType,
	})
	return prometheus.GaugeValue, float64(v)
}
