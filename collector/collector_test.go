package collector

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoluk/typeperf2/perflib"
)

var sampleTime = time.Unix(1700000000, 0)

type fakeQuerier struct {
	objects []*perflib.PerfObject
	err     error
	queries []string
}

func (q *fakeQuerier) QueryPerformanceData(query string) ([]*perflib.PerfObject, error) {
	q.queries = append(q.queries, query)
	if q.err != nil {
		return nil, q.err
	}
	return q.objects, nil
}

func newObject(name string, index uint, multi bool, defs ...*perflib.PerfCounterDef) *perflib.PerfObject {
	return &perflib.PerfObject{
		Name:          name,
		NameIndex:     index,
		MultiInstance: multi,
		CounterDefs:   defs,
		PerfTime:      sampleTime,
	}
}

func addInstance(obj *perflib.PerfObject, name string, values ...int64) {
	instance := &perflib.PerfInstance{Name: name}
	for i, def := range obj.CounterDefs {
		c := &perflib.PerfCounter{Value: values[i], Def: def}
		if def.CounterType == perflib.PERF_RAW_FRACTION {
			c.Base = 100
		}
		instance.Counters = append(instance.Counters, c)
	}
	obj.Instances = append(obj.Instances, instance)
}

func testObjects() []*perflib.PerfObject {
	system := newObject("System", 2, false,
		perflib.NewCounterDef(674, "System Up Time", perflib.PERF_ELAPSED_TIME, ""),
	)
	addInstance(system, "", sampleTime.Add(-time.Hour).UnixNano()/100)

	memory := newObject("Memory", 4, false,
		perflib.NewCounterDef(24, "Available Bytes", perflib.PERF_COUNTER_LARGE_RAWCOUNT, ""),
		perflib.NewCounterDef(1406, "% Committed Bytes In Use", perflib.PERF_RAW_FRACTION, ""),
		perflib.NewCounterDef(28, "Page Faults/sec", perflib.PERF_COUNTER_COUNTER, ""),
	)
	addInstance(memory, "", 1024, 25, 77)

	processor := newObject("Processor", 238, true,
		perflib.NewCounterDef(6, "% Processor Time", perflib.PERF_PRECISION_100NS_TIMER, ""),
		perflib.NewCounterDef(142, "% User Time", perflib.PERF_PRECISION_100NS_TIMER, ""),
		perflib.NewCounterDef(144, "% Privileged Time", perflib.PERF_PRECISION_100NS_TIMER, ""),
		perflib.NewCounterDef(1746, "% Idle Time", perflib.PERF_PRECISION_100NS_TIMER, ""),
		perflib.NewCounterDef(698, "% Interrupt Time", perflib.PERF_PRECISION_100NS_TIMER, ""),
	)
	addInstance(processor, "0", 70000000, 50000000, 20000000, 300000000, 1000000)

	process := newObject("Process", 230, true,
		perflib.NewCounterDef(6, "% Processor Time", perflib.PERF_100NSEC_TIMER, ""),
		perflib.NewCounterDef(142, "% User Time", perflib.PERF_100NSEC_TIMER, ""),
		perflib.NewCounterDef(784, "ID Process", perflib.PERF_COUNTER_LARGE_RAWCOUNT, ""),
		perflib.NewCounterDef(1410, "Creating Process ID", perflib.PERF_COUNTER_LARGE_RAWCOUNT, ""),
		perflib.NewCounterDef(180, "Working Set", perflib.PERF_COUNTER_LARGE_RAWCOUNT, ""),
	)
	addInstance(process, "bash", 10000000, 10000000, 10, 1, 4096)
	addInstance(process, "bash", 20000000, 20000000, 11, 10, 8192)

	return []*perflib.PerfObject{system, memory, processor, process}
}

func gatherer(t *testing.T, q Querier) *prometheus.Registry {
	t.Helper()
	c, err := NewPerflibCollector(nil, q, "Global")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewExporter(nil, map[string]Collector{"perflib": c}))
	return reg
}

func TestPerflibCollectorSingleInstance(t *testing.T) {
	reg := gatherer(t, &fakeQuerier{objects: testObjects()})

	expected := `
# HELP perflib_memory_available_bytes perflib metric: \\Memory\\Available Bytes [24]
# TYPE perflib_memory_available_bytes gauge
perflib_memory_available_bytes 1024
# HELP perflib_memory_committed_bytes_in_use perflib metric: \\Memory\\% Committed Bytes In Use [1406]
# TYPE perflib_memory_committed_bytes_in_use gauge
perflib_memory_committed_bytes_in_use 25
# HELP perflib_memory_page_faults_total perflib metric: \\Memory\\Page Faults/sec [28]
# TYPE perflib_memory_page_faults_total counter
perflib_memory_page_faults_total 77
# HELP perflib_system_system_up_time perflib metric: \\System\\System Up Time [674]
# TYPE perflib_system_system_up_time gauge
perflib_system_system_up_time 3600
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"perflib_memory_available_bytes",
		"perflib_memory_committed_bytes_in_use",
		"perflib_memory_page_faults_total",
		"perflib_system_system_up_time",
	)
	assert.NoError(t, err)
}

func TestPerflibCollectorMergedProcessorTime(t *testing.T) {
	reg := gatherer(t, &fakeQuerier{objects: testObjects()})

	expected := `
# HELP perflib_processor_processor_time_total perflib metric: Processor(*) times by mode [238]
# TYPE perflib_processor_processor_time_total counter
perflib_processor_processor_time_total{mode="idle",name="0"} 30
perflib_processor_processor_time_total{mode="interrupt",name="0"} 0.1
perflib_processor_processor_time_total{mode="privileged",name="0"} 2
perflib_processor_processor_time_total{mode="user",name="0"} 5
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "perflib_processor_processor_time_total")
	assert.NoError(t, err)
}

func TestPerflibCollectorPromotedLabelsAndDuplicates(t *testing.T) {
	reg := gatherer(t, &fakeQuerier{objects: testObjects()})

	expected := `
# HELP perflib_process_processor_time_total perflib metric: Process(*) times by mode [230]
# TYPE perflib_process_processor_time_total counter
perflib_process_processor_time_total{creating_process_id="1",mode="user",name="bash",process_id="10"} 1
perflib_process_processor_time_total{creating_process_id="10",mode="user",name="bash#1",process_id="11"} 2
# HELP perflib_process_working_set perflib metric: \\Process(*)\\Working Set [180]
# TYPE perflib_process_working_set gauge
perflib_process_working_set{creating_process_id="1",name="bash",process_id="10"} 4096
perflib_process_working_set{creating_process_id="10",name="bash#1",process_id="11"} 8192
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"perflib_process_processor_time_total",
		"perflib_process_working_set",
	)
	assert.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.NotEqual(t, "perflib_process_id_process", mf.GetName())
		assert.NotEqual(t, "perflib_processor_processor_time", mf.GetName())
	}
}

func TestExporterCollectorSuccess(t *testing.T) {
	reg := gatherer(t, &fakeQuerier{objects: testObjects()})

	expected := `
# HELP perflib_exporter_collector_success perflib_exporter: Whether the collector was successful.
# TYPE perflib_exporter_collector_success gauge
perflib_exporter_collector_success{collector="perflib"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "perflib_exporter_collector_success")
	assert.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "perflib_exporter_collector_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExporterCollectorFailure(t *testing.T) {
	q := &fakeQuerier{objects: testObjects()}
	reg := gatherer(t, q)
	q.err = errors.New("boom")

	expected := `
# HELP perflib_exporter_collector_success perflib_exporter: Whether the collector was successful.
# TYPE perflib_exporter_collector_success gauge
perflib_exporter_collector_success{collector="perflib"} 0
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "perflib_exporter_collector_success")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Global", "Global"}, q.queries)
}

func TestNewPerflibCollectorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewPerflibCollector(nil, &fakeQuerier{err: boom}, "Global")
	assert.ErrorIs(t, err, boom)
}

func TestPerflibCollectorSkipsSumCounters(t *testing.T) {
	c, err := NewPerflibCollector(nil, &fakeQuerier{objects: testObjects()[2:3]}, "238")
	require.NoError(t, err)

	assert.Len(t, c.perflibDescs, 4)
	assert.NotContains(t, c.perflibDescs, descKey{238, 6})
	assert.Same(t, c.perflibDescs[descKey{238, 142}], c.perflibDescs[descKey{238, 1746}])
}
