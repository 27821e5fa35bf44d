package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoluk/typeperf2/perflib"
)

type fakeQuerier struct {
	objects []*perflib.PerfObject
	delays  map[string]time.Duration
	err     map[string]error
	queries []string
}

func (q *fakeQuerier) QueryPerformanceData(query string) ([]*perflib.PerfObject, error) {
	q.queries = append(q.queries, query)
	time.Sleep(q.delays[query])
	return q.objects, q.err[query]
}

func TestBenchmark(t *testing.T) {
	q := &fakeQuerier{
		objects: []*perflib.PerfObject{
			{Name: "Memory", NameIndex: 4},
			{Name: "Process", NameIndex: 230},
		},
		delays: map[string]time.Duration{"230": 20 * time.Millisecond},
	}

	timings, err := benchmark(q, "Global")
	require.NoError(t, err)

	assert.Equal(t, []string{"Global", "4", "230"}, q.queries)
	require.Len(t, timings, 2)
	assert.Equal(t, uint(230), timings[0].index)
	assert.Equal(t, "Process", timings[0].name)
	assert.GreaterOrEqual(t, timings[0].value, 20*time.Millisecond)
	assert.Equal(t, uint(4), timings[1].index)
}

func TestBenchmarkErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := benchmark(&fakeQuerier{err: map[string]error{"Global": boom}}, "Global")
	assert.ErrorIs(t, err, boom)

	q := &fakeQuerier{
		objects: []*perflib.PerfObject{{Name: "Memory", NameIndex: 4}},
		err:     map[string]error{"4": boom},
	}
	_, err = benchmark(q, "Global")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "query Memory")
}

func TestWriteTimings(t *testing.T) {
	var buf bytes.Buffer
	writeTimings(&buf, []objectTimings{
		{index: 230, name: "Process", value: time.Millisecond},
		{index: 4, name: "Memory", value: 100 * time.Microsecond},
	})

	assert.Equal(t, "█████ 230 Process 1ms\n 4 Memory 100µs\n", buf.String())
}
