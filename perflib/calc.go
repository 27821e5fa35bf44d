package perflib

import (
	"time"
)

// CounterSample is one reading of a counter.
type CounterSample struct {
	RawValue    int64
	BaseValue   int64
	TimeStamp   time.Time
	CounterType uint32
}

// Calculate derives the calculated value of a counter from two samples.
// Instantaneous counter types only look at cur. Delta counter types return
// 0 when old is the zero sample, when the samples are of different types,
// when no time or base has elapsed and when the raw value went backwards.
func Calculate(old, cur CounterSample) float32 {
	switch cur.CounterType {
	case PERF_COUNTER_RAWCOUNT, PERF_COUNTER_LARGE_RAWCOUNT:
		return float32(cur.RawValue)

	case PERF_RAW_FRACTION:
		if cur.BaseValue == 0 {
			return 0
		}
		return float32(100 * float64(cur.RawValue) / float64(cur.BaseValue))

	case PERF_ELAPSED_TIME:
		if cur.RawValue == 0 {
			return 0
		}
		// The raw value is the start time in 100 ns units since the Unix epoch.
		elapsed := cur.TimeStamp.Sub(time.Unix(0, cur.RawValue*100))
		if elapsed < 0 {
			return 0
		}
		return float32(elapsed.Seconds())
	}

	if old.TimeStamp.IsZero() || old.CounterType != cur.CounterType {
		return 0
	}

	delta := cur.RawValue - old.RawValue
	if delta < 0 {
		return 0
	}
	elapsed := cur.TimeStamp.Sub(old.TimeStamp)

	switch cur.CounterType {
	case PERF_COUNTER_COUNTER, PERF_COUNTER_BULK_COUNT:
		if elapsed <= 0 {
			return 0
		}
		return float32(float64(delta) / elapsed.Seconds())

	case PERF_100NSEC_TIMER:
		ticks := elapsed.Nanoseconds() / 100
		if ticks <= 0 {
			return 0
		}
		return float32(100 * float64(delta) / float64(ticks))

	case PERF_PRECISION_100NS_TIMER:
		base := cur.BaseValue - old.BaseValue
		if base <= 0 {
			return 0
		}
		return float32(100 * float64(delta) / float64(base))
	}

	return 0
}
