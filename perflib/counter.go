package perflib

import (
	"fmt"
)

// PerformanceCounter is a handle to one counter of one instance. It is not
// safe for concurrent use.
type PerformanceCounter struct {
	CategoryName string
	CounterName  string
	InstanceName string

	registry *Registry
	object   *objectType
	def      *PerfCounterDef

	// previous sample of NextValue, zero before the first call
	old CounterSample
}

// CounterType returns the type of the counter, one of the PERF_ constants.
func (c *PerformanceCounter) CounterType() uint32 {
	return c.def.CounterType
}

// Def returns the counter definition.
func (c *PerformanceCounter) Def() *PerfCounterDef {
	return c.def
}

// NextSample reads the counter once.
func (c *PerformanceCounter) NextSample() (CounterSample, error) {
	obj, err := c.object.sample(c.registry.now())
	if err != nil {
		return CounterSample{}, err
	}

	var instance *PerfInstance
	if c.object.multiInstance {
		instance = findInstance(obj, c.InstanceName)
	} else if len(obj.Instances) > 0 {
		instance = obj.Instances[0]
	}
	if instance == nil {
		return CounterSample{}, fmt.Errorf("%w: %s for %s:%s", ErrInstanceNotFound, c.InstanceName, c.CategoryName, c.CounterName)
	}

	for _, counter := range instance.Counters {
		if counter.Def == c.def {
			return CounterSample{
				RawValue:    counter.Value,
				BaseValue:   counter.Base,
				TimeStamp:   obj.PerfTime,
				CounterType: c.def.CounterType,
			}, nil
		}
	}

	return CounterSample{}, fmt.Errorf("%w: %s:%s", ErrCounterNotFound, c.CategoryName, c.CounterName)
}

// RawValue reads the uncalculated value of the counter. It does not affect
// the state kept by NextValue.
func (c *PerformanceCounter) RawValue() (int64, error) {
	s, err := c.NextSample()
	if err != nil {
		return 0, err
	}
	return s.RawValue, nil
}

// NextValue reads the counter and returns its value calculated against the
// sample of the previous call. For rate and timer counters the first call
// returns 0.
func (c *PerformanceCounter) NextValue() (float32, error) {
	s, err := c.NextSample()
	if err != nil {
		return 0, err
	}

	value := Calculate(c.old, s)
	c.old = s

	return value, nil
}
