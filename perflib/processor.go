package perflib

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
)

const totalInstance = "_Total"

// ticks converts seconds to 100 ns units.
func ticks(seconds float64) int64 {
	return int64(seconds * 1e7)
}

func processorObject() *objectType {
	return &objectType{
		name:          "Processor",
		nameIndex:     238,
		helpText:      "Time spent by each logical processor, and by all of them in _Total.",
		multiInstance: true,
		defs: []*PerfCounterDef{
			NewCounterDef(6, "% Processor Time", PERF_PRECISION_100NS_TIMER,
				"Percentage of time the processor spent executing non-idle work."),
			NewCounterDef(142, "% User Time", PERF_PRECISION_100NS_TIMER,
				"Percentage of time spent in user mode, including niced processes."),
			NewCounterDef(144, "% Privileged Time", PERF_PRECISION_100NS_TIMER,
				"Percentage of time spent in kernel mode."),
			NewCounterDef(1746, "% Idle Time", PERF_PRECISION_100NS_TIMER,
				"Percentage of time the processor was idle or waiting for I/O."),
			NewCounterDef(698, "% Interrupt Time", PERF_PRECISION_100NS_TIMER,
				"Percentage of time spent servicing hardware and software interrupts."),
		},
		collect: collectProcessor,
	}
}

func collectProcessor() ([]instanceValues, error) {
	perCPU, err := cpu.Times(true)
	if err != nil {
		return nil, fmt.Errorf("per-cpu times: %w", err)
	}
	total, err := cpu.Times(false)
	if err != nil {
		return nil, fmt.Errorf("cpu times: %w", err)
	}
	return processorInstances(perCPU, total), nil
}

func processorInstances(perCPU, total []cpu.TimesStat) []instanceValues {
	instances := make([]instanceValues, 0, len(perCPU)+1)

	for _, t := range perCPU {
		instances = append(instances, instanceValues{
			name:   strings.TrimPrefix(t.CPU, "cpu"),
			values: processorValues(t),
		})
	}
	if len(total) > 0 {
		instances = append(instances, instanceValues{
			name:   totalInstance,
			values: processorValues(total[0]),
		})
	}

	return instances
}

func processorValues(t cpu.TimesStat) map[string]rawValue {
	idle := t.Idle + t.Iowait
	all := t.User + t.Nice + t.System + t.Irq + t.Softirq + t.Steal + idle
	base := ticks(all)

	return map[string]rawValue{
		"% Processor Time":  {ticks(all - idle), base},
		"% User Time":       {ticks(t.User + t.Nice), base},
		"% Privileged Time": {ticks(t.System), base},
		"% Idle Time":       {ticks(idle), base},
		"% Interrupt Time":  {ticks(t.Irq + t.Softirq), base},
	}
}
