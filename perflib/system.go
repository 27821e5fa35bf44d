package perflib

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/process"
)

func systemObject() *objectType {
	return &objectType{
		name:      "System",
		nameIndex: 2,
		helpText:  "Host-wide scheduler and uptime counters.",
		defs: []*PerfCounterDef{
			NewCounterDef(248, "Processes", PERF_COUNTER_RAWCOUNT,
				"Number of processes."),
			NewCounterDef(250, "Threads", PERF_COUNTER_RAWCOUNT,
				"Number of threads of all processes."),
			NewCounterDef(44, "Processor Queue Length", PERF_COUNTER_RAWCOUNT,
				"Number of runnable threads."),
			NewCounterDef(146, "Context Switches/sec", PERF_COUNTER_COUNTER,
				"Rate of context switches of all processors."),
			NewCounterDef(674, "System Up Time", PERF_ELAPSED_TIME,
				"Seconds since the host was started."),
		},
		collect: collectSystem,
	}
}

func collectSystem() ([]instanceValues, error) {
	misc, err := load.Misc()
	if err != nil {
		return nil, fmt.Errorf("scheduler stats: %w", err)
	}
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	boot, err := bootTime()
	if err != nil {
		return nil, err
	}

	return []instanceValues{{values: systemValues(len(pids), misc, boot)}}, nil
}

// systemValues takes the thread count from ProcsTotal, which counts every
// task the scheduler knows of.
func systemValues(processes int, misc *load.MiscStat, boot time.Time) map[string]rawValue {
	return map[string]rawValue{
		"Processes":              {value: int64(processes)},
		"Threads":                {value: int64(misc.ProcsTotal)},
		"Processor Queue Length": {value: int64(misc.ProcsRunning)},
		"Context Switches/sec":   {value: int64(misc.Ctxt)},
		"System Up Time":         {value: boot.UnixNano() / 100},
	}
}
