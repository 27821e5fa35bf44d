package perflib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

func processObject() *objectType {
	return &objectType{
		name:          "Process",
		nameIndex:     230,
		helpText:      "Resource usage of running processes. Instances are named after the executable.",
		multiInstance: true,
		defs: []*PerfCounterDef{
			NewCounterDef(6, "% Processor Time", PERF_100NSEC_TIMER,
				"Percentage of elapsed time the threads of the process used the processor."),
			NewCounterDef(142, "% User Time", PERF_100NSEC_TIMER,
				"Percentage of elapsed time spent in user mode."),
			NewCounterDef(144, "% Privileged Time", PERF_100NSEC_TIMER,
				"Percentage of elapsed time spent in kernel mode."),
			NewCounterDef(784, "ID Process", PERF_COUNTER_LARGE_RAWCOUNT,
				"Process identifier."),
			NewCounterDef(1410, "Creating Process ID", PERF_COUNTER_LARGE_RAWCOUNT,
				"Identifier of the parent process."),
			NewCounterDef(180, "Working Set", PERF_COUNTER_LARGE_RAWCOUNT,
				"Resident set size in bytes."),
			NewCounterDef(174, "Virtual Bytes", PERF_COUNTER_LARGE_RAWCOUNT,
				"Size of the virtual address space in bytes."),
			NewCounterDef(680, "Thread Count", PERF_COUNTER_RAWCOUNT,
				"Number of threads of the process."),
			NewCounterDef(1412, "IO Read Operations/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of read operations issued by the process."),
			NewCounterDef(1414, "IO Write Operations/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of write operations issued by the process."),
			NewCounterDef(1420, "IO Read Bytes/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes read by the process."),
			NewCounterDef(1422, "IO Write Bytes/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes written by the process."),
		},
		collect: collectProcess,
	}
}

func collectProcess() ([]instanceValues, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	sort.Slice(procs, func(i, j int) bool {
		return procs[i].Pid < procs[j].Pid
	})

	instances := make([]instanceValues, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// exited since it was listed
			continue
		}
		instances = append(instances, instanceValues{
			name:     processInstanceName(name),
			uniqueID: uint32(p.Pid),
			values:   processValues(p),
		})
	}

	return instances, nil
}

func processInstanceName(name string) string {
	return strings.TrimSuffix(name, ".exe")
}

// processValues reads what it can; counters the caller may not see, such as
// the I/O of other users' processes, stay zero.
func processValues(p *process.Process) map[string]rawValue {
	v := map[string]rawValue{
		"ID Process": {value: int64(p.Pid)},
	}

	if ppid, err := p.Ppid(); err == nil {
		v["Creating Process ID"] = rawValue{value: int64(ppid)}
	}
	if t, err := p.Times(); err == nil {
		v["% Processor Time"] = rawValue{value: ticks(t.User + t.System)}
		v["% User Time"] = rawValue{value: ticks(t.User)}
		v["% Privileged Time"] = rawValue{value: ticks(t.System)}
	}
	if m, err := p.MemoryInfo(); err == nil {
		v["Working Set"] = rawValue{value: int64(m.RSS)}
		v["Virtual Bytes"] = rawValue{value: int64(m.VMS)}
	}
	if n, err := p.NumThreads(); err == nil {
		v["Thread Count"] = rawValue{value: int64(n)}
	}
	if io, err := p.IOCounters(); err == nil {
		v["IO Read Operations/sec"] = rawValue{value: int64(io.ReadCount)}
		v["IO Write Operations/sec"] = rawValue{value: int64(io.WriteCount)}
		v["IO Read Bytes/sec"] = rawValue{value: int64(io.ReadBytes)}
		v["IO Write Bytes/sec"] = rawValue{value: int64(io.WriteBytes)}
	}

	return v
}
