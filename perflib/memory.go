package perflib

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

const megabyte = 1 << 20

func memoryObject() *objectType {
	return &objectType{
		name:      "Memory",
		nameIndex: 4,
		helpText:  "Physical and virtual memory of the host.",
		defs: []*PerfCounterDef{
			NewCounterDef(24, "Available Bytes", PERF_COUNTER_LARGE_RAWCOUNT,
				"Physical memory available to processes without swapping."),
			NewCounterDef(1380, "Available MBytes", PERF_COUNTER_RAWCOUNT,
				"Available Bytes in megabytes."),
			NewCounterDef(26, "Committed Bytes", PERF_COUNTER_LARGE_RAWCOUNT,
				"Virtual memory committed by all processes."),
			NewCounterDef(30, "Commit Limit", PERF_COUNTER_LARGE_RAWCOUNT,
				"Amount of virtual memory that can be committed."),
			NewCounterDef(1406, "% Committed Bytes In Use", PERF_RAW_FRACTION,
				"Ratio of Committed Bytes to the Commit Limit."),
			NewCounterDef(818, "Cache Bytes", PERF_COUNTER_LARGE_RAWCOUNT,
				"Memory used by the page cache and buffers."),
			NewCounterDef(28, "Page Faults/sec", PERF_COUNTER_COUNTER,
				"Rate of page faults."),
			NewCounterDef(40, "Pages/sec", PERF_COUNTER_COUNTER,
				"Rate of pages read from or written to disk to resolve faults."),
		},
		collect: collectMemory,
	}
}

func collectMemory() ([]instanceValues, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}
	swap, err := mem.SwapMemory()
	if err != nil {
		return nil, fmt.Errorf("swap memory: %w", err)
	}
	return []instanceValues{{values: memoryValues(vm, swap)}}, nil
}

func memoryValues(vm *mem.VirtualMemoryStat, swap *mem.SwapMemoryStat) map[string]rawValue {
	// gopsutil only reports the commit charge on Linux.
	commitLimit := vm.CommitLimit
	committed := vm.CommittedAS
	if commitLimit == 0 {
		commitLimit = vm.Total + swap.Total
		committed = vm.Used + swap.Used
	}

	return map[string]rawValue{
		"Available Bytes":          {value: int64(vm.Available)},
		"Available MBytes":         {value: int64(vm.Available / megabyte)},
		"Committed Bytes":          {value: int64(committed)},
		"Commit Limit":             {value: int64(commitLimit)},
		"% Committed Bytes In Use": {int64(committed), int64(commitLimit)},
		"Cache Bytes":              {value: int64(vm.Cached + vm.Buffers)},
		"Page Faults/sec":          {value: int64(swap.PgFault)},
		"Pages/sec":                {value: int64(swap.PgIn + swap.PgOut)},
	}
}
