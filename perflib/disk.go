package perflib

import (
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/disk"
)

func physicalDiskObject() *objectType {
	return &objectType{
		name:          "PhysicalDisk",
		nameIndex:     234,
		helpText:      "I/O activity of block devices.",
		multiInstance: true,
		defs: []*PerfCounterDef{
			NewCounterDef(200, "% Disk Time", PERF_100NSEC_TIMER,
				"Percentage of elapsed time the disk was busy with I/O."),
			NewCounterDef(198, "Current Disk Queue Length", PERF_COUNTER_RAWCOUNT,
				"Number of requests in flight when the sample was taken."),
			NewCounterDef(214, "Disk Reads/sec", PERF_COUNTER_COUNTER,
				"Rate of completed read operations."),
			NewCounterDef(216, "Disk Writes/sec", PERF_COUNTER_COUNTER,
				"Rate of completed write operations."),
			NewCounterDef(212, "Disk Transfers/sec", PERF_COUNTER_COUNTER,
				"Rate of completed read and write operations."),
			NewCounterDef(220, "Disk Read Bytes/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes read."),
			NewCounterDef(222, "Disk Write Bytes/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes written."),
			NewCounterDef(218, "Disk Bytes/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes read and written."),
		},
		collect: collectPhysicalDisk,
	}
}

func collectPhysicalDisk() ([]instanceValues, error) {
	counters, err := disk.IOCounters()
	if err != nil {
		return nil, fmt.Errorf("disk io counters: %w", err)
	}
	return physicalDiskInstances(counters), nil
}

func physicalDiskInstances(counters map[string]disk.IOCountersStat) []instanceValues {
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	instances := make([]instanceValues, 0, len(names)+1)
	var total disk.IOCountersStat

	for _, name := range names {
		s := counters[name]
		instances = append(instances, instanceValues{name: name, values: physicalDiskValues(s)})

		total.ReadCount += s.ReadCount
		total.WriteCount += s.WriteCount
		total.ReadBytes += s.ReadBytes
		total.WriteBytes += s.WriteBytes
		total.IopsInProgress += s.IopsInProgress
		total.IoTime += s.IoTime
	}

	// _Total reports the average busy time so it stays a percentage.
	if len(names) > 0 {
		total.IoTime /= uint64(len(names))
	}
	instances = append(instances, instanceValues{name: totalInstance, values: physicalDiskValues(total)})

	return instances
}

func physicalDiskValues(s disk.IOCountersStat) map[string]rawValue {
	return map[string]rawValue{
		// IoTime is in milliseconds
		"% Disk Time":               {value: int64(s.IoTime) * 1e4},
		"Current Disk Queue Length": {value: int64(s.IopsInProgress)},
		"Disk Reads/sec":            {value: int64(s.ReadCount)},
		"Disk Writes/sec":           {value: int64(s.WriteCount)},
		"Disk Transfers/sec":        {value: int64(s.ReadCount + s.WriteCount)},
		"Disk Read Bytes/sec":       {value: int64(s.ReadBytes)},
		"Disk Write Bytes/sec":      {value: int64(s.WriteBytes)},
		"Disk Bytes/sec":            {value: int64(s.ReadBytes + s.WriteBytes)},
	}
}

func logicalDiskObject() *objectType {
	return &objectType{
		name:          "LogicalDisk",
		nameIndex:     236,
		helpText:      "Space usage of mounted file systems.",
		multiInstance: true,
		defs: []*PerfCounterDef{
			NewCounterDef(408, "% Free Space", PERF_RAW_FRACTION,
				"Ratio of free space to the total size of the file system."),
			NewCounterDef(410, "Free Megabytes", PERF_COUNTER_RAWCOUNT,
				"Free space in megabytes."),
		},
		collect: collectLogicalDisk,
	}
}

func collectLogicalDisk() ([]instanceValues, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	var usages []*disk.UsageStat
	for _, p := range partitions {
		u, err := disk.Usage(p.Mountpoint)
		if err != nil {
			// unreadable or vanished mounts are not instances
			continue
		}
		usages = append(usages, u)
	}

	return logicalDiskInstances(usages), nil
}

func logicalDiskInstances(usages []*disk.UsageStat) []instanceValues {
	instances := make([]instanceValues, 0, len(usages)+1)
	seen := make(map[string]bool, len(usages))
	var free, total uint64

	for _, u := range usages {
		if u.Total == 0 || seen[u.Path] {
			continue
		}
		seen[u.Path] = true

		instances = append(instances, instanceValues{name: u.Path, values: logicalDiskValues(u.Free, u.Total)})
		free += u.Free
		total += u.Total
	}
	instances = append(instances, instanceValues{name: totalInstance, values: logicalDiskValues(free, total)})

	return instances
}

func logicalDiskValues(free, total uint64) map[string]rawValue {
	return map[string]rawValue{
		"% Free Space":   {int64(free / megabyte), int64(total / megabyte)},
		"Free Megabytes": {value: int64(free / megabyte)},
	}
}
