package perflib

import (
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorInstances(t *testing.T) {
	perCPU := []cpu.TimesStat{
		{CPU: "cpu0", User: 10, Nice: 2, System: 4, Idle: 80, Iowait: 2, Irq: 1, Softirq: 1},
		{CPU: "cpu1", User: 1, Idle: 99},
	}
	total := []cpu.TimesStat{{CPU: "cpu-total", User: 11, Nice: 2, System: 4, Idle: 179, Iowait: 2, Irq: 1, Softirq: 1}}

	instances := processorInstances(perCPU, total)
	require.Len(t, instances, 3)
	assert.Equal(t, "0", instances[0].name)
	assert.Equal(t, "1", instances[1].name)
	assert.Equal(t, "_Total", instances[2].name)

	v := instances[0].values
	assert.Equal(t, rawValue{ticks(18), ticks(100)}, v["% Processor Time"])
	assert.Equal(t, rawValue{ticks(12), ticks(100)}, v["% User Time"])
	assert.Equal(t, rawValue{ticks(4), ticks(100)}, v["% Privileged Time"])
	assert.Equal(t, rawValue{ticks(82), ticks(100)}, v["% Idle Time"])
	assert.Equal(t, rawValue{ticks(2), ticks(100)}, v["% Interrupt Time"])
}

func TestProcessorTimeBetweenSamples(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	before := processorValues(cpu.TimesStat{User: 10, Idle: 90})["% Processor Time"]
	after := processorValues(cpu.TimesStat{User: 40, Idle: 160})["% Processor Time"]

	got := Calculate(
		CounterSample{RawValue: before.value, BaseValue: before.base, TimeStamp: t0, CounterType: PERF_PRECISION_100NS_TIMER},
		CounterSample{RawValue: after.value, BaseValue: after.base, TimeStamp: t0.Add(time.Second), CounterType: PERF_PRECISION_100NS_TIMER},
	)
	// 30s busy out of 100s elapsed processor time
	assert.InDelta(t, 30, got, 1e-3)
}

func TestMemoryValues(t *testing.T) {
	vm := &mem.VirtualMemoryStat{
		Total:       8 * megabyte,
		Available:   3 * megabyte,
		Used:        5 * megabyte,
		Cached:      1 * megabyte,
		Buffers:     1 * megabyte,
		CommitLimit: 10 * megabyte,
		CommittedAS: 4 * megabyte,
	}
	swap := &mem.SwapMemoryStat{Total: 2 * megabyte, Used: 1 * megabyte, PgIn: 10, PgOut: 5, PgFault: 99}

	v := memoryValues(vm, swap)
	assert.Equal(t, int64(3*megabyte), v["Available Bytes"].value)
	assert.Equal(t, int64(3), v["Available MBytes"].value)
	assert.Equal(t, int64(4*megabyte), v["Committed Bytes"].value)
	assert.Equal(t, int64(10*megabyte), v["Commit Limit"].value)
	assert.Equal(t, rawValue{4 * megabyte, 10 * megabyte}, v["% Committed Bytes In Use"])
	assert.Equal(t, int64(2*megabyte), v["Cache Bytes"].value)
	assert.Equal(t, int64(99), v["Page Faults/sec"].value)
	assert.Equal(t, int64(15), v["Pages/sec"].value)

	// without a commit charge, commit is physical plus swap
	vm.CommitLimit, vm.CommittedAS = 0, 0
	v = memoryValues(vm, swap)
	assert.Equal(t, rawValue{6 * megabyte, 10 * megabyte}, v["% Committed Bytes In Use"])
}

func TestPhysicalDiskInstances(t *testing.T) {
	counters := map[string]disk.IOCountersStat{
		"sdb": {ReadCount: 1, WriteCount: 2, ReadBytes: 512, WriteBytes: 1024, IopsInProgress: 1, IoTime: 300},
		"sda": {ReadCount: 10, WriteCount: 20, ReadBytes: 4096, WriteBytes: 8192, IopsInProgress: 3, IoTime: 100},
	}

	instances := physicalDiskInstances(counters)
	require.Len(t, instances, 3)
	assert.Equal(t, "sda", instances[0].name)
	assert.Equal(t, "sdb", instances[1].name)
	assert.Equal(t, "_Total", instances[2].name)

	sda := instances[0].values
	assert.Equal(t, int64(100*1e4), sda["% Disk Time"].value)
	assert.Equal(t, int64(3), sda["Current Disk Queue Length"].value)
	assert.Equal(t, int64(30), sda["Disk Transfers/sec"].value)
	assert.Equal(t, int64(12288), sda["Disk Bytes/sec"].value)

	total := instances[2].values
	assert.Equal(t, int64(4), total["Current Disk Queue Length"].value)
	assert.Equal(t, int64(11), total["Disk Reads/sec"].value)
	assert.Equal(t, int64(200*1e4), total["% Disk Time"].value, "busy time is averaged")
}

func TestLogicalDiskInstances(t *testing.T) {
	usages := []*disk.UsageStat{
		{Path: "/", Total: 100 * megabyte, Free: 25 * megabyte},
		{Path: "/", Total: 100 * megabyte, Free: 25 * megabyte},
		{Path: "/proc", Total: 0},
		{Path: "/data", Total: 300 * megabyte, Free: 75 * megabyte},
	}

	instances := logicalDiskInstances(usages)
	require.Len(t, instances, 3)
	assert.Equal(t, "/", instances[0].name)
	assert.Equal(t, "/data", instances[1].name)
	assert.Equal(t, "_Total", instances[2].name)

	assert.Equal(t, rawValue{25, 100}, instances[0].values["% Free Space"])
	assert.Equal(t, rawValue{100, 400}, instances[2].values["% Free Space"])
	assert.Equal(t, int64(75), instances[1].values["Free Megabytes"].value)
}

func TestNetworkInterfaceInstances(t *testing.T) {
	instances := networkInterfaceInstances([]psnet.IOCountersStat{
		{Name: "eth0", BytesRecv: 100, BytesSent: 50, PacketsRecv: 4, PacketsSent: 2, Errin: 1, Dropout: 3},
	})
	require.Len(t, instances, 1)

	v := instances[0].values
	assert.Equal(t, "eth0", instances[0].name)
	assert.Equal(t, int64(150), v["Bytes Total/sec"].value)
	assert.Equal(t, int64(6), v["Packets/sec"].value)
	assert.Equal(t, int64(1), v["Packets Received Errors"].value)
	assert.Equal(t, int64(3), v["Packets Outbound Discarded"].value)
}

func TestSystemValues(t *testing.T) {
	boot := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	v := systemValues(120, &load.MiscStat{ProcsTotal: 800, ProcsRunning: 3, Ctxt: 5000}, boot)

	assert.Equal(t, int64(120), v["Processes"].value)
	assert.Equal(t, int64(800), v["Threads"].value)
	assert.Equal(t, int64(3), v["Processor Queue Length"].value)
	assert.Equal(t, int64(5000), v["Context Switches/sec"].value)

	uptime := Calculate(CounterSample{}, CounterSample{
		RawValue:    v["System Up Time"].value,
		TimeStamp:   boot.Add(time.Hour),
		CounterType: PERF_ELAPSED_TIME,
	})
	assert.InDelta(t, 3600, uptime, 1)
}

func TestSystemValuesManyThreads(t *testing.T) {
	v := systemValues(1, &load.MiscStat{ProcsTotal: 70000}, time.Unix(0, 0))
	assert.Equal(t, int64(70000), v["Threads"].value)
}

func TestProcessInstanceName(t *testing.T) {
	assert.Equal(t, "svchost", processInstanceName("svchost.exe"))
	assert.Equal(t, "bash", processInstanceName("bash"))
}
