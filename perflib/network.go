package perflib

import (
	"fmt"

	psnet "github.com/shirou/gopsutil/v4/net"
)

func networkInterfaceObject() *objectType {
	return &objectType{
		name:          "Network Interface",
		nameIndex:     510,
		helpText:      "Traffic of network interfaces.",
		multiInstance: true,
		defs: []*PerfCounterDef{
			NewCounterDef(264, "Bytes Received/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes received."),
			NewCounterDef(506, "Bytes Sent/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes sent."),
			NewCounterDef(388, "Bytes Total/sec", PERF_COUNTER_BULK_COUNT,
				"Rate of bytes received and sent."),
			NewCounterDef(266, "Packets Received/sec", PERF_COUNTER_COUNTER,
				"Rate of packets received."),
			NewCounterDef(452, "Packets Sent/sec", PERF_COUNTER_COUNTER,
				"Rate of packets sent."),
			NewCounterDef(400, "Packets/sec", PERF_COUNTER_COUNTER,
				"Rate of packets received and sent."),
			NewCounterDef(530, "Packets Received Errors", PERF_COUNTER_RAWCOUNT,
				"Inbound packets that contained errors."),
			NewCounterDef(542, "Packets Outbound Errors", PERF_COUNTER_RAWCOUNT,
				"Outbound packets that could not be transmitted because of errors."),
			NewCounterDef(528, "Packets Received Discarded", PERF_COUNTER_RAWCOUNT,
				"Inbound packets that were dropped."),
			NewCounterDef(540, "Packets Outbound Discarded", PERF_COUNTER_RAWCOUNT,
				"Outbound packets that were dropped."),
		},
		collect: collectNetworkInterface,
	}
}

func collectNetworkInterface() ([]instanceValues, error) {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("network io counters: %w", err)
	}
	return networkInterfaceInstances(counters), nil
}

func networkInterfaceInstances(counters []psnet.IOCountersStat) []instanceValues {
	instances := make([]instanceValues, 0, len(counters))
	for _, s := range counters {
		instances = append(instances, instanceValues{
			name: s.Name,
			values: map[string]rawValue{
				"Bytes Received/sec":         {value: int64(s.BytesRecv)},
				"Bytes Sent/sec":             {value: int64(s.BytesSent)},
				"Bytes Total/sec":            {value: int64(s.BytesRecv + s.BytesSent)},
				"Packets Received/sec":       {value: int64(s.PacketsRecv)},
				"Packets Sent/sec":           {value: int64(s.PacketsSent)},
				"Packets/sec":                {value: int64(s.PacketsRecv + s.PacketsSent)},
				"Packets Received Errors":    {value: int64(s.Errin)},
				"Packets Outbound Errors":    {value: int64(s.Errout)},
				"Packets Received Discarded": {value: int64(s.Dropin)},
				"Packets Outbound Discarded": {value: int64(s.Dropout)},
			},
		})
	}
	return instances
}
