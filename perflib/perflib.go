/*
Package perflib exposes host performance data in the shape of the Windows
performance library: a set of objects (categories), each with a list of
counter definitions and one or more instances carrying raw counter values.

Values are read from the host through gopsutil, so the same object and
counter names work on every platform gopsutil supports. Object and counter
name indices follow the Windows registry where an equivalent exists.

Raw values become meaningful numbers through their counter type, see
Calculate. Rate and timer counters need two samples; PerformanceCounter
keeps the previous sample between calls to NextValue.

Object list:

	2    System             [single instance]
	4    Memory             [single instance]
	230  Process            [process names]
	234  PhysicalDisk       [devices, _Total]
	236  LogicalDisk        [mount points, _Total]
	238  Processor          [CPU numbers, _Total]
	510  Network Interface  [interface names]
*/
package perflib

import (
	"sort"
	"time"
)

// Counter types. The values and their formulas are those of the Windows
// performance counter types with the same name.
const (
	PERF_COUNTER_COUNTER        = 0x10410400
	PERF_COUNTER_BULK_COUNT     = 0x10410500
	PERF_COUNTER_RAWCOUNT       = 0x00010000
	PERF_COUNTER_LARGE_RAWCOUNT = 0x00010100
	PERF_RAW_FRACTION           = 0x20020400
	PERF_100NSEC_TIMER          = 0x20510500
	PERF_PRECISION_100NS_TIMER  = 0x20570500
	PERF_ELAPSED_TIME           = 0x30240500
)

const perfTimer100Ns = 0x00100000

type PerfObject struct {
	Name      string
	NameIndex uint
	HelpText  string

	// MultiInstance is false for objects like Memory that have exactly one
	// unnamed instance.
	MultiInstance bool

	CounterDefs []*PerfCounterDef
	Instances   []*PerfInstance

	// PerfTime is the time the object was sampled.
	PerfTime time.Time
}

type PerfInstance struct {
	Name     string
	Counters []*PerfCounter

	uniqueID uint32
}

// UniqueID returns the identifier that tells apart instances with the same
// name, the process ID for Process instances. It is zero for all other
// objects.
func (i *PerfInstance) UniqueID() uint32 {
	return i.uniqueID
}

type PerfCounterDef struct {
	Name        string
	NameIndex   uint
	HelpText    string
	CounterType uint32

	// IsCounter is set for cumulative counters whose calculated value is
	// derived from the difference between two samples.
	IsCounter bool

	// IsNanosecondCounter is set for counters whose raw value is measured
	// in 100 ns units.
	IsNanosecondCounter bool
}

type PerfCounter struct {
	Value int64
	Base  int64
	Def   *PerfCounterDef
}

// NewCounterDef returns a counter definition with the flags derived from
// counterType.
func NewCounterDef(nameIndex uint, name string, counterType uint32, helpText string) *PerfCounterDef {
	def := &PerfCounterDef{
		Name:        name,
		NameIndex:   nameIndex,
		HelpText:    helpText,
		CounterType: counterType,
	}

	switch counterType {
	case PERF_COUNTER_COUNTER, PERF_COUNTER_BULK_COUNT, PERF_100NSEC_TIMER, PERF_PRECISION_100NS_TIMER:
		def.IsCounter = true
	}

	def.IsNanosecondCounter = counterType&perfTimer100Ns == perfTimer100Ns

	return def
}

// SortObjects orders objects by their name index.
func SortObjects(p []*PerfObject) {
	sort.Slice(p, func(i, j int) bool {
		return p[i].NameIndex < p[j].NameIndex
	})
}
