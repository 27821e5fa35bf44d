package collector

import (
	"fmt"

	"github.com/leoluk/typeperf2/perflib"
)

func ExamplePromotedLabelsForObject() {
	fmt.Println(PromotedLabelsForObject(230))

	// Output:
	// [process_id creating_process_id]
}

func ExamplePromotedLabelValuesForInstance() {
	instance := &perflib.PerfInstance{
		Name: "Idle",
		Counters: []*perflib.PerfCounter{
			{Value: 0, Def: perflib.NewCounterDef(784, "ID Process", perflib.PERF_COUNTER_LARGE_RAWCOUNT, "")},
			{Value: 4096, Def: perflib.NewCounterDef(180, "Working Set", perflib.PERF_COUNTER_LARGE_RAWCOUNT, "")},
		},
	}

	fmt.Println(instance.Name)
	fmt.Println(PromotedLabelValuesForInstance(230, instance))

	// Output:
	// Idle
	// [0 ]
}
