package main

import (
	"fmt"
	"io"

	"github.com/leoluk/typeperf2/collector"
	"github.com/leoluk/typeperf2/perflib"
)

type textOptions struct {
	values   bool
	defsOnly bool
}

func writeText(w io.Writer, objects []*perflib.PerfObject, opts textOptions) {
	numCounters := 0
	numDefs := 0

	for _, o := range objects {
		if opts.defsOnly {
			fmt.Fprintf(w, "%d %s [%d counters]\n",
				o.NameIndex, o.Name, len(o.CounterDefs))
		} else {
			fmt.Fprintf(w, "%d %s [%d counters, %d instance(s)]\n",
				o.NameIndex, o.Name, len(o.CounterDefs), len(o.Instances))
		}

		for _, def := range o.CounterDefs {
			numDefs++
			if opts.defsOnly {
				fmt.Fprintf(w, "    `-- [%d] %s (0x%x)\n", def.NameIndex, def.Name, def.CounterType)
				fmt.Fprintf(w, "        %s\n", collector.MakePrometheusLabel(def))
			}
		}

		if opts.defsOnly {
			continue
		}

		names := perflib.InstanceNames(o.Instances)
		for i, instance := range o.Instances {
			if len(names[i]) > 0 {
				fmt.Fprintf(w, "`-- \"%s\"\n", names[i])
			} else {
				fmt.Fprintln(w, "`-- (default)")
			}

			for _, counter := range instance.Counters {
				if opts.values {
					fmt.Fprintf(w, "    `-- %s [%d] = %d\n", counter.Def.Name, counter.Def.NameIndex, counter.Value)
				} else {
					fmt.Fprintf(w, "    `-- %s [%d]\n", counter.Def.Name, counter.Def.NameIndex)
				}
				numCounters++
			}
		}
	}

	fmt.Fprintf(w, "\nNumber of objects: %d\n", len(objects))
	fmt.Fprintf(w, "\nNumber of definitions: %d\n", numDefs)

	if !opts.defsOnly {
		fmt.Fprintf(w, "\nNumber of counters: %d\n", numCounters)
	}
}
