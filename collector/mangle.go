package collector

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leoluk/typeperf2/perflib"
)

type replacement struct{ old, new string }

// Replacements are applied in order, each one sees the output of the
// previous one.
var (
	nameReplacements = []replacement{
		{" ", "_"},
		{".", ""},
		{"(", ""},
		{")", ""},
		{"+", ""},
		{"-", ""},
	}

	counterNameReplacements = []replacement{
		{"total_", ""},
		{"_total", ""},
		{"/second", ""},
		{"/sec", ""},
		{"_%", ""},
		{"%_", ""},
		{"/", "_per_"},
		{"&", "and"},
		{"#_of_", ""},
		{":", ""},
		{"__", "_"},
	}
)

func replaceAll(s string, replacements []replacement) string {
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

func manglePerflibName(s string) string {
	return replaceAll(strings.ToLower(s), nameReplacements)
}

func manglePerflibCounterName(s string) string {
	s = replaceAll(manglePerflibName(s), counterNameReplacements)
	return strings.Trim(s, " _")
}

// MakePrometheusLabel returns the metric name of a counter definition.
// Cumulative counters get a _total suffix.
func MakePrometheusLabel(def *perflib.PerfCounterDef) (s string) {
	s = manglePerflibCounterName(def.Name)

	if def.IsCounter {
		s += "_total"
	}

	return
}

func pdhNameFromCounterDef(obj *perflib.PerfObject, def *perflib.PerfCounterDef) string {
	if obj.MultiInstance {
		return fmt.Sprintf(`\%s(*)\%s`, obj.Name, def.Name)
	}
	return fmt.Sprintf(`\%s\%s`, obj.Name, def.Name)
}

// descFromCounterDef returns the metric name and descriptor for def. Merged
// definitions of an object share one name and help text.
func descFromCounterDef(obj *perflib.PerfObject, def *perflib.PerfCounterDef) (string, *prometheus.Desc) {
	subsystem := manglePerflibName(obj.Name)
	counterName := MakePrometheusLabel(def)
	help := fmt.Sprintf("perflib metric: %s [%d]", pdhNameFromCounterDef(obj, def), def.NameIndex)

	var labels []string

	if obj.MultiInstance {
		labels = append(labels, "name")
	}

	if HasPromotedLabels(obj.NameIndex) {
		labels = append(labels, PromotedLabelsForObject(obj.NameIndex)...)
	}

	if HasMergedLabels(obj.NameIndex) {
		if name, label := MergedLabelsForInstance(obj.NameIndex, def.NameIndex); name != "" {
			counterName = name
			help = fmt.Sprintf("perflib metric: %s(*) times by %s [%d]", obj.Name, label, obj.NameIndex)
			labels = append(labels, label)
		}
	}

	return counterName, prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, subsystem, counterName),
		help,
		labels,
		nil,
	)
}
