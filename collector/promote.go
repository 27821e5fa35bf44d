package collector

import (
	"strconv"

	"github.com/leoluk/typeperf2/perflib"
)

type promotedLabel struct {
	defIndex uint
	label    string
}

// Counters which identify an instance rather than measure it. They are
// exported as labels on every other metric of the instance.
var promotedLabels = map[uint][]promotedLabel{
	230: { // Process
		{784, "process_id"},
		{1410, "creating_process_id"},
	},
}

func HasPromotedLabels(objectIndex uint) bool {
	_, ok := promotedLabels[objectIndex]
	return ok
}

// PromotedLabelsForObject returns the label names promoted from counters of
// the object.
func PromotedLabelsForObject(objectIndex uint) []string {
	labels := make([]string, 0, len(promotedLabels[objectIndex]))
	for _, p := range promotedLabels[objectIndex] {
		labels = append(labels, p.label)
	}
	return labels
}

// PromotedLabelValuesForInstance returns the values of the promoted labels
// in the order of PromotedLabelsForObject. A counter missing from the
// instance yields an empty value.
func PromotedLabelValuesForInstance(objectIndex uint, instance *perflib.PerfInstance) []string {
	values := make([]string, 0, len(promotedLabels[objectIndex]))

	for _, p := range promotedLabels[objectIndex] {
		value := ""
		for _, counter := range instance.Counters {
			if counter != nil && counter.Def.NameIndex == p.defIndex {
				value = strconv.FormatInt(counter.Value, 10)
				break
			}
		}
		values = append(values, value)
	}

	return values
}

func IsDefPromotedLabel(objectIndex uint, defIndex uint) bool {
	for _, p := range promotedLabels[objectIndex] {
		if p.defIndex == defIndex {
			return true
		}
	}
	return false
}
