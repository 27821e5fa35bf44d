package collector

// mergedMetric folds several counters of an object into one metric that
// tells them apart by a label. A counter mapped to an empty label value is
// the sum of the others and is not exported.
type mergedMetric struct {
	name   string
	label  string
	values map[uint]string
}

// _Total style counters do not fit the Prometheus model, so the parts are
// exported with a label and summed at query time.
var mergedMetrics = map[uint]mergedMetric{
	238: { // Processor
		name:  "processor_time_total",
		label: "mode",
		values: map[uint]string{
			6:    "",
			142:  "user",
			144:  "privileged",
			1746: "idle",
			698:  "interrupt",
		},
	},
	230: { // Process
		name:  "processor_time_total",
		label: "mode",
		values: map[uint]string{
			6:   "",
			142: "user",
			144: "privileged",
		},
	},
}

func HasMergedLabels(objectIndex uint) bool {
	_, ok := mergedMetrics[objectIndex]
	return ok
}

// MergedLabelsForInstance returns the metric name and label name a counter
// is merged into, or empty strings if the counter is exported on its own.
func MergedLabelsForInstance(objectIndex uint, defIndex uint) (name string, labelName string) {
	m, ok := mergedMetrics[objectIndex]
	if !ok {
		return "", ""
	}
	if _, ok := m.values[defIndex]; !ok {
		return "", ""
	}
	return m.name, m.label
}

// MergedMetricForInstance returns the metric name and label value of a
// merged counter. An empty value means the counter is skipped.
func MergedMetricForInstance(objectIndex uint, defIndex uint) (name string, value string) {
	m, ok := mergedMetrics[objectIndex]
	if !ok {
		return "", ""
	}
	v, ok := m.values[defIndex]
	if !ok {
		return "", ""
	}
	return m.name, v
}
