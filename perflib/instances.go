package perflib

import (
	"strconv"
	"strings"
)

// InstanceNames returns the names of instances the way they are addressed
// by name: the first instance with a given name keeps it, later ones are
// suffixed with #1, #2 and so on in enumeration order. Names are compared
// case-insensitively.
func InstanceNames(instances []*PerfInstance) []string {
	seen := make(map[string]int, len(instances))
	names := make([]string, len(instances))

	for i, instance := range instances {
		key := strings.ToLower(instance.Name)
		n := seen[key]
		seen[key] = n + 1

		if n == 0 {
			names[i] = instance.Name
		} else {
			names[i] = instance.Name + "#" + strconv.Itoa(n)
		}
	}

	return names
}

func findInstance(obj *PerfObject, name string) *PerfInstance {
	for i, n := range InstanceNames(obj.Instances) {
		if strings.EqualFold(n, name) {
			return obj.Instances[i]
		}
	}
	return nil
}
