package perflib

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("performance counter category does not exist")
	ErrCounterNotFound  = errors.New("performance counter does not exist")
	ErrInstanceNotFound = errors.New("performance counter instance does not exist")
	ErrInstanceRequired = errors.New("counter is not single instance, an instance name needs to be specified")
)

// rawValue is the value and, for fractions and precision timers, the base
// of one counter within one instance.
type rawValue struct {
	value int64
	base  int64
}

type instanceValues struct {
	name     string
	uniqueID uint32
	// keyed by counter name; missing counters read as zero
	values map[string]rawValue
}

// objectType describes an object and knows how to sample it from the host.
type objectType struct {
	name          string
	nameIndex     uint
	helpText      string
	multiInstance bool
	defs          []*PerfCounterDef
	collect       func() ([]instanceValues, error)
}

func (o *objectType) counterDef(name string) *PerfCounterDef {
	for _, def := range o.defs {
		if strings.EqualFold(def.Name, name) {
			return def
		}
	}
	return nil
}

func (o *objectType) sample(now time.Time) (*PerfObject, error) {
	collected, err := o.collect()
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", o.name, err)
	}

	obj := &PerfObject{
		Name:          o.name,
		NameIndex:     o.nameIndex,
		HelpText:      o.helpText,
		MultiInstance: o.multiInstance,
		CounterDefs:   o.defs,
		Instances:     make([]*PerfInstance, 0, len(collected)),
		PerfTime:      now,
	}

	for _, iv := range collected {
		instance := &PerfInstance{
			Name:     iv.name,
			uniqueID: iv.uniqueID,
			Counters: make([]*PerfCounter, len(o.defs)),
		}
		for i, def := range o.defs {
			v := iv.values[def.Name]
			instance.Counters[i] = &PerfCounter{Value: v.value, Base: v.base, Def: def}
		}
		obj.Instances = append(obj.Instances, instance)
	}

	return obj, nil
}

// Registry is the set of objects that can be queried on this host.
type Registry struct {
	objects []*objectType
	now     func() time.Time
}

// NewRegistry returns a registry of all objects this package knows how to
// sample.
func NewRegistry() *Registry {
	return newRegistry(
		systemObject(),
		memoryObject(),
		processObject(),
		physicalDiskObject(),
		logicalDiskObject(),
		processorObject(),
		networkInterfaceObject(),
	)
}

func newRegistry(objects ...*objectType) *Registry {
	return &Registry{objects: objects, now: time.Now}
}

var defaultRegistry = NewRegistry()

// QueryPerformanceData samples the objects selected by query from the
// default registry. See (*Registry).QueryPerformanceData.
func QueryPerformanceData(query string) ([]*PerfObject, error) {
	return defaultRegistry.QueryPerformanceData(query)
}

func (r *Registry) object(name string) *objectType {
	for _, o := range r.objects {
		if strings.EqualFold(o.name, name) {
			return o
		}
	}
	return nil
}

func (r *Registry) objectByIndex(index uint) *objectType {
	for _, o := range r.objects {
		if o.nameIndex == index {
			return o
		}
	}
	return nil
}

// Categories returns the names of all objects in registration order.
func (r *Registry) Categories() []string {
	names := make([]string, len(r.objects))
	for i, o := range r.objects {
		names[i] = o.name
	}
	return names
}

// CategoryExists reports whether an object called category exists.
// Names are compared case-insensitively.
func (r *Registry) CategoryExists(category string) bool {
	return r.object(category) != nil
}

// CounterExists reports whether category has a counter called counter.
func (r *Registry) CounterExists(counter, category string) bool {
	o := r.object(category)
	if o == nil {
		return false
	}
	return o.counterDef(counter) != nil
}

// InstanceExists reports whether category currently has an instance called
// instance. Single-instance categories have no named instances.
func (r *Registry) InstanceExists(instance, category string) (bool, error) {
	o := r.object(category)
	if o == nil {
		return false, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	if !o.multiInstance {
		return false, nil
	}

	obj, err := o.sample(r.now())
	if err != nil {
		return false, err
	}
	return findInstance(obj, instance) != nil, nil
}

// InstanceNames returns the current instance names of category, with
// duplicates disambiguated as described for InstanceNames.
func (r *Registry) InstanceNames(category string) ([]string, error) {
	o := r.object(category)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	if !o.multiInstance {
		return nil, nil
	}

	obj, err := o.sample(r.now())
	if err != nil {
		return nil, err
	}
	return InstanceNames(obj.Instances), nil
}

// NewCounter returns a handle to a counter. instance must be empty for
// single-instance categories and set for all others. Whether the instance
// exists is checked on every sample, as instances come and go.
func (r *Registry) NewCounter(category, counter, instance string) (*PerformanceCounter, error) {
	o := r.object(category)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}

	def := o.counterDef(counter)
	if def == nil {
		return nil, fmt.Errorf("%w: %s:%s", ErrCounterNotFound, category, counter)
	}

	if o.multiInstance && instance == "" {
		return nil, fmt.Errorf("%w: %s", ErrInstanceRequired, category)
	}
	if !o.multiInstance && instance != "" {
		return nil, fmt.Errorf("%w: %s is single instance, %q is not valid", ErrInstanceNotFound, category, instance)
	}

	return &PerformanceCounter{
		CategoryName: o.name,
		CounterName:  def.Name,
		InstanceName: instance,
		registry:     r,
		object:       o,
		def:          def,
	}, nil
}

// QueryPerformanceData samples the objects selected by query. The query is
// either "Global" for all objects or a space separated list of object name
// indices. Unknown indices are skipped, objects are returned in query order
// without duplicates.
func (r *Registry) QueryPerformanceData(query string) ([]*PerfObject, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, errors.New("empty perflib query")
	}

	var selected []*objectType
	seen := make(map[uint]bool)
	add := func(o *objectType) {
		if o == nil || seen[o.nameIndex] {
			return
		}
		seen[o.nameIndex] = true
		selected = append(selected, o)
	}

	for _, token := range tokens {
		if strings.EqualFold(token, "Global") {
			for _, o := range r.objects {
				add(o)
			}
			continue
		}

		index, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid perflib query token %q", token)
		}
		add(r.objectByIndex(uint(index)))
	}

	now := r.now()
	objects := make([]*PerfObject, 0, len(selected))
	for _, o := range selected {
		obj, err := o.sample(now)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return objects, nil
}
