// Package types holds the shapes shared between the loader, the derivers and the chart builders.
package types

// Kind identifies which telemetry shape an input carries. It is decided once per input
// and selects both the derivation strategy and the fixed set of charts.
type Kind int

const (
	KindUnknown Kind = iota
	Continuous
	Exp1Overhead
	Exp2Namespace
	Exp3CPUThrottle
	Exp4MemoryLimit
	Exp5IOLimit
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	Continuous:      "continuous",
	Exp1Overhead:    "exp1_overhead",
	Exp2Namespace:   "exp2_namespace",
	Exp3CPUThrottle: "exp3_cpu_throttle",
	Exp4MemoryLimit: "exp4_memory_limit",
	Exp5IOLimit:     "exp5_io_limit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// AllKinds lists every known kind in pipeline order (monitoring first, then experiments 1-5).
func AllKinds() []Kind {
	return []Kind{Continuous, Exp1Overhead, Exp2Namespace, Exp3CPUThrottle, Exp4MemoryLimit, Exp5IOLimit}
}

// Record is one telemetry observation: field name -> raw value.
// Array-encoded inputs carry float64, bool or string values; tabular inputs carry strings only.
type Record map[string]interface{}

// NestedDocument is the namespace-isolation export: a single object rather than a record sequence.
type NestedDocument struct {
	Experiment     string            `json:"experiment,omitempty"`
	Date           string            `json:"date,omitempty"`
	IsolationTests map[string]Record `json:"isolation_tests"`
	// CreationOverhead carries the exporter's own summary (average_single_ns_us), kept for annotation.
	CreationOverhead Record   `json:"creation_overhead,omitempty"`
	Conclusions      []string `json:"conclusions,omitempty"`
}
