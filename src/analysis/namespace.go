package analysis

import (
	"fmt"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// namespaceKinds is the fixed chart order. Only PID, NET and IPC export a host vs
// namespace resource count; UTS and MOUNT never do.
var namespaceKinds = []struct {
	key        string
	name       string
	hostField  string
	innerField string
}{
	{"pid_namespace", "PID", "host_processes", "processes_visible"},
	{"net_namespace", "NET", "host_interfaces", "interfaces_visible"},
	{"uts_namespace", "UTS", "", ""},
	{"ipc_namespace", "IPC", "host_ipc_queues", "ipc_queues_visible"},
	{"mount_namespace", "MOUNT", "", ""},
}

// NamespaceIsolation is one namespace kind's test outcome.
type NamespaceIsolation struct {
	Name       string
	CreationMs float64
	Isolated   bool
	// HasCounts is fixed by kind; HostCount / NamespaceCount are meaningful only when set.
	HasCounts      bool
	HostCount      float64
	NamespaceCount float64
}

// Category is one slice of the isolation summary.
type Category struct {
	Label string
	Count int
}

// NamespaceResult is the namespace-isolation experiment.
type NamespaceResult struct {
	Namespaces       []NamespaceIsolation
	IsolatedCount    int
	NotIsolatedCount int
	// Summary has a single category when every namespace is isolated, two otherwise.
	Summary       []Category
	AvgCreationMs float64
}

func (n *NamespaceResult) Kind() types.Kind { return types.Exp2Namespace }
func (n *NamespaceResult) Empty() bool      { return len(n.Namespaces) == 0 }
func (n *NamespaceResult) derived()         {}

// WithCounts returns the namespaces that report a non-zero host or namespace resource count.
func (n *NamespaceResult) WithCounts() []NamespaceIsolation {
	var out []NamespaceIsolation
	for _, ns := range n.Namespaces {
		if ns.HasCounts && (ns.HostCount > 0 || ns.NamespaceCount > 0) {
			out = append(out, ns)
		}
	}
	return out
}

// DeriveNamespace extracts the five namespace kinds in fixed order; other keys
// (the combined multiple_namespaces test) are not charted. Absent numeric fields
// default to zero and an absent isolated flag to false, as the exporter omits them
// for tests it could not run.
func DeriveNamespace(doc *types.NestedDocument) (*NamespaceResult, error) {
	const k = types.Exp2Namespace
	out := &NamespaceResult{}
	if doc == nil || len(doc.IsolationTests) == 0 {
		warnEmpty(k)
		return out, nil
	}
	var totalMs float64
	for _, nk := range namespaceKinds {
		test, ok := doc.IsolationTests[nk.key]
		if !ok {
			continue
		}
		us, err := telemetry.FloatOr(test, "creation_time_us", 0)
		if err != nil {
			return nil, namespaceErr(nk.key, err)
		}
		isolated, err := telemetry.Bool(test, "isolated", false)
		if err != nil {
			return nil, namespaceErr(nk.key, err)
		}
		ns := NamespaceIsolation{Name: nk.name, CreationMs: us / 1000, Isolated: isolated}
		if nk.hostField != "" {
			ns.HasCounts = true
			if ns.HostCount, err = telemetry.FloatOr(test, nk.hostField, 0); err != nil {
				return nil, namespaceErr(nk.key, err)
			}
			if ns.NamespaceCount, err = telemetry.FloatOr(test, nk.innerField, 0); err != nil {
				return nil, namespaceErr(nk.key, err)
			}
		}
		out.Namespaces = append(out.Namespaces, ns)
		totalMs += ns.CreationMs
		if isolated {
			out.IsolatedCount++
		}
	}
	if len(out.Namespaces) == 0 {
		telemetry.Warnf("%s: no known namespace kinds in isolation_tests; charts skipped", k)
		return out, nil
	}
	out.NotIsolatedCount = len(out.Namespaces) - out.IsolatedCount
	out.AvgCreationMs = totalMs / float64(len(out.Namespaces))
	if out.NotIsolatedCount == 0 {
		out.Summary = []Category{{Label: fmt.Sprintf("All isolated (%d)", out.IsolatedCount), Count: out.IsolatedCount}}
	} else {
		out.Summary = []Category{
			{Label: fmt.Sprintf("Isolated (%d)", out.IsolatedCount), Count: out.IsolatedCount},
			{Label: fmt.Sprintf("Not isolated (%d)", out.NotIsolatedCount), Count: out.NotIsolatedCount},
		}
	}
	return out, nil
}

func namespaceErr(key string, err error) error {
	de := fieldErr(types.Exp2Namespace, -1, err).(*DerivationError)
	de.Err = fmt.Errorf("%s: %w", key, err)
	return de
}
