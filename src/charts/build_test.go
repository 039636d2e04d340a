package charts

import (
	"strings"
	"testing"

	"github.com/iafilius/ResourceMonitorViz/src/analysis"
	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

func names(figs []Figure) string {
	var out []string
	for _, f := range figs {
		out = append(out, f.Name)
	}
	return strings.Join(out, ",")
}

func derive(t *testing.T, k types.Kind, table string) analysis.Derived {
	t.Helper()
	recs, err := telemetry.DecodeTabular(strings.NewReader(table))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	d, err := analysis.Derive(analysis.Input{Kind: k, Records: recs}, analysis.Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return d
}

const throttleTable = `cpu_limit_cores,measured_cpu_percent,deviation_percent,throughput_iter_per_sec
-1,0,0,1000
0.5,48,-4,480
1.0,92,-8,900
`

const ioTable = `limit_mbps,write_throughput_mbps,read_throughput_mbps,write_latency_ms,read_latency_ms,total_time_sec
0,500,800,0.2,0.1,2
10,9.8,9.9,10,10,5
`

func TestBuild_FigureNamesPerKind(t *testing.T) {
	cases := []struct {
		kind  types.Kind
		table string
		want  string
	}{
		{types.Exp1Overhead, "sampling_interval_ms,execution_time_sec,time_overhead_percent,cpu_overhead_percent,ctx_switches_delta\n0,2,0,0,0\n100,2.1,5,2,40\n",
			"exp1_overhead,exp1_context_switches,exp1_execution_time"},
		{types.Exp3CPUThrottle, throttleTable, "exp3_cpu_comparison,exp3_deviation,exp3_throughput"},
		{types.Exp4MemoryLimit, "step,target_mb,current_mb,peak_mb,success\n1,50,50,50,1\n2,150,99,100,0\n",
			"exp4_allocation_progress,exp4_allocation_status,exp4_current_vs_peak"},
		{types.Exp5IOLimit, ioTable, "exp5_write_throughput,exp5_read_throughput,exp5_latency,exp5_time_impact"},
	}
	for _, tc := range cases {
		figs, skipped := Build(derive(t, tc.kind, tc.table))
		if got := names(figs); got != tc.want {
			t.Fatalf("%v: figures = %s, want %s", tc.kind, got, tc.want)
		}
		if len(skipped) != 0 {
			t.Fatalf("%v: unexpected skipped %v", tc.kind, skipped)
		}
	}
}

func TestBuild_Continuous(t *testing.T) {
	recs, _ := telemetry.DecodeArray([]byte(`[{"timestamp": 1700000000, "cpu_usage_percent": 10, "memory_vsz_kb": 2048,
	  "memory_rss_pages": 256, "io_read_rate_bps": 0, "io_write_rate_bps": 0, "net_rx_bytes": 0, "net_tx_bytes": 0}]`))
	d, err := analysis.Derive(analysis.Input{Kind: types.Continuous, Records: recs}, analysis.Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	figs, _ := Build(d)
	if got := names(figs); got != "cpu_usage,memory_usage,io_rates,network_traffic,dashboard" {
		t.Fatalf("figures = %s", got)
	}
	dash := figs[4]
	if len(dash.Panels) != 4 || dash.columns() != 2 || dash.rows() != 2 {
		t.Fatalf("dashboard grid = %d panels, %dx%d", len(dash.Panels), dash.columns(), dash.rows())
	}
}

func TestBuild_NamespaceVisibilityConditional(t *testing.T) {
	withCounts, _ := telemetry.DecodeNested([]byte(`{"isolation_tests": {
	  "pid_namespace": {"isolated": true, "creation_time_us": 1500, "processes_visible": 1, "host_processes": 240},
	  "uts_namespace": {"isolated": false, "creation_time_us": 500}}}`))
	d, err := analysis.Derive(analysis.Input{Kind: types.Exp2Namespace, Nested: withCounts}, analysis.Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	figs, _ := Build(d)
	if got := names(figs); got != "exp2_creation_time,exp2_resource_visibility,exp2_isolation_effectiveness" {
		t.Fatalf("figures = %s", got)
	}
	pie := figs[2].Panels[0]
	if pie.Kind != PanelPie || len(pie.Bars) != 2 {
		t.Fatalf("pie = %+v", pie)
	}
	if figs[0].Panels[0].Bars[1].Color != colorRed {
		t.Fatalf("not isolated namespace should be drawn red")
	}

	noCounts, _ := telemetry.DecodeNested([]byte(`{"isolation_tests": {"uts_namespace": {"isolated": true}, "mount_namespace": {"isolated": true}}}`))
	d, _ = analysis.Derive(analysis.Input{Kind: types.Exp2Namespace, Nested: noCounts}, analysis.Options{})
	figs, _ = Build(d)
	if got := names(figs); got != "exp2_creation_time,exp2_isolation_effectiveness" {
		t.Fatalf("figures without counts = %s", got)
	}
	if len(figs[1].Panels[0].Bars) != 1 {
		t.Fatalf("all isolated should collapse to one slice")
	}
}

func TestBuild_EmptyAndBaselineOnly(t *testing.T) {
	d, _ := analysis.Derive(analysis.Input{Kind: types.Exp3CPUThrottle}, analysis.Options{})
	if figs, _ := Build(d); len(figs) != 0 {
		t.Fatalf("empty input must produce no figures, got %s", names(figs))
	}
	if figs, _ := Build(nil); figs != nil {
		t.Fatalf("nil derived must produce no figures")
	}

	// only the unmonitored run: the comparison chart survives, the per-interval charts do not
	only := derive(t, types.Exp1Overhead, "sampling_interval_ms,execution_time_sec\n0,2\n")
	figs, skipped := Build(only)
	if names(figs) != "exp1_execution_time" {
		t.Fatalf("figures = %s", names(figs))
	}
	if strings.Join(skipped, ",") != "exp1_overhead,exp1_context_switches" {
		t.Fatalf("skipped = %v", skipped)
	}
}

func TestBuild_ThrottleDetails(t *testing.T) {
	figs, _ := Build(derive(t, types.Exp3CPUThrottle, throttleTable))
	dev := figs[1].Panels[0]
	if dev.Bars[0].Color != colorGreen || dev.Bars[1].Color != colorOrange {
		t.Fatalf("severity colors wrong: %+v", dev.Bars)
	}
	tput := figs[2].Panels[0]
	if tput.RefLines[0].Y != 1000 || !strings.Contains(tput.RefLines[0].Label, "1000") {
		t.Fatalf("baseline ref line = %+v", tput.RefLines[0])
	}
	if len(figs[0].Panels[0].Bars) != 4 {
		t.Fatalf("comparison should pair limit and measured bars")
	}
}

func TestBuild_MemoryLimitMarkers(t *testing.T) {
	figs, _ := Build(derive(t, types.Exp4MemoryLimit, "step,target_mb,current_mb,peak_mb,success\n1,50,50,50,1\n2,90,90,92,1\n3,150,99,100,0\n"))
	prog := figs[0].Panels[0]
	if len(prog.Markers) != 1 || prog.Markers[0].X != 3 || prog.Markers[0].Y != 150 {
		t.Fatalf("markers = %+v", prog.Markers)
	}
	if prog.RefLines[0].Y != analysis.DefaultMemoryLimitMB {
		t.Fatalf("limit line = %v", prog.RefLines[0].Y)
	}
	status := figs[1].Panels[0]
	if status.Bars[2].Color != colorRed || status.Bars[0].Color != colorGreen {
		t.Fatalf("status colors = %+v", status.Bars)
	}
}

func TestBuild_TimeImpactLabels(t *testing.T) {
	figs, _ := Build(derive(t, types.Exp5IOLimit, ioTable))
	impact := figs[3].Panels[0]
	if got := barLabel(impact, impact.Bars[1]); got != "10 MB/s 5.00s +150.0%" {
		t.Fatalf("label = %q", got)
	}
	if got := barLabel(impact, impact.Bars[0]); got != "Baseline 2.00s" {
		t.Fatalf("baseline label = %q", got)
	}
}

func TestBuild_NoComparableRowsSkipsEverything(t *testing.T) {
	cases := []struct {
		kind  types.Kind
		table string
	}{
		{types.Exp1Overhead, "sampling_interval_ms,execution_time_sec\n-1,2.0\n"},
		{types.Exp3CPUThrottle, "cpu_limit_cores,throughput_iter_per_sec\n0,100\n"},
		{types.Exp5IOLimit, "limit_mbps,total_time_sec\n-5,3\n"},
	}
	for _, tc := range cases {
		figs, skipped := Build(derive(t, tc.kind, tc.table))
		if len(figs) != 0 {
			t.Fatalf("%v: no baseline and no limited rows must not draw, got %s", tc.kind, names(figs))
		}
		if len(skipped) == 0 {
			t.Fatalf("%v: skipped figures must be reported", tc.kind)
		}
	}
}
