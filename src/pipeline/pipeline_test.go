package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iafilius/ResourceMonitorViz/src/analysis"
	"github.com/iafilius/ResourceMonitorViz/src/charts"
	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// fakeRenderer records figure names instead of drawing them.
type fakeRenderer struct {
	drawn  []string
	failOn string
}

func (f *fakeRenderer) Draw(fig charts.Figure) (string, error) {
	if fig.Name == f.failOn {
		return "", errors.New("boom")
	}
	f.drawn = append(f.drawn, fig.Name)
	return fig.Name + ".png", nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

const exp3CSV = `cpu_limit_cores,quota_us,period_us,measured_cpu_percent,deviation_percent,throughput_iter_per_sec
-1.00,0,0,99.8,0.00,1000
0.50,50000,100000,48.00,-4.00,480
1.00,100000,100000,92.00,-8.00,910
`

const exp1CSV = `sampling_interval_ms,execution_time_sec,cpu_time_sec,context_switches,time_overhead_percent,cpu_overhead_percent,ctx_switches_delta
0,2.000,1.900,100,0.00,0.00,0
100,2.100,1.950,140,5.00,2.63,40
`

func TestRunFile_Throttle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exp3_run.csv", exp3CSV)
	r := &fakeRenderer{}
	p := New(r, nil, Options{})
	rep, err := p.RunFile(path)
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if rep.Kind != types.Exp3CPUThrottle || rep.Records != 3 {
		t.Fatalf("report = %+v", rep)
	}
	if strings.Join(r.drawn, ",") != "exp3_cpu_comparison,exp3_deviation,exp3_throughput" {
		t.Fatalf("drawn = %v", r.drawn)
	}
	if got := testutil.ToFloat64(p.Metrics().charts.WithLabelValues("exp3_cpu_throttle")); got != 3 {
		t.Fatalf("expected 3 rendered charts, got %v", got)
	}
	if got := testutil.ToFloat64(p.Metrics().records.WithLabelValues("exp3_cpu_throttle")); got != 3 {
		t.Fatalf("expected 3 loaded records, got %v", got)
	}
}

func TestRunFile_Terminal(t *testing.T) {
	dir := t.TempDir()
	p := New(&fakeRenderer{}, nil, Options{})

	_, err := p.RunFile(filepath.Join(dir, "data.txt"))
	var ce *telemetry.ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}

	_, err = p.RunFile(filepath.Join(dir, "exp5_missing.csv"))
	var ioe *telemetry.IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("expected IOError, got %v", err)
	}

	bad := writeFile(t, dir, "exp5_bad.csv", "limit_mbps,write_throughput_mbps\n10,fast\n")
	rep, err := p.RunFile(bad)
	var de *analysis.DerivationError
	if !errors.As(err, &de) || rep.Status() != "failed" {
		t.Fatalf("expected DerivationError, got %v", err)
	}

	r := &fakeRenderer{failOn: "exp3_deviation"}
	rep, err = New(r, nil, Options{}).RunFile(writeFile(t, dir, "exp3.csv", exp3CSV))
	if err == nil || len(rep.Charts) != 1 {
		t.Fatalf("render failure must stop the file after the charts already written: %v %+v", err, rep)
	}
}

func TestRunFile_EmptyInputProducesNoCharts(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	rep, err := New(r, nil, Options{}).RunFile(writeFile(t, dir, "exp4_empty.csv", "step,target_mb,current_mb,peak_mb,success\n"))
	if err != nil {
		t.Fatalf("empty input is not an error: %v", err)
	}
	if len(r.drawn) != 0 || rep.Status() != "no data" {
		t.Fatalf("expected no charts, got %v", r.drawn)
	}
}

func TestRunFile_RendersPNGs(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	path := writeFile(t, dir, "monitor_output.json", `[
	 {"timestamp": 1700000000, "cpu_usage_percent": 10, "memory_vsz_kb": 2048, "memory_rss_pages": 256, "io_read_rate_bps": 0, "io_write_rate_bps": 0, "net_rx_bytes": 0, "net_tx_bytes": 0},
	 {"timestamp": 1700000001, "cpu_usage_percent": 40, "memory_vsz_kb": 4096, "memory_rss_pages": 512, "io_read_rate_bps": 1048576, "io_write_rate_bps": 0, "net_rx_bytes": 1048576, "net_tx_bytes": 2048}
	]`)
	r := &charts.PNGRenderer{Dir: out, Width: 500, Height: 250}
	rep, err := New(r, nil, Options{}).RunFile(path)
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	for _, name := range []string{"cpu_usage", "memory_usage", "io_rates", "network_traffic", "dashboard"} {
		if _, err := os.Stat(filepath.Join(out, name+".png")); err != nil {
			t.Fatalf("missing %s.png: %v", name, err)
		}
	}
	if len(rep.Charts) != 5 {
		t.Fatalf("charts = %v", rep.Charts)
	}
}

func TestRunFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "experiment1_overhead.csv", exp1CSV)
	a, b := &fakeRenderer{}, &fakeRenderer{}
	p1, p2 := New(a, nil, Options{}), New(b, nil, Options{})
	if _, err := p1.RunFile(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := p2.RunFile(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if strings.Join(a.drawn, ",") != strings.Join(b.drawn, ",") {
		t.Fatalf("runs differ: %v vs %v", a.drawn, b.drawn)
	}
}
