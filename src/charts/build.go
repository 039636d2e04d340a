package charts

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/ResourceMonitorViz/src/analysis"
	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
)

// Build returns the figures for d in their fixed order, plus the names of figures
// that were dropped because their data was empty. An empty Derived yields nothing.
func Build(d analysis.Derived) (figures []Figure, skipped []string) {
	if d == nil || d.Empty() {
		return nil, nil
	}
	var all []Figure
	switch v := d.(type) {
	case *analysis.ContinuousSeries:
		all = continuousFigures(v)
	case *analysis.OverheadResult:
		all = overheadFigures(v)
	case *analysis.NamespaceResult:
		all = namespaceFigures(v)
	case *analysis.ThrottleResult:
		all = throttleFigures(v)
	case *analysis.MemoryLimitResult:
		all = memoryLimitFigures(v)
	case *analysis.IOLimitResult:
		all = ioLimitFigures(v)
	}
	for _, f := range all {
		if ok := drawableFigure(f); !ok {
			telemetry.Warnf("%s: %s has nothing to draw; skipped", d.Kind(), f.Name)
			skipped = append(skipped, f.Name)
			continue
		}
		figures = append(figures, f)
	}
	return figures, skipped
}

func drawableFigure(f Figure) bool {
	if len(f.Panels) == 0 {
		return false
	}
	for _, p := range f.Panels {
		if !p.drawable() {
			return false
		}
	}
	return true
}

func timeLine(title, ylabel string, c *analysis.ContinuousSeries, series ...Series) Panel {
	for i := range series {
		series[i].Times = c.Times
	}
	return Panel{Kind: PanelTimeLine, Title: title, XLabel: "Timestamp", YLabel: ylabel, Series: series}
}

func continuousFigures(c *analysis.ContinuousSeries) []Figure {
	cpu := timeLine("CPU Usage (%)", "CPU %", c, Series{Name: "CPU", Y: c.CPUPercent, Color: colorBlue})
	vsz := timeLine("Virtual Memory (VSZ)", "VSZ (MB)", c, Series{Name: "VSZ", Y: c.VSZMB, Color: colorBlue})
	rss := timeLine("Resident Memory (RSS)", "RSS (MB)", c, Series{Name: "RSS", Y: c.RSSMB, Color: colorGreen})
	io := timeLine("I/O Rates (MB/s)", "Rate (MB/s)", c,
		Series{Name: "Read", Y: c.IOReadMBps, Color: colorBlue},
		Series{Name: "Write", Y: c.IOWriteMBps, Color: colorRed})
	rx := timeLine("Network Received (RX)", "Received (MB)", c, Series{Name: "RX", Y: c.NetRxMB, Color: colorDodger})
	tx := timeLine("Network Transmitted (TX)", "Transmitted (MB)", c, Series{Name: "TX", Y: c.NetTxMB, Color: colorOrange})
	net := timeLine("Network Traffic (MB)", "Traffic (MB)", c,
		Series{Name: "RX", Y: c.NetRxMB, Color: colorDodger},
		Series{Name: "TX", Y: c.NetTxMB, Color: colorOrange})

	return []Figure{
		{Name: "cpu_usage", Panels: []Panel{cpu}, Hint: "Hint: sustained plateaus near the quota point at throttling."},
		{Name: "memory_usage", Panels: []Panel{vsz, rss}},
		{Name: "io_rates", Panels: []Panel{io}},
		{Name: "network_traffic", Panels: []Panel{rx, tx}},
		{Name: "dashboard", Title: "Resource Monitoring Dashboard", Columns: 2, Panels: []Panel{cpu, rss, io, net}},
	}
}

func overheadFigures(o *analysis.OverheadResult) []Figure {
	zero := []RefLine{{Y: 0, Color: colorGray}}
	timeOH := Panel{Kind: PanelLine, Title: "Execution Time Overhead", XLabel: "Sampling interval (ms)", YLabel: "Overhead (%)",
		LogX: true, RefLines: zero,
		Series: []Series{{Name: "Time overhead", X: o.IntervalsMs, Y: o.TimeOverheadPct, Color: colorBlue}}}
	cpuOH := Panel{Kind: PanelLine, Title: "CPU Overhead", XLabel: "Sampling interval (ms)", YLabel: "Overhead (%)",
		LogX: true, RefLines: zero,
		Series: []Series{{Name: "CPU overhead", X: o.IntervalsMs, Y: o.CPUOverheadPct, Color: colorCrimson}}}

	ctx := Panel{Kind: PanelBar, Title: "Additional Context Switches per Interval", XLabel: "Sampling interval", YLabel: "Context switches delta"}
	for i, iv := range o.IntervalsMs {
		ctx.Bars = append(ctx.Bars, Bar{Label: intervalLabel(iv), Value: o.CtxSwitchesDelta[i], Color: colorOrange})
	}

	exec := Panel{Kind: PanelBar, Title: "Execution Time per Configuration", XLabel: "Configuration", YLabel: "Execution time (s)", ValueFormat: "%.2fs"}
	for i, v := range o.ExecComparison {
		exec.Bars = append(exec.Bars, Bar{Label: o.ExecLabels[i], Value: v, Color: baselineColor(i)})
	}

	hint := ""
	if !o.BaselineFound {
		hint = "No unmonitored baseline run; the fastest monitored run is used as reference."
	}
	return []Figure{
		{Name: "exp1_overhead", Columns: 2, Panels: []Panel{timeOH, cpuOH}},
		{Name: "exp1_context_switches", Panels: []Panel{ctx}},
		{Name: "exp1_execution_time", Panels: []Panel{exec}, Hint: hint},
	}
}

func namespaceFigures(n *analysis.NamespaceResult) []Figure {
	creation := Panel{Kind: PanelBar, Title: "Namespace Creation Time", XLabel: "Namespace", YLabel: "Time (ms)", ValueFormat: "%.2fms"}
	for _, ns := range n.Namespaces {
		col := colorGreen
		if !ns.Isolated {
			col = colorRed
		}
		creation.Bars = append(creation.Bars, Bar{Label: ns.Name, Value: ns.CreationMs, Color: col})
	}
	figs := []Figure{{Name: "exp2_creation_time", Panels: []Panel{creation},
		Hint: fmt.Sprintf("Average creation time %.2f ms; red bars were not isolated.", n.AvgCreationMs)}}

	if withCounts := n.WithCounts(); len(withCounts) > 0 {
		vis := Panel{Kind: PanelBar, Title: "Visible Resources: Host vs Namespace", XLabel: "Namespace", YLabel: "Visible resources", ValueFormat: "%.0f"}
		for _, ns := range withCounts {
			vis.Bars = append(vis.Bars,
				Bar{Label: ns.Name + " host", Value: ns.HostCount, Color: colorLightCoral},
				Bar{Label: ns.Name + " ns", Value: ns.NamespaceCount, Color: colorLightBlue})
		}
		figs = append(figs, Figure{Name: "exp2_resource_visibility", Panels: []Panel{vis}})
	}

	eff := Panel{Kind: PanelPie, Title: "Isolation Effectiveness"}
	for i, c := range n.Summary {
		col := colorLightGreen
		if i > 0 {
			col = colorPink
		}
		eff.Bars = append(eff.Bars, Bar{Label: c.Label, Value: float64(c.Count), Color: col})
	}
	return append(figs, Figure{Name: "exp2_isolation_effectiveness", Panels: []Panel{eff}})
}

func throttleFigures(t *analysis.ThrottleResult) []Figure {
	cmp := Panel{Kind: PanelBar, Title: "Measured CPU vs Configured Limit", XLabel: "Limit (cores)", YLabel: "CPU (%)", ValueFormat: "%.0f%%"}
	dev := Panel{Kind: PanelBar, Title: "Deviation per Limit", XLabel: "CPU limit", YLabel: "Deviation (%)", ValueFormat: "%+.1f%%",
		RefLines: []RefLine{
			{Y: 0, Color: colorBlack},
			{Label: "±5% (high precision)", Y: 5, Color: colorOrange},
			{Y: -5, Color: colorOrange},
		}}
	for i, cores := range t.LimitCores {
		cmp.Bars = append(cmp.Bars,
			Bar{Label: fmt.Sprintf("%.2f limit", cores), Value: t.LimitPercent[i], Color: colorLightBlue},
			Bar{Label: fmt.Sprintf("%.2f measured", cores), Value: t.MeasuredPercent[i], Color: colorSalmon})
		dev.Bars = append(dev.Bars, Bar{Label: fmt.Sprintf("%.2f cores", cores), Value: t.DeviationPercent[i], Color: severityColor(t.Severity[i])})
	}
	tput := Panel{Kind: PanelLine, Title: "Throughput vs CPU Limit", XLabel: "CPU limit (cores)", YLabel: "Throughput (iterations/s)",
		Series:   []Series{{Name: "Throughput", X: t.LimitCores, Y: t.Throughput, Color: colorBlue}},
		RefLines: []RefLine{{Label: fmt.Sprintf("Baseline (%.0f iter/s)", t.BaselineThroughput), Y: t.BaselineThroughput, Color: colorGreen}}}

	return []Figure{
		{Name: "exp3_cpu_comparison", Panels: []Panel{cmp}},
		{Name: "exp3_deviation", Panels: []Panel{dev}, Hint: "Green < 5%, orange < 15%, red >= 15% away from the limit."},
		{Name: "exp3_throughput", Panels: []Panel{tput}},
	}
}

func severityColor(s analysis.Severity) drawing.Color {
	switch s {
	case analysis.SeverityLow:
		return colorGreen
	case analysis.SeverityMedium:
		return colorOrange
	}
	return colorRed
}

func memoryLimitFigures(m *analysis.MemoryLimitResult) []Figure {
	limit := RefLine{Label: fmt.Sprintf("Configured limit (%g MB)", m.LimitMB), Y: m.LimitMB, Color: colorOrange}
	progress := Panel{Kind: PanelLine, Title: "Memory Allocation Progress", XLabel: "Allocation step", YLabel: "Memory (MB)",
		Series: []Series{
			{Name: "Requested", X: m.Steps, Y: m.TargetMB, Color: colorBlue},
			{Name: "Peak", X: m.Steps, Y: m.PeakMB, Color: colorRed},
		},
		RefLines:   []RefLine{limit},
		MarkerName: "Allocation failures",
	}
	status := Panel{Kind: PanelBar, Title: "Allocation Status per Step", XLabel: "Step", YLabel: "Requested memory (MB)", RefLines: []RefLine{limit}}
	usage := Panel{Kind: PanelBar, Title: "Current vs Peak Memory", XLabel: "Step", YLabel: "Memory (MB)", ValueFormat: "%.0f"}
	for i, step := range m.Steps {
		ok := m.Success[i] != 0
		col, note := colorGreen, "ok"
		if !ok {
			col, note = colorRed, "failed"
		}
		status.Bars = append(status.Bars, Bar{Label: fmt.Sprintf("%g", step), Value: m.TargetMB[i], Color: col, Note: note})
		usage.Bars = append(usage.Bars,
			Bar{Label: fmt.Sprintf("%g current", step), Value: m.CurrentMB[i], Color: colorLightBlue},
			Bar{Label: fmt.Sprintf("%g peak", step), Value: m.PeakMB[i], Color: colorCoral})
	}
	for _, i := range m.Failures {
		progress.Markers = append(progress.Markers, Marker{X: m.Steps[i], Y: m.TargetMB[i], Label: "x"})
	}

	return []Figure{
		{Name: "exp4_allocation_progress", Panels: []Panel{progress}},
		{Name: "exp4_allocation_status", Panels: []Panel{status}},
		{Name: "exp4_current_vs_peak", Panels: []Panel{usage}},
	}
}

func ioLimitFigures(o *analysis.IOLimitResult) []Figure {
	write := Panel{Kind: PanelLine, Title: "Write Throughput vs Limit", XLabel: "Configured limit (MB/s)", YLabel: "Write throughput (MB/s)",
		Series: []Series{
			{Name: "Measured", X: o.LimitMBps, Y: o.WriteMBps, Color: colorBlue},
			{Name: "Configured limit", X: o.LimitMBps, Y: o.LimitMBps, Color: colorRed, Dashed: true},
		},
		RefLines: []RefLine{{Label: fmt.Sprintf("Baseline (%.0f MB/s)", o.BaselineWriteMBps), Y: o.BaselineWriteMBps, Color: colorGreen}}}
	read := Panel{Kind: PanelLine, Title: "Read Throughput vs Limit", XLabel: "Configured limit (MB/s)", YLabel: "Read throughput (MB/s)",
		Series:   []Series{{Name: "Measured", X: o.LimitMBps, Y: o.ReadMBps, Color: colorCrimson}},
		RefLines: []RefLine{{Label: fmt.Sprintf("Baseline (%.0f MB/s)", o.BaselineReadMBps), Y: o.BaselineReadMBps, Color: colorGreen}}}

	wlat := Panel{Kind: PanelBar, Title: "Write Latency", XLabel: "Limit", YLabel: "Latency (ms/MB)"}
	rlat := Panel{Kind: PanelBar, Title: "Read Latency", XLabel: "Limit", YLabel: "Latency (ms/MB)"}
	for i, l := range o.LimitMBps {
		wlat.Bars = append(wlat.Bars, Bar{Label: mbpsLabel(l), Value: o.WriteLatencyMs[i], Color: colorSteel})
		rlat.Bars = append(rlat.Bars, Bar{Label: mbpsLabel(l), Value: o.ReadLatencyMs[i], Color: colorCoral})
	}

	impact := Panel{Kind: PanelBar, Title: "Impact on Total Execution Time", XLabel: "Configuration", YLabel: "Total time (s)", ValueFormat: "%.2fs"}
	for i, t := range o.ImpactTimes {
		b := Bar{Label: o.ImpactLabels[i], Value: t, Color: baselineColor(i)}
		if i > 0 {
			b.Note = fmt.Sprintf("%+.1f%%", o.TimeIncreasePct[i-1])
		}
		impact.Bars = append(impact.Bars, b)
	}

	return []Figure{
		{Name: "exp5_write_throughput", Panels: []Panel{write}},
		{Name: "exp5_read_throughput", Panels: []Panel{read}},
		{Name: "exp5_latency", Columns: 2, Panels: []Panel{wlat, rlat}},
		{Name: "exp5_time_impact", Panels: []Panel{impact}},
	}
}

func baselineColor(i int) drawing.Color {
	if i == 0 {
		return colorGreen
	}
	return colorSteel
}

func intervalLabel(ms float64) string { return fmt.Sprintf("%d ms", int(ms)) }
func mbpsLabel(l float64) string      { return fmt.Sprintf("%d MB/s", int(l)) }
