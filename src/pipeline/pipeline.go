// Package pipeline runs classify, load, derive and draw for one telemetry file, or for the
// fixed set of experiment exports in batch mode.
package pipeline

import (
	"time"

	"github.com/iafilius/ResourceMonitorViz/src/analysis"
	"github.com/iafilius/ResourceMonitorViz/src/charts"
	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// Options configures a Pipeline.
type Options struct {
	// DataDir is the root that batch-mode locations are resolved against.
	DataDir       string
	MemoryLimitMB float64
}

// Report describes what one input produced.
type Report struct {
	Path    string
	Kind    types.Kind
	Records int
	Charts  []string // written artifact paths, in draw order
	Skipped []string // figures with nothing to draw
	Err     error
}

// Status is a short human label for the report.
func (r Report) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case len(r.Charts) == 0:
		return "no data"
	}
	return "ok"
}

type Pipeline struct {
	renderer charts.Renderer
	metrics  *Metrics
	opts     Options
}

// New returns a pipeline drawing through r. A nil m gets a fresh metrics registry.
func New(r charts.Renderer, m *Metrics, opts Options) *Pipeline {
	if m == nil {
		m = NewMetrics()
	}
	if opts.DataDir == "" {
		opts.DataDir = DefaultDataDir
	}
	return &Pipeline{renderer: r, metrics: m, opts: opts}
}

func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// RunFile classifies path by name and runs it. Any error is terminal for the file; the
// report still carries whatever was written before the failure.
func (p *Pipeline) RunFile(path string) (*Report, error) {
	kind, err := telemetry.Classify(path)
	if err != nil {
		return &Report{Path: path, Err: err}, err
	}
	return p.run(path, kind)
}

func (p *Pipeline) run(path string, kind types.Kind) (*Report, error) {
	defer telemetry.TimeTrack(time.Now(), "process "+path)
	rep := &Report{Path: path, Kind: kind}
	fail := func(err error) (*Report, error) {
		rep.Err = err
		return rep, err
	}

	in := analysis.Input{Kind: kind}
	if telemetry.EncodingOf(kind) == telemetry.EncodingNested {
		doc, err := telemetry.LoadNested(path)
		if err != nil {
			return fail(err)
		}
		in.Nested = doc
	} else {
		recs, err := telemetry.LoadRecords(path)
		if err != nil {
			return fail(err)
		}
		in.Records = recs
		rep.Records = len(recs)
	}

	d, err := analysis.Derive(in, analysis.Options{MemoryLimitMB: p.opts.MemoryLimitMB})
	if err != nil {
		return fail(err)
	}
	// isolation_tests may carry keys that are not namespace kinds; count what is charted.
	if ns, ok := d.(*analysis.NamespaceResult); ok {
		rep.Records = len(ns.Namespaces)
	}
	p.metrics.recordsLoaded(kind, rep.Records)
	figs, skipped := charts.Build(d)
	rep.Skipped = skipped
	p.metrics.chartsSkipped(kind, len(skipped))
	for _, fig := range figs {
		out, err := p.renderer.Draw(fig)
		if err != nil {
			return fail(err)
		}
		rep.Charts = append(rep.Charts, out)
		p.metrics.chartRendered(kind)
	}
	telemetry.Infof("%s: %d charts written from %s", kind, len(rep.Charts), path)
	return rep, nil
}
