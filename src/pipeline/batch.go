package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// DefaultDataDir is where the monitor writes experiment exports.
const DefaultDataDir = "output"

// Guidance is printed when batch mode finds nothing it could process.
const Guidance = "run the experiments first with `sudo ./bin/monitor experiment <1-5>`"

// Experiment is one known export location, relative to the data directory.
type Experiment struct {
	RelPath string
	Kind    types.Kind
}

// Experiments is the batch table, in processing order.
var Experiments = []Experiment{
	{"experiment1_overhead.csv", types.Exp1Overhead},
	{filepath.Join("experiments", "exp2_namespace_isolation.json"), types.Exp2Namespace},
	{"experiment3_cpu_throttling.csv", types.Exp3CPUThrottle},
	{"experiment4_memory_limit.csv", types.Exp4MemoryLimit},
	{"experiment5_io_limit.csv", types.Exp5IOLimit},
}

// ErrNotFound marks a batch location with no export file.
var ErrNotFound = errors.New("not found")

// BatchResult is the outcome of RunAll.
type BatchResult struct {
	Reports   []Report // one per table entry, missing ones included
	Succeeded int
}

// RunAll processes every known experiment export that exists. A failing experiment is
// logged and recorded; the rest still run.
func (p *Pipeline) RunAll() BatchResult {
	var res BatchResult
	for _, exp := range Experiments {
		rep := p.runExperiment(exp)
		res.Reports = append(res.Reports, rep)
		switch {
		case rep.Err == nil:
			res.Succeeded++
			p.metrics.experiment(resultOK)
		case errors.Is(rep.Err, ErrNotFound):
			p.metrics.experiment(resultMissing)
		default:
			p.metrics.experiment(resultFailed)
		}
	}
	if res.Succeeded == 0 {
		telemetry.Warnf("no experiment exports processed under %s/; %s", p.opts.DataDir, Guidance)
	} else {
		telemetry.Infof("%d experiment(s) visualized", res.Succeeded)
	}
	return res
}

// runExperiment classifies the table's relative location, never the data directory, so
// a directory name carrying an experiment token cannot change the kind.
func (p *Pipeline) runExperiment(exp Experiment) Report {
	path, want := filepath.Join(p.opts.DataDir, exp.RelPath), exp.Kind
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			telemetry.Warnf("%s: %s", path, ErrNotFound)
			return Report{Path: path, Kind: want, Err: fmt.Errorf("%s: %w", path, ErrNotFound)}
		}
		telemetry.Errorf("%s: %v", path, err)
		return Report{Path: path, Kind: want, Err: &telemetry.IOError{Path: path, Err: err}}
	}
	kind, err := telemetry.Classify(exp.RelPath)
	if err == nil && kind != want {
		err = &telemetry.ClassificationError{Path: path, Reason: fmt.Sprintf("classified as %s, expected %s", kind, want)}
	}
	if err != nil {
		telemetry.Errorf("%s: %v", path, err)
		return Report{Path: path, Kind: want, Err: err}
	}
	telemetry.Infof("processing %s", path)
	rep, err := p.run(path, kind)
	if err != nil {
		telemetry.Errorf("%s: %v", path, err)
	}
	return *rep
}
