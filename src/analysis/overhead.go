package analysis

import (
	"errors"
	"fmt"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// OverheadResult is the sampling-overhead experiment: one entry per monitored interval.
type OverheadResult struct {
	BaselineFound   bool
	BaselineExecSec float64 // baseline row, or the fastest monitored run when absent

	IntervalsMs      []float64
	ExecTimeSec      []float64
	TimeOverheadPct  []float64
	CPUOverheadPct   []float64
	CtxSwitchesDelta []float64

	// ExecComparison is [baseline] ++ ExecTimeSec with matching labels.
	ExecComparison []float64
	ExecLabels     []string

	records int
}

func (o *OverheadResult) Kind() types.Kind { return types.Exp1Overhead }
func (o *OverheadResult) Empty() bool      { return o.records == 0 }
func (o *OverheadResult) derived()         {}

// DeriveOverhead partitions on sampling_interval_ms (0 = unmonitored baseline). Overhead
// columns are taken as exported; when a column is absent it is recomputed against the
// baseline from the raw execution_time_sec, cpu_time_sec and context_switches columns.
func DeriveOverhead(recs []types.Record) (*OverheadResult, error) {
	const k = types.Exp1Overhead
	out := &OverheadResult{records: len(recs)}
	if len(recs) == 0 {
		warnEmpty(k)
		return out, nil
	}
	base, limited, err := partition(k, recs, "sampling_interval_ms", isZero, isPositive)
	if err != nil {
		return nil, err
	}
	if base < 0 && len(limited) == 0 {
		warnUnpartitioned(k, "sampling_interval_ms")
		return out, nil
	}
	var baseRow *rowReader
	if base >= 0 {
		out.BaselineFound = true
		baseRow = newRowReader(k, base, recs[base])
		out.BaselineExecSec = baseRow.float("execution_time_sec")
		if baseRow.err != nil {
			return nil, baseRow.err
		}
	}
	for _, i := range limited {
		r := newRowReader(k, i, recs[i])
		interval := r.float("sampling_interval_ms")
		exec := r.float("execution_time_sec")
		timeOH := relativeOrColumn(r, baseRow, "time_overhead_percent", "execution_time_sec")
		cpuOH := relativeOrColumn(r, baseRow, "cpu_overhead_percent", "cpu_time_sec")
		var ctx float64
		if r.has("ctx_switches_delta") || baseRow == nil {
			ctx = r.float("ctx_switches_delta")
		} else {
			ctx = r.float("context_switches") - baseRow.float("context_switches")
		}
		if r.err != nil {
			return nil, r.err
		}
		if baseRow != nil && baseRow.err != nil {
			return nil, baseRow.err
		}
		out.IntervalsMs = append(out.IntervalsMs, interval)
		out.ExecTimeSec = append(out.ExecTimeSec, exec)
		out.TimeOverheadPct = append(out.TimeOverheadPct, timeOH)
		out.CPUOverheadPct = append(out.CPUOverheadPct, cpuOH)
		out.CtxSwitchesDelta = append(out.CtxSwitchesDelta, ctx)
	}
	if !out.BaselineFound {
		out.BaselineExecSec = minOf(out.ExecTimeSec)
	}
	out.ExecComparison = append([]float64{out.BaselineExecSec}, out.ExecTimeSec...)
	out.ExecLabels = []string{"Baseline"}
	for _, iv := range out.IntervalsMs {
		out.ExecLabels = append(out.ExecLabels, fmt.Sprintf("%d ms", int(iv)))
	}
	return out, nil
}

// relativeOrColumn returns the exported percentage column, or (x - base) / base * 100 over
// the raw column when the percentage is absent and a baseline exists.
func relativeOrColumn(r, base *rowReader, pctField, rawField string) float64 {
	if r.has(pctField) || base == nil {
		return r.float(pctField)
	}
	x := r.float(rawField)
	b := base.float(rawField)
	if r.err == nil && base.err == nil && b == 0 {
		r.err = &DerivationError{Kind: r.kind, Row: r.row, Field: pctField, Err: errors.New("baseline " + rawField + " is zero")}
		return 0
	}
	return (x - b) / b * 100
}
