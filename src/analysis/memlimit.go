package analysis

import (
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// MemoryLimitResult is the memory-limit experiment: one entry per allocation step, unmodified.
type MemoryLimitResult struct {
	LimitMB   float64
	Steps     []float64
	TargetMB  []float64
	CurrentMB []float64
	PeakMB    []float64
	Success   []int
	// Failures holds the indices of steps whose allocation failed (success == 0).
	Failures []int
}

func (m *MemoryLimitResult) Kind() types.Kind { return types.Exp4MemoryLimit }
func (m *MemoryLimitResult) Empty() bool      { return len(m.Steps) == 0 }
func (m *MemoryLimitResult) derived()         {}

// DeriveMemoryLimit passes the step columns through and marks failed attempts.
func DeriveMemoryLimit(recs []types.Record, limitMB float64) (*MemoryLimitResult, error) {
	const k = types.Exp4MemoryLimit
	out := &MemoryLimitResult{LimitMB: limitMB}
	if len(recs) == 0 {
		warnEmpty(k)
		return out, nil
	}
	for i, rec := range recs {
		r := newRowReader(k, i, rec)
		step := r.float("step")
		target := r.float("target_mb")
		current := r.float("current_mb")
		peak := r.float("peak_mb")
		success := int(r.float("success"))
		if r.err != nil {
			return nil, r.err
		}
		out.Steps = append(out.Steps, step)
		out.TargetMB = append(out.TargetMB, target)
		out.CurrentMB = append(out.CurrentMB, current)
		out.PeakMB = append(out.PeakMB, peak)
		out.Success = append(out.Success, success)
		if success == 0 {
			out.Failures = append(out.Failures, i)
		}
	}
	return out, nil
}
