package analysis

import (
	"math"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// Severity grades how far measured CPU strayed from the configured limit.
type Severity int

const (
	SeverityLow    Severity = iota // |deviation| < 5%
	SeverityMedium                 // 5% <= |deviation| < 15%
	SeverityHigh                   // |deviation| >= 15%
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	default:
		return "high"
	}
}

// ClassifyDeviation maps a deviation percentage onto its severity tier.
func ClassifyDeviation(d float64) Severity {
	a := math.Abs(d)
	switch {
	case a < 5:
		return SeverityLow
	case a < 15:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// ThrottleResult is the CPU-throttling experiment: one entry per limited run.
type ThrottleResult struct {
	BaselineFound      bool
	BaselineThroughput float64 // baseline row, or the best limited throughput when absent

	LimitCores       []float64
	LimitPercent     []float64
	MeasuredPercent  []float64
	DeviationPercent []float64
	Severity         []Severity
	Throughput       []float64

	records int
}

func (t *ThrottleResult) Kind() types.Kind { return types.Exp3CPUThrottle }
func (t *ThrottleResult) Empty() bool      { return t.records == 0 }
func (t *ThrottleResult) derived()         {}

// DeriveThrottle partitions on cpu_limit_cores: a negative value marks the unlimited baseline.
func DeriveThrottle(recs []types.Record) (*ThrottleResult, error) {
	const k = types.Exp3CPUThrottle
	out := &ThrottleResult{records: len(recs)}
	if len(recs) == 0 {
		warnEmpty(k)
		return out, nil
	}
	base, limited, err := partition(k, recs, "cpu_limit_cores", isNegative, isPositive)
	if err != nil {
		return nil, err
	}
	if base < 0 && len(limited) == 0 {
		warnUnpartitioned(k, "cpu_limit_cores")
		return out, nil
	}
	for _, i := range limited {
		r := newRowReader(k, i, recs[i])
		cores := r.float("cpu_limit_cores")
		measured := r.float("measured_cpu_percent")
		dev := r.float("deviation_percent")
		tput := r.float("throughput_iter_per_sec")
		if r.err != nil {
			return nil, r.err
		}
		out.LimitCores = append(out.LimitCores, cores)
		out.LimitPercent = append(out.LimitPercent, cores*100)
		out.MeasuredPercent = append(out.MeasuredPercent, measured)
		out.DeviationPercent = append(out.DeviationPercent, dev)
		out.Severity = append(out.Severity, ClassifyDeviation(dev))
		out.Throughput = append(out.Throughput, tput)
	}
	if base >= 0 {
		r := newRowReader(k, base, recs[base])
		out.BaselineThroughput = r.float("throughput_iter_per_sec")
		if r.err != nil {
			return nil, r.err
		}
		out.BaselineFound = true
	} else {
		out.BaselineThroughput = maxOf(out.Throughput)
	}
	return out, nil
}
