package analysis

import (
	"errors"
	"fmt"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// IOLimitResult is the I/O-throttling experiment: one entry per limited run.
type IOLimitResult struct {
	BaselineFound bool
	// Baselines come from the unlimited row; when absent throughput falls back to the best
	// limited value and total time to the fastest limited run.
	BaselineWriteMBps float64
	BaselineReadMBps  float64
	BaselineTimeSec   float64

	LimitMBps      []float64
	WriteMBps      []float64
	ReadMBps       []float64
	WriteLatencyMs []float64
	ReadLatencyMs  []float64
	TotalTimeSec   []float64
	// TimeIncreasePct is (t - baseline) / baseline * 100 per limited run.
	TimeIncreasePct []float64

	// ImpactTimes is [baseline] ++ TotalTimeSec with matching labels.
	ImpactTimes  []float64
	ImpactLabels []string

	records int
}

func (o *IOLimitResult) Kind() types.Kind { return types.Exp5IOLimit }
func (o *IOLimitResult) Empty() bool      { return o.records == 0 }
func (o *IOLimitResult) derived()         {}

// DeriveIOLimit partitions on limit_mbps: 0 marks the unlimited baseline.
func DeriveIOLimit(recs []types.Record) (*IOLimitResult, error) {
	const k = types.Exp5IOLimit
	out := &IOLimitResult{records: len(recs)}
	if len(recs) == 0 {
		warnEmpty(k)
		return out, nil
	}
	base, limited, err := partition(k, recs, "limit_mbps", isZero, isPositive)
	if err != nil {
		return nil, err
	}
	if base < 0 && len(limited) == 0 {
		warnUnpartitioned(k, "limit_mbps")
		return out, nil
	}
	for _, i := range limited {
		r := newRowReader(k, i, recs[i])
		limit := r.float("limit_mbps")
		w := r.float("write_throughput_mbps")
		rd := r.float("read_throughput_mbps")
		wl := r.float("write_latency_ms")
		rl := r.float("read_latency_ms")
		total := r.float("total_time_sec")
		if r.err != nil {
			return nil, r.err
		}
		out.LimitMBps = append(out.LimitMBps, limit)
		out.WriteMBps = append(out.WriteMBps, w)
		out.ReadMBps = append(out.ReadMBps, rd)
		out.WriteLatencyMs = append(out.WriteLatencyMs, wl)
		out.ReadLatencyMs = append(out.ReadLatencyMs, rl)
		out.TotalTimeSec = append(out.TotalTimeSec, total)
	}
	if base >= 0 {
		r := newRowReader(k, base, recs[base])
		out.BaselineWriteMBps = r.float("write_throughput_mbps")
		out.BaselineReadMBps = r.float("read_throughput_mbps")
		out.BaselineTimeSec = r.float("total_time_sec")
		if r.err != nil {
			return nil, r.err
		}
		out.BaselineFound = true
	} else {
		out.BaselineWriteMBps = maxOf(out.WriteMBps)
		out.BaselineReadMBps = maxOf(out.ReadMBps)
		out.BaselineTimeSec = minOf(out.TotalTimeSec)
	}
	if len(out.TotalTimeSec) > 0 && out.BaselineTimeSec == 0 {
		return nil, &DerivationError{Kind: k, Row: base, Field: "total_time_sec", Err: errors.New("baseline total_time_sec is zero; time increase undefined")}
	}
	out.ImpactTimes = append([]float64{out.BaselineTimeSec}, out.TotalTimeSec...)
	out.ImpactLabels = []string{"Baseline"}
	for i, t := range out.TotalTimeSec {
		out.TimeIncreasePct = append(out.TimeIncreasePct, (t-out.BaselineTimeSec)/out.BaselineTimeSec*100)
		out.ImpactLabels = append(out.ImpactLabels, fmt.Sprintf("%d MB/s", int(out.LimitMBps[i])))
	}
	return out, nil
}
