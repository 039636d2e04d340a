package analysis

import (
	"math"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// rowReader reads fields of one record and keeps the first failure, so a strategy can
// read every column it needs and check the error once.
type rowReader struct {
	kind types.Kind
	row  int
	rec  types.Record
	err  error
}

func newRowReader(k types.Kind, row int, rec types.Record) *rowReader {
	return &rowReader{kind: k, row: row, rec: rec}
}

func (r *rowReader) float(field string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := telemetry.Float(r.rec, field)
	if err != nil {
		r.err = fieldErr(r.kind, r.row, err)
	}
	return v
}

func (r *rowReader) has(field string) bool { return telemetry.Has(r.rec, field) }

// partition splits records by a control column into the first baseline record and the
// limited records, preserving input order. Records matching neither predicate are dropped.
func partition(k types.Kind, recs []types.Record, control string, isBaseline, isLimited func(float64) bool) (baseline int, limited []int, err error) {
	baseline = -1
	for i, rec := range recs {
		v, ferr := telemetry.Float(rec, control)
		if ferr != nil {
			return -1, nil, fieldErr(k, i, ferr)
		}
		switch {
		case isBaseline(v):
			if baseline < 0 {
				baseline = i
			}
		case isLimited(v):
			limited = append(limited, i)
		}
	}
	return baseline, limited, nil
}

func isZero(v float64) bool     { return v == 0 }
func isPositive(v float64) bool { return v > 0 }
func isNegative(v float64) bool { return v < 0 }

// maxOf returns the largest value, or 0 for an empty slice.
func maxOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

// minOf returns the smallest value, or 0 for an empty slice.
func minOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, v := range vs {
		if v < m {
			m = v
		}
	}
	return m
}
