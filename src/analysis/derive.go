// Package analysis turns loaded telemetry records into the chart-ready series each kind needs.
//
// Each kind has exactly one strategy and one result type. Results implement Derived, a closed
// interface (the marker method is unexported), so consumers switch over a known set of types.
package analysis

import (
	"errors"
	"fmt"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// DefaultMemoryLimitMB is the cgroup memory.max the memory-limit experiment configures.
const DefaultMemoryLimitMB = 100

// Derived is the result of one derivation pass.
type Derived interface {
	Kind() types.Kind
	// Empty reports that no records were available, so no chart should be attempted.
	Empty() bool
	derived()
}

// Input is what the loader produced for one file.
type Input struct {
	Kind    types.Kind
	Records []types.Record        // flat kinds
	Nested  *types.NestedDocument // Exp2Namespace only
}

// Options tunes derivations that depend on how an experiment was configured.
type Options struct {
	MemoryLimitMB float64
}

// Derive dispatches to the strategy for in.Kind.
func Derive(in Input, opts Options) (Derived, error) {
	switch in.Kind {
	case types.Continuous:
		return result(DeriveContinuous(in.Records))
	case types.Exp1Overhead:
		return result(DeriveOverhead(in.Records))
	case types.Exp2Namespace:
		return result(DeriveNamespace(in.Nested))
	case types.Exp3CPUThrottle:
		return result(DeriveThrottle(in.Records))
	case types.Exp4MemoryLimit:
		limit := opts.MemoryLimitMB
		if limit <= 0 {
			limit = DefaultMemoryLimitMB
		}
		return result(DeriveMemoryLimit(in.Records, limit))
	case types.Exp5IOLimit:
		return result(DeriveIOLimit(in.Records))
	}
	return nil, &DerivationError{Kind: in.Kind, Row: -1, Err: errors.New("no derivation strategy for this kind")}
}

// result keeps a failed strategy from producing a non-nil Derived holding a nil pointer.
func result[T Derived](d T, err error) (Derived, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DerivationError reports a required field that is missing or malformed for the selected kind.
type DerivationError struct {
	Kind  types.Kind
	Row   int // record index, -1 when not row specific
	Field string
	Err   error
}

func (e *DerivationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: record %d: %v", e.Kind, e.Row, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

func fieldErr(k types.Kind, row int, err error) error {
	de := &DerivationError{Kind: k, Row: row, Err: err}
	var fe *telemetry.FieldError
	if errors.As(err, &fe) {
		de.Field = fe.Field
	}
	return de
}

func warnEmpty(k types.Kind) {
	telemetry.Warnf("%s: no records to derive; charts skipped", k)
}

// warnUnpartitioned reports records that are neither baseline nor limited, which leaves
// no baseline to compare against.
func warnUnpartitioned(k types.Kind, control string) {
	telemetry.Warnf("%s: no record has a baseline or limited %s; comparison charts skipped", k, control)
}
