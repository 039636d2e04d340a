package telemetry

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

var (
	errNotNumeric = errors.New("not numeric")
	errNotFinite  = errors.New("not a finite number")
	errNotBool    = errors.New("not a boolean")
)

// lookup returns the raw value with whitespace-only strings treated as absent.
func lookup(r types.Record, field string) (interface{}, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		return s, true
	}
	return v, true
}

// Has reports whether the record carries a non-empty value for field.
func Has(r types.Record, field string) bool {
	_, ok := lookup(r, field)
	return ok
}

// Float reads field as a number. Tabular inputs carry numbers as strings; both forms are accepted.
func Float(r types.Record, field string) (float64, error) {
	v, ok := lookup(r, field)
	if !ok {
		return 0, &FieldError{Field: field, Err: ErrMissingField}
	}
	if _, isBool := v.(bool); isBool {
		return 0, &FieldError{Field: field, Value: v, Err: errNotNumeric}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &FieldError{Field: field, Value: v, Err: errNotNumeric}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Field: field, Value: v, Err: errNotFinite}
	}
	return f, nil
}

// FloatOr reads field as a number, returning def when the field is absent.
// A present but malformed value is still an error.
func FloatOr(r types.Record, field string, def float64) (float64, error) {
	if !Has(r, field) {
		return def, nil
	}
	return Float(r, field)
}

// Bool reads field as a boolean (true/false, 1/0), returning def when absent.
func Bool(r types.Record, field string, def bool) (bool, error) {
	v, ok := lookup(r, field)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, &FieldError{Field: field, Value: v, Err: errNotBool}
	}
	return b, nil
}

// Time reads field as a sample instant: epoch seconds (fractional allowed) or a date string.
func Time(r types.Record, field string) (time.Time, error) {
	v, ok := lookup(r, field)
	if !ok {
		return time.Time{}, &FieldError{Field: field, Err: ErrMissingField}
	}
	if s, isStr := v.(string); isStr {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			t, perr := dateparse.ParseAny(s)
			if perr != nil {
				return time.Time{}, &FieldError{Field: field, Value: v, Err: perr}
			}
			return t, nil
		}
	}
	sec, err := Float(r, field)
	if err != nil {
		return time.Time{}, err
	}
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)), nil
}
