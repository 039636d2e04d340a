// Package telemetry reads exported monitoring and experiment files and decides which kind they are.
package telemetry

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pquerna/ffjson/ffjson"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// LoadRecords reads a flat record file. The encoding follows the extension:
// .csv is tabular, anything else is treated as a JSON array of objects.
func LoadRecords(path string) ([]types.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	enc := EncodingArray
	if strings.HasSuffix(path, TabularExt) {
		enc = EncodingTabular
	}
	var recs []types.Record
	switch enc {
	case EncodingTabular:
		recs, err = DecodeTabular(bytes.NewReader(raw))
	default:
		recs, err = DecodeArray(raw)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Encoding: enc, Err: err}
	}
	Infof("loaded %d records from %s", len(recs), path)
	return recs, nil
}

// DecodeArray parses a JSON array of objects. A literal null decodes to zero records.
func DecodeArray(raw []byte) ([]types.Record, error) {
	var recs []types.Record
	if err := ffjson.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	for i, r := range recs {
		if r == nil {
			recs[i] = types.Record{}
		}
	}
	return recs, nil
}

// DecodeTabular parses CSV with a header row. Values stay strings; numeric
// coercion happens where the field is consumed.
func DecodeTabular(r io.Reader) ([]types.Record, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, err
	}
	recs := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(types.Record, len(row))
		for k, v := range row {
			rec[strings.TrimSpace(k)] = v
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// LoadNested reads the namespace-isolation export, a single JSON object.
func LoadNested(path string) (*types.NestedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	doc, err := DecodeNested(raw)
	if err != nil {
		return nil, &DecodeError{Path: path, Encoding: EncodingNested, Err: err}
	}
	Infof("loaded %d isolation tests from %s", len(doc.IsolationTests), path)
	return doc, nil
}

// DecodeNested parses the namespace-isolation object. A missing isolation_tests key
// yields an empty document rather than an error.
func DecodeNested(raw []byte) (*types.NestedDocument, error) {
	var doc types.NestedDocument
	if err := ffjson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errors.New("document is null")
	}
	if doc.IsolationTests == nil {
		doc.IsolationTests = map[string]types.Record{}
	}
	return &doc, nil
}
