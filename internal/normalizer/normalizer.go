// Package normalizer maps arbitrarily-shaped decoded JSON documents into a
// uniform ordered sequence of field-name keyed records.
package normalizer

import (
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Record is one normalized row, keyed by field name.
type Record = map[string]any

// ErrUnrecognizedSchema marks a document whose shape matched no known variant.
// Callers treat the condition as a diagnostic and degrade to an empty result.
var ErrUnrecognizedSchema = eris.New("normalizer: unrecognized document schema")

// Normalize resolves a decoded JSON document into an ordered slice of records.
// Three shapes are tried in order: a direct sequence of mappings, an envelope
// with a "data" key (optionally containing a "stations" sequence), and a
// tabular "columns"/"rows" pairing. Row order is preserved; nothing is sorted
// or deduplicated. A shape that matches none of the variants yields an empty
// slice and ErrUnrecognizedSchema.
func Normalize(doc any) ([]Record, error) {
	switch v := doc.(type) {
	case []any:
		return fromSequence(v)
	case []Record:
		// Already canonical.
		return v, nil
	case map[string]any:
		if inner, ok := v["data"]; ok {
			return fromDataEnvelope(inner)
		}
		if _, ok := v["rows"]; ok {
			return fromTabular(v)
		}
		if _, ok := v["columns"]; ok {
			return fromTabular(v)
		}
		return nil, eris.Wrapf(ErrUnrecognizedSchema, "mapping with keys %v", mapKeys(v))
	default:
		return nil, eris.Wrapf(ErrUnrecognizedSchema, "unexpected document type %T", doc)
	}
}

// fromSequence accepts a direct sequence of mappings. Elements that are not
// mappings are dropped with a count, not an error.
func fromSequence(seq []any) ([]Record, error) {
	records := make([]Record, 0, len(seq))
	skipped := 0
	for _, el := range seq {
		rec, ok := el.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		zap.L().Warn("normalizer: dropped non-mapping sequence elements",
			zap.Int("skipped", skipped),
		)
	}
	return records, nil
}

// fromDataEnvelope handles {"data": [...]} and {"data": {"stations": [...]}}.
func fromDataEnvelope(inner any) ([]Record, error) {
	switch d := inner.(type) {
	case []any:
		return fromSequence(d)
	case map[string]any:
		if stations, ok := d["stations"].([]any); ok {
			return fromSequence(stations)
		}
		return nil, eris.Wrapf(ErrUnrecognizedSchema, "data envelope with keys %v", mapKeys(d))
	default:
		return nil, eris.Wrapf(ErrUnrecognizedSchema, "data envelope of type %T", inner)
	}
}

// fromTabular zips parallel "columns" and "rows" sequences into records. When
// column descriptors carry no usable names, columns are synthesized by
// position.
func fromTabular(doc map[string]any) ([]Record, error) {
	rows, ok := doc["rows"].([]any)
	if !ok {
		return nil, eris.Wrap(ErrUnrecognizedSchema, "tabular document without usable rows")
	}

	names := columnNames(doc["columns"])

	records := make([]Record, 0, len(rows))
	for _, raw := range rows {
		values, ok := raw.([]any)
		if !ok {
			continue
		}
		rec := make(Record, len(values))
		for i, val := range values {
			rec[columnName(names, i)] = val
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnNames extracts the "name" field from each column descriptor. A nil
// return means names were unavailable and callers synthesize by position.
func columnNames(cols any) []string {
	descriptors, ok := cols.([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		obj, ok := d.(map[string]any)
		if !ok {
			return nil
		}
		name, ok := obj["name"].(string)
		if !ok || name == "" {
			return nil
		}
		names = append(names, name)
	}
	return names
}

func columnName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("column_%d", i)
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
