// Package record turns raw delimited result text into field-mapped records.
//
// Parsing never fails: short rows are padded with empty strings, long rows
// lose their extra fields and empty input yields no records.
package record

import (
	"encoding/json"
)

// Record is one parsed data row as a field-name to value mapping.
//
// A Record is immutable once built. Every record produced by a single Parse
// call shares the same header-derived field names. When the header repeats
// a name, the last column carrying that name provides the value.
type Record struct {
	names  []string
	values map[string]string
}

// New builds a record from explicit header names and values, applying the
// same arity rules as Parse. Mostly useful for tests and callers that
// already hold split rows.
func New(header, fields []string) Record {
	names, index := columns(header)
	return build(names, index, fields)
}

// Get returns the value of the named field, or "" when the field is unknown.
func (r Record) Get(name string) string {
	return r.values[name]
}

// Lookup returns the value of the named field and whether the header declared it.
func (r Record) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in header order.
func (r Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of distinct fields.
func (r Record) Len() int { return len(r.names) }

// Map returns a copy of the field mapping.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as a flat JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values)
}

// columns collapses the header into distinct names (first position kept)
// and the column index that feeds each name (last position kept).
func columns(header []string) ([]string, map[string]int) {
	names := make([]string, 0, len(header))
	index := make(map[string]int, len(header))
	for i, raw := range header {
		h := trim(raw)
		if _, seen := index[h]; !seen {
			names = append(names, h)
		}
		index[h] = i
	}
	return names, index
}

func build(names []string, index map[string]int, fields []string) Record {
	values := make(map[string]string, len(names))
	for _, name := range names {
		col := index[name]
		if col < len(fields) {
			values[name] = trim(fields[col])
		} else {
			values[name] = ""
		}
	}
	return Record{names: names, values: values}
}
