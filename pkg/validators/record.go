// Package validators aggregates per-validator metadata files into lookup
// tables keyed by the validator's secp public key.
package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// KeySecp is the record field used as the table key.
	KeySecp = "secp"
	// KeyName is the display name field; it falls back to the secp key.
	KeyName = "name"
)

// Record is one validator's metadata, decoded verbatim from its file.
// Fields keep the order and the exact value text of the source document;
// fields other than secp and name pass through untouched.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

func newRecord() *Record {
	return &Record{values: map[string]json.RawMessage{}}
}

// Table maps a secp key to the validator record that carries it.
type Table map[string]*Record

// Keys returns the record's field names in source order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get decodes one field. Numbers come back as json.Number.
func (r *Record) Get(key string) (interface{}, bool) {
	raw, ok := r.values[key]
	if !ok {
		return nil, false
	}
	var v interface{}
	if err := codec.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Set replaces a field, appending it when the record does not have it yet.
func (r *Record) Set(key string, value interface{}) error {
	raw, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	r.setRaw(key, raw)
	return nil
}

func (r *Record) setRaw(key string, raw []byte) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(json.RawMessage(nil), raw...)
}

// Secp returns the record's lookup key. A missing or null secp yields "";
// non-string values are rendered as compact JSON.
func (r *Record) Secp() string {
	v, _ := r.Get(KeySecp)
	return textValue(v)
}

// Name returns the display name, falling back to fallback when the record
// has no name. Non-string names are rendered as compact JSON.
func (r *Record) Name(fallback string) string {
	v, ok := r.Get(KeyName)
	if !ok || v == nil {
		return fallback
	}
	return textValue(v)
}

// applyNameFallback sets name to secp when name is absent, null or blank.
func (r *Record) applyNameFallback(secp string) error {
	v, _ := r.Get(KeyName)
	switch name := v.(type) {
	case nil:
		return r.Set(KeyName, secp)
	case string:
		if strings.TrimSpace(name) == "" {
			return r.Set(KeyName, secp)
		}
	}
	return nil
}

// MarshalJSON writes the fields in source order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := codec.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := json.Compact(&buf, r.values[key]); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys returns the table keys in ascending order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func textValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := codec.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
