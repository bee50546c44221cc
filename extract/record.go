package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Record is a flat metadata record that preserves insertion order. Keys are
// namespaced per extraction pass so two passes observing the same underlying
// tag never collide. Values are strings, integers or floats.
type Record struct {
	keys []string
	vals map[string]interface{}
}

func NewRecord() *Record {
	return &Record{vals: make(map[string]interface{})}
}

// Set stores a value under key. A repeated key keeps its original position.
func (r *Record) Set(key string, value interface{}) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// GetString returns the value stringified, or "" when the key is absent.
func (r *Record) GetString(key string) string {
	v, ok := r.vals[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func (r *Record) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Copy returns an independent copy. Enhancement works on copies so the
// caller's record is never mutated.
func (r *Record) Copy() *Record {
	out := &Record{
		keys: make([]string, len(r.keys)),
		vals: make(map[string]interface{}, len(r.vals)),
	}
	copy(out.keys, r.keys)
	for k, v := range r.vals {
		out.vals[k] = v
	}
	return out
}

// Merge appends every entry of other, preserving other's insertion order.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.vals[k])
	}
}

// MarshalJSON emits the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object back preserving its key order. Numbers
// that fit an integer come back as int64, everything else as float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	r.keys = nil
	r.vals = make(map[string]interface{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: non-string key %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := valTok.(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				r.Set(key, i)
			} else if f, err := v.Float64(); err == nil && !math.IsNaN(f) {
				r.Set(key, f)
			} else {
				r.Set(key, v.String())
			}
		case string:
			r.Set(key, v)
		case bool, nil:
			r.Set(key, v)
		default:
			return fmt.Errorf("record: unsupported value for %q", key)
		}
	}
	_, err = dec.Token() // closing brace
	return err
}
