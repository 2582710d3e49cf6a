package ejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is an insertion-ordered mapping from unique string keys to values.
// Key order is preserved through marshal/unmarshal round trips.
//
// Use NewDocument to construct one; the zero Document is a read-only empty
// document.
type Document struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewDocument creates an empty document.
func NewDocument() Document {
	return Document{om: orderedmap.New[string, any]()}
}

// Set stores a value under key, appending the key if it is new.
// Returns the document for chaining.
func (d Document) Set(key string, value any) Document {
	if d.om == nil {
		d.om = orderedmap.New[string, any]()
	}
	d.om.Set(key, value)
	return d
}

// IsZero reports whether the document is the unconstructed zero value.
// An empty document made with NewDocument is not zero.
func (d Document) IsZero() bool {
	return d.om == nil
}

// Get returns the value stored under key.
func (d Document) Get(key string) (any, bool) {
	if d.om == nil {
		return nil, false
	}
	return d.om.Get(key)
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Delete removes key. Returns true if the key was present.
func (d Document) Delete(key string) bool {
	if d.om == nil {
		return false
	}
	_, ok := d.om.Delete(key)
	return ok
}

// Len returns the number of keys.
func (d Document) Len() int {
	if d.om == nil {
		return 0
	}
	return d.om.Len()
}

// Keys returns the keys in insertion order.
func (d Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	for k := range d.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over key/value pairs in insertion order.
func (d Document) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if d.om == nil {
			return
		}
		for pair := d.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// MarshalJSON writes the document as a JSON object with keys in insertion
// order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range d.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal value for %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the document as compact JSON, or a placeholder if it cannot
// be marshaled.
func (d Document) String() string {
	data, err := json.Marshal(d)
	if err != nil {
		return "Document(<unencodable>)"
	}
	return string(data)
}
