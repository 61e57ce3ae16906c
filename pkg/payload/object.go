package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pair is an order-significant coordinate: element 0 is the first embedding
// axis, element 1 the second. It marshals as a JSON array.
type Pair [2]float64

// Object is an insertion-ordered, string-keyed container that always
// marshals as a JSON object. The zero value is not usable; call NewObject.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object ready for keyed inserts.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set inserts or replaces the value for key. A replaced key keeps its
// original position; a new key appends.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored for key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// MarshalJSON encodes the object with keys in insertion order. An empty
// Object encodes as {}.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil || len(o.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("payload: marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("payload: marshal value of %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving document key order.
// Nested objects decode to *Object, arrays to []any, numbers to float64.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("payload: decode object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("payload: decode object: expected '{', got %v", tok)
	}
	decoded, err := decodeMembers(dec)
	if err != nil {
		return err
	}
	*o = *decoded
	return nil
}

// decodeMembers reads key/value pairs up to and including the closing '}'.
// The opening '{' must already be consumed.
func decodeMembers(dec *json.Decoder) (*Object, error) {
	o := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("payload: decode key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("payload: decode key: unexpected token %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		o.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("payload: decode object end: %w", err)
	}
	return o, nil
}

// decodeValue reads one JSON value, recursing into objects and arrays.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("payload: decode value: %w", err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeMembers(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("payload: decode array end: %w", err)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("payload: decode value: unexpected delimiter %v", d)
	}
}
