package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Row is an ordered column → value mapping. Keys are unique; insertion order
// is kept for display but ignored by Equal.
//
// The zero value is an empty row ready to use.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]interface{})}
}

// RowFromMap builds a row from a map. Keys are ordered alphabetically.
func RowFromMap(m map[string]interface{}) *Row {
	r := NewRow()
	for _, k := range FilterMap(m).SortedKeys() {
		r.Set(k, m[k])
	}
	return r
}

// Set assigns a value. Setting an existing key keeps its position.
func (r *Row) Set(key string, value interface{}) *Row {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value for key.
func (r *Row) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or nil.
func (r *Row) Value(key string) interface{} {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of columns.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Values returns the values in key order.
func (r *Row) Values() []interface{} {
	if r == nil {
		return nil
	}
	vals := make([]interface{}, len(r.keys))
	for i, k := range r.keys {
		vals[i] = r.values[k]
	}
	return vals
}

// Range calls fn for every column in order until fn returns false.
func (r *Row) Range(fn func(key string, value interface{}) bool) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		if !fn(k, r.values[k]) {
			return
		}
	}
}

// Map returns an unordered copy.
func (r *Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, r.Len())
	r.Range(func(k string, v interface{}) bool {
		m[k] = v
		return true
	})
	return m
}

// Equal compares keys and normalized values, ignoring order.
func (r *Row) Equal(other *Row) bool {
	if r.Len() != other.Len() {
		return false
	}
	equal := true
	r.Range(func(k string, v interface{}) bool {
		ov, ok := other.Get(k)
		if !ok || !ValuesEqual(v, ov) {
			equal = false
		}
		return equal
	})
	return equal
}

// String renders the row as {k: v, ...} in key order.
func (r *Row) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	r.Range(func(k string, v interface{}) bool {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %v", k, v)
		i++
		return true
	})
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON encodes the row as a JSON object in key order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	r.Range(func(k string, v interface{}) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(v); err != nil {
			err = fmt.Errorf("column %s: %w", k, err)
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the row as a YAML mapping in key order.
func (r *Row) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	r.Range(func(k string, v interface{}) bool {
		var valueNode yaml.Node
		if err = valueNode.Encode(v); err != nil {
			err = fmt.Errorf("column %s: %w", k, err)
			return false
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&valueNode,
		)
		return true
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}
