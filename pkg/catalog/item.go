// Package catalog models the objects returned by the content export API.
//
// Items keep their attributes in the order the server sent them so column
// discovery downstream is stable. Each attribute value is either a Scalar,
// kept as its exact textual form, or Nested, kept as compact JSON.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags a Value.
type Kind int

const (
	Scalar Kind = iota
	Nested
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one attribute value.
// For Scalar, Text holds the column text (null is ""). For Nested, Raw holds compact JSON.
type Value struct {
	Kind Kind
	Text string
	Raw  json.RawMessage
}

// ScalarValue builds a Scalar.
func ScalarValue(text string) Value {
	return Value{Kind: Scalar, Text: text}
}

// NestedValue builds a Nested value from JSON. raw must be an object or array.
func NestedValue(raw json.RawMessage) (Value, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Value{}, err
	}
	return Value{Kind: Nested, Raw: buf.Bytes()}, nil
}

// Item is an ordered mapping from attribute name to Value.
type Item struct {
	keys   []string
	values map[string]Value
}

// NewItem returns an empty item.
func NewItem() *Item {
	return &Item{values: make(map[string]Value)}
}

// Set adds or replaces an attribute. New keys go to the end.
func (it *Item) Set(key string, v Value) {
	if it.values == nil {
		it.values = make(map[string]Value)
	}
	if _, ok := it.values[key]; !ok {
		it.keys = append(it.keys, key)
	}
	it.values[key] = v
}

// Get returns the value stored under key.
func (it *Item) Get(key string) (Value, bool) {
	v, ok := it.values[key]
	return v, ok
}

// Keys returns the attribute names in insertion order.
func (it *Item) Keys() []string {
	out := make([]string, len(it.keys))
	copy(out, it.keys)
	return out
}

// Len is the number of attributes.
func (it *Item) Len() int {
	return len(it.keys)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (it *Item) UnmarshalJSON(data []byte) error {
	*it = Item{values: make(map[string]Value)}
	return decodeObject(data, func(key string, raw json.RawMessage) error {
		v, err := classify(raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		it.Set(key, v)
		return nil
	})
}

// classify turns one raw JSON value into a Value.
func classify(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}

	switch raw[0] {
	case '{', '[':
		return NestedValue(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return ScalarValue(s), nil
	case 'n':
		return ScalarValue(""), nil
	default:
		// true, false, or a number: keep the literal as sent
		return ScalarValue(string(raw)), nil
	}
}

// decodeObject walks the members of a JSON object in order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
