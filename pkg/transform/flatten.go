// Package transform flattens catalog items into tabular rows.
package transform

import (
	"bytes"
	"encoding/json"

	"github.com/saturnines/catalog-export/pkg/catalog"
)

// Column names with a fixed position in the header.
const (
	URLColumn    = "url"
	TypeColumn   = "type"
	ExactColumn  = "exact"
	NestedColumn = "nested"
)

// LeadingColumns always open the header, in this order.
var LeadingColumns = []string{URLColumn, TypeColumn, ExactColumn}

// Row is the flattened form of an item.
type Row struct {
	// Columns lists the scalar columns of this row in item order.
	Columns []string
	Values  map[string]string
}

// Get returns the value of a column, "" when the row lacks it.
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Flatten converts an item into a Row.
//
// Scalars become their own columns. Every nested attribute, plus any attribute
// named "nested", is collected into one JSON object stored under NestedColumn.
// The result depends only on the item, so flattening twice yields equal rows.
func Flatten(item *catalog.Item) Row {
	row := Row{Values: make(map[string]string, item.Len()+1)}

	var nested bytes.Buffer
	for _, key := range item.Keys() {
		v, _ := item.Get(key)

		if v.Kind == catalog.Scalar && key != NestedColumn {
			row.Columns = append(row.Columns, key)
			row.Values[key] = v.Text
			continue
		}

		if nested.Len() == 0 {
			nested.WriteByte('{')
		} else {
			nested.WriteByte(',')
		}
		nested.Write(encodeKey(key))
		nested.WriteByte(':')
		nested.Write(nestedJSON(v))
	}

	if nested.Len() > 0 {
		nested.WriteByte('}')
		row.Values[NestedColumn] = nested.String()
	} else {
		row.Values[NestedColumn] = ""
	}

	return row
}

// nestedJSON renders a value inside the nested object.
// A scalar only lands here when its key is "nested".
func nestedJSON(v catalog.Value) []byte {
	if v.Kind == catalog.Nested {
		return v.Raw
	}
	return encodeKey(v.Text)
}

// encodeKey JSON-encodes a string without HTML escaping.
func encodeKey(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
