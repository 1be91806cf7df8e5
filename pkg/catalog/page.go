package catalog

import (
	"encoding/json"
	"fmt"
)

// AttributesKey holds the per-catalog attributes of an API object.
const AttributesKey = "attributes"

// Link is one entry of a page's links list.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Page is one response of the content export endpoint.
type Page struct {
	Total   *int    `json:"total"`
	Objects []*Item `json:"-"`
	Links   []Link  `json:"links"`
}

// Next returns the href of the rel=next link, or "" when there is none.
func (p *Page) Next() string {
	for _, l := range p.Links {
		if l.Rel == "next" {
			return l.Href
		}
	}
	return ""
}

// UnmarshalJSON decodes the envelope and lifts each object's attributes.
func (p *Page) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Total   *int              `json:"total"`
		Objects []json.RawMessage `json:"objects"`
		Links   []Link            `json:"links"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	p.Total = envelope.Total
	p.Links = envelope.Links
	p.Objects = make([]*Item, 0, len(envelope.Objects))

	for i, raw := range envelope.Objects {
		item, err := DecodeObject(raw)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		p.Objects = append(p.Objects, item)
	}
	return nil
}

// DecodeObject turns an API object into an Item.
//
// The members of "attributes" are spliced in where "attributes" appears.
// Top-level members win over attributes of the same name.
func DecodeObject(raw json.RawMessage) (*Item, error) {
	var top Item
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, err
	}

	attrsValue, ok := top.Get(AttributesKey)
	if !ok || attrsValue.Kind != Nested || len(attrsValue.Raw) == 0 || attrsValue.Raw[0] != '{' {
		return &top, nil
	}

	var attrs Item
	if err := json.Unmarshal(attrsValue.Raw, &attrs); err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}

	item := NewItem()
	for _, key := range top.Keys() {
		if key != AttributesKey {
			v, _ := top.Get(key)
			item.Set(key, v)
			continue
		}
		for _, attrKey := range attrs.Keys() {
			if _, shadowed := top.Get(attrKey); shadowed {
				continue
			}
			v, _ := attrs.Get(attrKey)
			item.Set(attrKey, v)
		}
	}
	return item, nil
}
