// Package plist loads property-list dictionaries (Info.plist, entitlements),
// applies find-or-create edits and encodes them back in their original
// format.
package plist

import (
	"fmt"
	"slices"

	"howett.net/plist"
)

// Dict is a decoded top-level plist dictionary.
type Dict map[string]interface{}

// Document is a dictionary together with the format it was read in.
type Document struct {
	Dict   Dict
	Format int
}

// Load decodes data. Empty input yields an empty XML dictionary.
func Load(data []byte) (*Document, error) {
	doc := &Document{Dict: Dict{}, Format: plist.XMLFormat}
	if len(data) == 0 {
		return doc, nil
	}
	format, err := plist.Unmarshal(data, &doc.Dict)
	if err != nil {
		return nil, fmt.Errorf("decode plist: %w", err)
	}
	if format == plist.OpenStepFormat || format == plist.GNUStepFormat {
		format = plist.XMLFormat
	}
	doc.Format = format
	return doc, nil
}

// Encode serializes the document with tab indentation.
func (d *Document) Encode() ([]byte, error) {
	out, err := plist.MarshalIndent(map[string]interface{}(d.Dict), d.Format, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode plist: %w", err)
	}
	if d.Format == plist.XMLFormat && (len(out) == 0 || out[len(out)-1] != '\n') {
		out = append(out, '\n')
	}
	return out, nil
}

// StringArray returns the string elements of the array stored at key. A
// missing key or a value of another type yields nil.
func (d Dict) StringArray(key string) []string {
	raw, ok := d[key].([]interface{})
	if !ok {
		if typed, ok := d[key].([]string); ok {
			return slices.Clone(typed)
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MergeStringArray unions values into the array at key. Existing entries
// keep their order and new ones are appended in the given order. It reports
// whether the stored value changed.
func (d Dict) MergeStringArray(key string, values ...string) bool {
	current := d.StringArray(key)
	merged := slices.Clone(current)
	for _, v := range values {
		if !slices.Contains(merged, v) {
			merged = append(merged, v)
		}
	}

	if len(merged) == len(current) && d.isStringArray(key) {
		return false
	}

	out := make([]interface{}, len(merged))
	for i, v := range merged {
		out[i] = v
	}
	d[key] = out
	return true
}

func (d Dict) isStringArray(key string) bool {
	switch v := d[key].(type) {
	case []string:
		return true
	case []interface{}:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// SetString stores value at key and reports whether it changed.
func (d Dict) SetString(key, value string) bool {
	if current, ok := d[key].(string); ok && current == value {
		return false
	}
	d[key] = value
	return true
}
