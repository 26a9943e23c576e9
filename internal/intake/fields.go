package intake

import (
	"bytes"
	"encoding/json"

	"complaint-dashboard/internal/catalog"
)

// ExtractedFields holds the semantic values pulled out of a form payload.
// Every field defaults to the empty string.
type ExtractedFields struct {
	ReporterName string
	UnitNameRaw  string
	StatusRaw    string
}

// Item is a single {name, value} entry of a form payload.
type Item struct {
	Name  string
	Value string
}

// DecodePayload reads the first page of a stored form payload.
// Entries that are not objects, lack a string name, have a missing or null
// value, or carry a non-scalar value are dropped one by one. A payload that
// does not decode yields nil.
func DecodePayload(raw []byte) []Item {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		// payload stored as a JSON-encoded string
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		raw = []byte(inner)
	}

	var pages []json.RawMessage
	if err := json.Unmarshal(raw, &pages); err != nil || len(pages) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(pages[0], &entries); err != nil {
		return nil
	}

	items := make([]Item, 0, len(entries))
	for _, rawEntry := range entries {
		var e map[string]json.RawMessage
		if err := json.Unmarshal(rawEntry, &e); err != nil || e == nil {
			continue
		}
		var name string
		rawName, ok := e["name"]
		if !ok || json.Unmarshal(rawName, &name) != nil {
			continue
		}
		value, ok := scalarText(e["value"])
		if !ok {
			continue
		}
		items = append(items, Item{Name: name, Value: value})
	}
	return items
}

func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '[', '{':
		return "", false
	default:
		// numbers and booleans keep their JSON spelling
		return string(trimmed), true
	}
}

// Extract maps payload items onto the slots named by tags. Later items with
// the same tag overwrite earlier ones; unknown tags are ignored.
func Extract(items []Item, tags catalog.FieldTags) ExtractedFields {
	var out ExtractedFields
	for _, it := range items {
		switch it.Name {
		case tags.Reporter:
			out.ReporterName = it.Value
		case tags.Unit:
			out.UnitNameRaw = it.Value
		case tags.Status:
			out.StatusRaw = it.Value
		}
	}
	return out
}

// ExtractPayload decodes raw and extracts its fields in one step.
func ExtractPayload(raw []byte, tags catalog.FieldTags) ExtractedFields {
	return Extract(DecodePayload(raw), tags)
}
