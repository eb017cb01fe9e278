package localization

import (
	"encoding/json"
	"strings"

	"autoparts/content/internal/domain"
)

// The helpers below narrow decoded JSON without ever failing loudly: a wrong
// shape is reported through the ok result or by dropping the element.

func decodeObject(raw string) (map[string]any, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, false
	}
	return asObject(decoded)
}

func asObject(v any) (map[string]any, bool) {
	record, ok := v.(map[string]any)
	return record, ok && record != nil
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

// optionalString returns nil unless the key holds a JSON string.
func optionalString(record map[string]any, key string) *string {
	s, ok := record[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// stringSlice keeps the string elements of an array. It returns nil when the
// value is not an array and a non-nil (possibly empty) slice otherwise.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// oemCodes keeps array entries shaped like {manufacturer: string, codes: string[]}.
func oemCodes(v any) []domain.OEMCode {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.OEMCode, 0, len(items))
	for _, item := range items {
		record, ok := asObject(item)
		if !ok {
			continue
		}
		manufacturer, ok := record["manufacturer"].(string)
		if !ok {
			continue
		}
		codes := stringSlice(record["codes"])
		if codes == nil {
			continue
		}
		out = append(out, domain.OEMCode{Manufacturer: manufacturer, Codes: codes})
	}
	return out
}

// stringMap keeps the string-valued keys of an object.
func stringMap(v any) map[string]string {
	record, ok := asObject(v)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(record))
	for k, item := range record {
		if s, ok := item.(string); ok {
			out[k] = s
		}
	}
	return out
}
