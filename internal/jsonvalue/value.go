// Package jsonvalue models decoded JSON as a closed set of value types so that
// metadata trees can be merged with exhaustive type switches.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Value is one of String, Number, Bool, Null, Array or Object.
// A nil Value means "undefined" (the key is absent).
type Value interface {
	isValue()
	// Any converts the value back into the shapes produced by encoding/json.
	Any() any
}

type (
	String string
	Number float64
	Bool   bool
	Null   struct{}
	Array  []Value
	Object map[string]Value
)

func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Array) isValue()  {}
func (Object) isValue() {}

func (s String) Any() any { return string(s) }
func (n Number) Any() any { return float64(n) }
func (b Bool) Any() any   { return bool(b) }
func (Null) Any() any     { return nil }

func (a Array) Any() any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = toAny(v)
	}
	return out
}

func (o Object) Any() any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = toAny(v)
	}
	return out
}

func toAny(v Value) any {
	if v == nil {
		return nil
	}
	return v.Any()
}

// Keys returns the object keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromAny converts a value produced by encoding/json (or built by hand from the
// same shapes) into a Value. Unsupported Go types yield nil.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		arr := make(Array, 0, len(t))
		for _, item := range t {
			if converted := FromAny(item); converted != nil {
				arr = append(arr, converted)
			}
		}
		return arr
	case []string:
		arr := make(Array, 0, len(t))
		for _, item := range t {
			arr = append(arr, String(item))
		}
		return arr
	case map[string]any:
		obj := make(Object, len(t))
		for k, item := range t {
			if converted := FromAny(item); converted != nil {
				obj[k] = converted
			}
		}
		return obj
	default:
		return nil
	}
}

// Parse decodes raw JSON into a Value.
func Parse(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode json value: %w", err)
	}
	return FromAny(raw), nil
}

// MarshalJSON lets Object be embedded in API responses directly.
func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Any())
}

// MarshalJSON lets Array be embedded in API responses directly.
func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Any())
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Equal reports whether two values are structurally identical.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, exists := bv[k]
			if !exists || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
