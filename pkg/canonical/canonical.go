package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
)

// ErrNonFiniteFloat is returned when a NaN or ±Infinity value is encountered
// while building a canonical payload. Non-finite floats have no single
// portable JSON representation, so determinism
// requires rejecting them outright rather than guessing an encoding.
var ErrNonFiniteFloat = errors.New("canonical: NaN and infinite floats are not representable")

// MarshalJSON returns a canonical JSON encoding of v with sorted keys.
// This ensures that the same object always produces the same JSON string,
// regardless of the original key order in the map. Returns ErrNonFiniteFloat
// if v is, or holds inside map[string]interface{}/[]interface{} values, a
// NaN or ±Inf float64; other types are passed to encoding/json, which
// reports its own error for such floats.
func MarshalJSON(v interface{}) ([]byte, error) {
	return marshalCanonical(v)
}

func marshalCanonical(v interface{}) ([]byte, error) {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, ErrNonFiniteFloat
	}
	switch val := v.(type) {
	case map[string]interface{}:
		// Sort keys alphabetically
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf := bytes.NewBufferString("{")
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(",")
			}
			// Marshal the key
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteString(":")

			// Recursively marshal the value
			valJSON, err := marshalCanonical(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteString("}")
		return buf.Bytes(), nil

	case []interface{}:
		buf := bytes.NewBufferString("[")
		for i, item := range val {
			if i > 0 {
				buf.WriteString(",")
			}
			itemJSON, err := marshalCanonical(item)
			if err != nil {
				return nil, err
			}
			buf.Write(itemJSON)
		}
		buf.WriteString("]")
		return buf.Bytes(), nil

	default:
		// For primitives (string, number, bool, null), use standard JSON marshaling
		return json.Marshal(v)
	}
}
