// Package fieldpath resolves dotted attribute paths such as
// "user.screen_name" against decoded JSON objects.
package fieldpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const Delimiter = "."

var ErrNotFound = errors.New("field not found")

// Resolve walks record along the dot-separated path and returns the value at
// the end of it. Any absent or non-object intermediate segment yields
// ErrNotFound.
func Resolve(record map[string]interface{}, path string) (interface{}, error) {
	var current interface{} = record
	for _, segment := range strings.Split(path, Delimiter) {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		current, ok = obj[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
	}
	return current, nil
}

// ResolveWithDefault is the lenient variant: absent paths produce def
// instead of an error.
func ResolveWithDefault(record map[string]interface{}, path string, def interface{}) interface{} {
	value, err := Resolve(record, path)
	if err != nil {
		return def
	}
	return value
}

// Text coerces a resolved value to its external text representation.
// Composite values are re-encoded as JSON.
func Text(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode field value: %w", err)
		}
		return string(encoded), nil
	}
}
