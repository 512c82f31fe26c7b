package securejson

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// BlockedKeys are dropped wherever they appear as object keys.
var BlockedKeys = []string{"__proto__", "constructor", "prototype"}

// Parse decodes data and returns the cleaned value: objects are
// map[string]any, arrays []any, numbers float64.
func Parse(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return Clean(v), nil
}

// Decode parses data, cleans it and binds the result into T.
func Decode[T any](data []byte) (T, error) {
	var out T

	v, err := Parse(data)
	if err != nil {
		return out, err
	}

	clean, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if err := json.Unmarshal(clean, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return out, nil
}

// DecodeReader reads at most limit bytes from r and decodes them like Decode.
// limit <= 0 means no limit.
func DecodeReader[T any](r io.Reader, limit int64) (T, error) {
	var out T

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return out, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return out, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return Decode[T](data)
}

// Clean rebuilds v without blocked keys. Values that are not maps or slices
// are returned as is.
func Clean(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if slices.Contains(BlockedKeys, k) {
				continue
			}
			out[k] = Clean(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clean(item)
		}
		return out
	default:
		return v
	}
}
