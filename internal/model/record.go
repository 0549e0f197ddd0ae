package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingAttribute = errors.New("missing attribute")
	ErrAttributeType    = errors.New("attribute has wrong type")
)

// Record is a named-attribute row for one ship or weapon, as produced by the
// data loader. Values are float64, int, string or bool.
type Record map[string]any

// Has reports whether the attribute is present.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// ID returns the "id" attribute or an empty string.
func (r Record) ID() string {
	s, _ := r.String("id")
	return s
}

// Float returns a numeric attribute as float64.
// Numeric strings are accepted because .ship and .wpn merges keep some values textual.
func (r Record) Float(name string) (float64, error) {
	v, ok := r[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingAttribute, name)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is %q", ErrAttributeType, name, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %q is %T", ErrAttributeType, name, v)
	}
}

// FloatOr returns the attribute or def when it is absent. Type errors are still reported.
func (r Record) FloatOr(name string, def float64) (float64, error) {
	if !r.Has(name) {
		return def, nil
	}
	return r.Float(name)
}

// Int returns a numeric attribute truncated to int.
func (r Record) Int(name string) (int, error) {
	f, err := r.Float(name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// String returns a textual attribute.
func (r Record) String(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingAttribute, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrAttributeType, name, v)
	}
	return s, nil
}

// Bool returns a boolean attribute. "TRUE"/"FALSE" strings are accepted.
func (r Record) Bool(name string) (bool, error) {
	v, ok := r[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMissingAttribute, name)
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(x)))
		if err != nil {
			return false, fmt.Errorf("%w: %q is %q", ErrAttributeType, name, x)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %q is %T", ErrAttributeType, name, v)
	}
}

// Clone returns a shallow copy; attribute values are scalars.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
