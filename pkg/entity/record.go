package entity

import (
	"fmt"
	"slices"
	"time"
)

// Collection names a group of records.
type Collection string

const (
	Course     Collection = "Course"
	Enrollment Collection = "Enrollment"
	Section    Collection = "Section"
	Lesson     Collection = "Lesson"
	Review     Collection = "Review"
	AuditLog   Collection = "AuditLog"
	User       Collection = "User"
	Category   Collection = "Category"
)

// Collections lists every known collection.
var Collections = []Collection{Course, Enrollment, Section, Lesson, Review, AuditLog, User, Category}

// Valid reports whether c is one of Collections.
func (c Collection) Valid() bool {
	return slices.Contains(Collections, c)
}

func (c Collection) check() error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
	}
	return nil
}

// Reserved fields.
const (
	FieldID          = "id"
	FieldCreatedDate = "created_date"
	FieldUpdatedDate = "updated_date"
)

// Record is a single schemaless entity.
type Record map[string]any

func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Float returns numeric fields as float64; anything else is 0.
func (r Record) Float(key string) float64 {
	f, _ := toFloat(r[key])
	return f
}

func (r Record) Int(key string) int {
	return int(r.Float(key))
}

func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Strings returns a string list field. []any elements that are not strings
// are skipped.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Time returns time fields stored either as time.Time or RFC 3339 strings.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	}
	return time.Time{}, false
}

// Clone returns a deep copy of maps and slices inside the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.Clone()
	case map[string]any:
		return map[string]any(Record(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}

// Matches reports whether every field in where equals the record's field.
func (r Record) Matches(where Record) bool {
	for k, want := range where {
		got, ok := r[k]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}
