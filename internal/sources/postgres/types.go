package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores any JSON-marshalable Go value as JSON in a text column via a
// plain Scan/Value pair, instead of reaching for a third-party JSON-column
// type.
type JSONColumn[T any] struct{ Value T }

func (j JSONColumn[T]) MarshalJSON() ([]byte, error) { return json.Marshal(j.Value) }

func (j *JSONColumn[T]) UnmarshalJSON(data []byte) error { return json.Unmarshal(data, &j.Value) }

func (j JSONColumn[T]) GormDataType() string { return "text" }

func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Value)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONColumn[T]) Scan(value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Value)
	case string:
		return json.Unmarshal([]byte(v), &j.Value)
	default:
		return fmt.Errorf("postgres: cannot scan %T into JSONColumn", value)
	}
}

// StringSlice is a []string stored as JSON in a text column.
type StringSlice = JSONColumn[[]string]

func strSlice(v []string) StringSlice { return StringSlice{Value: v} }
