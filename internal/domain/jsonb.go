package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// IngredientList is a custom type for storing ingredients as JSONB in
// PostgreSQL. It implements sql.Scanner and driver.Valuer so the ordered
// ingredient list round-trips through a single column.
type IngredientList []Ingredient

// Scan implements the sql.Scanner interface.
func (l *IngredientList) Scan(value any) error {
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if data == nil {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface.
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// StringList is a custom type for storing an ordered list of strings
// (instruction steps) as JSONB in PostgreSQL.
type StringList []string

// Scan implements the sql.Scanner interface.
func (l *StringList) Scan(value any) error {
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if data == nil {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// jsonbBytes normalizes a scanned JSONB value to a byte slice.
func jsonbBytes(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return []byte(v), nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	default:
		return nil, errors.New("unsupported type for JSONB column")
	}
}
