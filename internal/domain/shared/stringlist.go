package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// StringList is a list of strings persisted as a JSON array column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = items
	return nil
}

// Contains reports whether s is present in the list
func (l StringList) Contains(s string) bool {
	return slices.Contains(l, s)
}
