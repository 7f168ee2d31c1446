package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of tags persisted as a JSON array in a text column.
type StringList []string

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

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	err := json.Unmarshal(raw, &out)
	if err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = out
	return nil
}

// Contains reports whether s is already in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
