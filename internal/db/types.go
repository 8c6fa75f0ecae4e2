package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// HoursMap is a thin wrapper around map[string]string (weekday -> hours text)
// that implements sql.Scanner and driver.Valuer so it works transparently
// with jsonb columns.
type HoursMap map[string]string

// Scan implements sql.Scanner
func (h *HoursMap) Scan(src interface{}) error {
	if h == nil {
		return fmt.Errorf("dbtypes: Scan on nil *HoursMap")
	}
	if src == nil {
		*h = HoursMap{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		var out map[string]string
		if err := json.Unmarshal(v, &out); err != nil {
			return err
		}
		*h = out
		return nil
	case string:
		var out map[string]string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return err
		}
		*h = out
		return nil
	default:
		return fmt.Errorf("dbtypes: cannot scan type %T into HoursMap", src)
	}
}

// Value implements driver.Valuer
// Marshals the map to JSON (works well with jsonb columns).
func (h HoursMap) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
