// Package valueobject holds small value types shared by entities and
// database adapters.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValueNotBytes indicates the database value is not JSON text.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a free-form JSON object, stored in a jsonb column.
// @swaggertype object
type JSONMap map[string]any

// Value implements driver.Valuer. A nil map is stored as {}.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSONMap) Scan(value any) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = JSONMap(v)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrScanValueNotBytes
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}

	*j = out
	return nil
}

// Merge copies every key of other into j, replacing existing values.
// A JSON null in other removes the key.
func (j JSONMap) Merge(other JSONMap) {
	for k, v := range other {
		if v == nil {
			delete(j, k)
			continue
		}
		j[k] = v
	}
}

// GetString returns the string under key or "".
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}

// GetBool returns the bool under key or false.
func (j JSONMap) GetBool(key string) bool {
	b, _ := j[key].(bool)
	return b
}
