package mytypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SectorTimes is stored as jsonb array
type SectorTimes []float64

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("value is not []byte")
	}
}

func (h *SectorTimes) Scan(value any) error {
	if value == nil {
		*h = SectorTimes{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, &h)
}

func (h SectorTimes) Value() (driver.Value, error) {
	if h == nil {
		h = SectorTimes{}
	}
	data, err := json.Marshal(h)
	return string(data), err
}
