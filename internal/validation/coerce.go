package validation

import (
	"bytes"
	"encoding/json"
	"math"
)

// CoercedBool decodes any JSON value into a boolean by truthiness.
//
// false, null, 0, NaN and "" decode to false. Every other string, every
// non-zero number, and any object or array decode to true. An absent field
// leaves the zero value, false.
type CoercedBool bool

func (b *CoercedBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*b = false
		return nil
	}

	switch data[0] {
	case 'n':
		*b = false
	case 't':
		*b = true
	case 'f':
		*b = false
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = CoercedBool(s != "")
	case '{', '[':
		*b = true
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*b = CoercedBool(n != 0 && !math.IsNaN(n))
	}
	return nil
}

func (b CoercedBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Bool returns b as a plain bool.
func (b CoercedBool) Bool() bool {
	return bool(b)
}
