package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexString is a string field that also accepts JSON numbers, booleans,
// arrays of scalars and null. The catalog is not consistent about the JSON
// type of its text attributes.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(raw []byte) error {
	*s = FlexString(flexibleStringValue(raw))
	return nil
}

// String returns the value with surrounding whitespace kept intact.
func (s FlexString) String() string { return string(s) }

func flexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal json.Number
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal.String()
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return strconv.FormatBool(boolVal)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if v := flexibleStringValue(item); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, ", ")
	}

	// Objects carry nothing we can use as text.
	return ""
}

// NullNumber is an optional numeric field. It accepts JSON numbers, numeric
// strings (a decimal comma is tolerated) and null. Anything else, and any
// non-finite value, decodes as absent.
type NullNumber struct {
	Value float64
	Valid bool
}

// Num returns a present NullNumber.
func Num(v float64) NullNumber {
	return NullNumber{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullNumber) UnmarshalJSON(raw []byte) error {
	*n = NullNumber{}

	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil //nolint: nilerr
		}
		text = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil //nolint: nilerr
	}
	*n = Num(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Ptr returns nil when absent, for use as a nullable SQL argument.
func (n NullNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
