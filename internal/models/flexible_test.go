package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `"Nutella"`, "Nutella"},
		{"number", `3017620422003`, "3017620422003"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"array", `["Ferrero", 12, null, "Nutella"]`, "Ferrero, 12, Nutella"},
		{"object", `{"en":"x"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.json), &s))
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestNullNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		want  float64
		valid bool
	}{
		{"number", `2255`, 2255, true},
		{"zero", `0`, 0, true},
		{"numeric string", `"30.9"`, 30.9, true},
		{"decimal comma", `" 0,107 "`, 0.107, true},
		{"null", `null`, 0, false},
		{"garbage string", `"n/a"`, 0, false},
		{"bool", `false`, 0, false},
		{"object", `{"value":1}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n NullNumber
			require.NoError(t, json.Unmarshal([]byte(tt.json), &n))
			assert.Equal(t, tt.valid, n.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, n.Value, 1e-9)
			}
		})
	}
}

func TestNullNumber_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A NullNumber `json:"a"`
		B NullNumber `json:"b"`
	}{A: Num(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(b))

	assert.Nil(t, NullNumber{}.Ptr())
	require.NotNil(t, Num(3).Ptr())
	assert.Equal(t, 3.0, *Num(3).Ptr())
}
