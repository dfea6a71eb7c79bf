package models

import "encoding/json"

// marshalEnumString and unmarshalEnumString centralize the "enum backed by
// a lowercase/uppercase wire string" pattern used across this package's
// tagged types, so each enum's MarshalJSON/UnmarshalJSON stays a one-liner.
func marshalEnumString(s string) ([]byte, error) { return json.Marshal(s) }

func unmarshalEnumString(b []byte) (string, error) {
	var s string
	err := json.Unmarshal(b, &s)
	return s, err
}
