package config

import (
	"fmt"
)

// RedactedString is a string that will not print its value in logs or when
// serialized, only its length. Cast to a plain string to get the value.
type RedactedString string

func (r RedactedString) String() string {
	return fmt.Sprintf("<redacted-%d-chars>", len(r))
}

func (r RedactedString) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r RedactedString) MarshalJSON() ([]byte, error) {
	// the placeholder contains no characters that need JSON escaping
	return []byte(`"` + r.String() + `"`), nil
}

func (r RedactedString) MarshalBinary() ([]byte, error) {
	return []byte(r.String()), nil
}
