package keys

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Definition is the JSON description of symmetric key material, typically an oct JWK:
//
//	{"kty":"oct","kid":"svc-2026","alg":"A256KW","k":"<base64url>"}
type Definition []byte

// Clone returns an independent copy of the definition bytes.
func (d Definition) Clone() Definition {
	if len(d) == 0 {
		return nil
	}
	out := make(Definition, len(d))
	copy(out, d)
	return out
}

// IsObject reports whether the definition is a well-formed JSON object.
// Empty and null definitions are placeholders and report false.
func (d Definition) IsObject() bool {
	trimmed := bytes.TrimSpace(d)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}

// KeyID returns the "kid" member of the definition.
func (d Definition) KeyID() (string, error) {
	if !d.IsObject() {
		return "", ErrInvalidDefinition
	}
	var head struct {
		KeyID string `json:"kid"`
	}
	if err := json.Unmarshal(d, &head); err != nil {
		return "", errors.Join(ErrInvalidDefinition, err)
	}
	return strings.TrimSpace(head.KeyID), nil
}

// MarshalJSON embeds the definition as a raw JSON value.
func (d Definition) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d.Clone(), nil
}

// UnmarshalJSON stores a copy of the raw JSON value.
func (d *Definition) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("keys: UnmarshalJSON on nil Definition")
	}
	*d = Definition(data).Clone()
	return nil
}

// UnmarshalText lets env and flag loaders populate a definition from a string.
func (d *Definition) UnmarshalText(text []byte) error {
	*d = Definition(text).Clone()
	return nil
}
