package jwe

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedHeader is returned when the protected header segment cannot be decoded.
var ErrMalformedHeader = errors.New("malformed jwe header")

// Header is the subset of the protected header the token layer inspects.
type Header struct {
	Algorithm         string `json:"alg"`
	ContentEncryption string `json:"enc"`
	KeyID             string `json:"kid,omitempty"`
	Type              string `json:"typ,omitempty"`
	ContentType       string `json:"cty,omitempty"`
}

// ParseHeader decodes the first dot-separated segment of token as a JSON object.
// Both base64url and standard base64, padded or not, are accepted.
func ParseHeader(token string) (Header, error) {
	seg, _, _ := strings.Cut(token, ".")
	seg = strings.TrimRight(seg, "=")
	if seg == "" {
		return Header{}, ErrMalformedHeader
	}
	seg = strings.NewReplacer("+", "-", "/", "_").Replace(seg)

	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return Header{}, errors.Join(ErrMalformedHeader, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Header{}, ErrMalformedHeader
	}

	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return Header{}, errors.Join(ErrMalformedHeader, err)
	}
	return h, nil
}

// Matches reports whether the header declares exactly the given algorithms.
// Empty fields in want are not compared.
func (h Header) Matches(want Algorithms) bool {
	if want.KeyWrapping != "" && h.Algorithm != want.KeyWrapping {
		return false
	}
	if want.ContentEncryption != "" && h.ContentEncryption != want.ContentEncryption {
		return false
	}
	return true
}
