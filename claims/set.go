package claims

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/golang-jwt/jwt/v5"
)

// Registered claim names handled by the issuer and verifier.
const (
	Issuer   = "iss"
	Subject  = "sub"
	Audience = "aud"
	Expiry   = "exp"
	IssuedAt = "iat"
	TokenID  = "jti"
)

// Mandatory lists the claims a token must carry to pass verification, in report order.
var Mandatory = []string{IssuedAt, Expiry, Issuer, Audience}

// ErrNotInteger is returned by [Set.Int64] when a claim is not an integral number.
var ErrNotInteger = errors.New("claim is not an integer")

// Set is an unordered mapping from claim name to value.
type Set map[string]any

// Clone returns a shallow copy of the top-level mapping.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s)+4)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Present reports whether name carries a usable value. Absent, null, the empty
// string, false and numeric zero all count as missing; whitespace is a value.
func (s Set) Present(name string) bool {
	v, ok := s[name]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case uint64:
		return t != 0
	case uint32:
		return t != 0
	}
	return true
}

// Missing returns the names in want that are not [Set.Present], preserving order.
func (s Set) Missing(want ...string) []string {
	var out []string
	for _, name := range want {
		if !s.Present(name) {
			out = append(out, name)
		}
	}
	return out
}

// String returns the claim as a string when it is one.
func (s Set) String(name string) (string, bool) {
	v, ok := s[name].(string)
	return v, ok
}

// Int64 returns the claim as an integer. Decoded numbers, Go integers and integral
// floats are accepted.
func (s Set) Int64(name string) (int64, error) {
	v, ok := s[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s: %w", name, ErrNotInteger)
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, ErrNotInteger)
		}
		return integral(name, f)
	case float64:
		return integral(name, t)
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	}
	return 0, fmt.Errorf("%s: %w", name, ErrNotInteger)
}

func integral(name string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("%s: %w", name, ErrNotInteger)
	}
	return int64(f), nil
}

// Registered returns a typed view of the registered claims.
func (s Set) Registered() (jwt.RegisteredClaims, error) {
	var rc jwt.RegisteredClaims
	data, err := json.Marshal(s)
	if err != nil {
		return rc, fmt.Errorf("marshal claims: %w", err)
	}
	if err := json.Unmarshal(data, &rc); err != nil {
		return rc, fmt.Errorf("registered claims: %w", err)
	}
	return rc, nil
}
