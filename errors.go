package goJWE

import (
	"errors"
	"strings"
)

// Usage errors. These indicate a programming mistake by the caller rather
// than a bad token.
var (
	// ErrNilContext is returned when an operation receives a nil context.
	ErrNilContext = errors.New("nil context")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is returned by a second call to Builder.Build.
	ErrBuilderUsed = errors.New("builder already used")
)

// Issuance errors.
var (
	// ErrInvalidClaims is returned for absent or unusable claim sets.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrUnserializableClaims is returned when claims cannot be encoded as JSON.
	// It matches ErrInvalidClaims under errors.Is.
	ErrUnserializableClaims = &wrappedError{msg: "claims cannot be serialized", parent: ErrInvalidClaims}
	// ErrNoEncryptionKey is returned when the key cannot be made ready.
	ErrNoEncryptionKey = errors.New("no encryption key")
	// ErrEncryptionFailed is returned when the cipher rejects an issuance.
	ErrEncryptionFailed = errors.New("encryption failed")
)

// Verification errors, in pipeline order.
var (
	ErrInvalidTokenString    = errors.New("invalid token string")
	ErrInvalidHeader         = errors.New("invalid token header")
	ErrSuspectedTampering    = errors.New("suspected token tampering")
	ErrUnparsablePayload     = errors.New("unparsable token payload")
	ErrMissingClaims         = errors.New("missing required claims")
	ErrTokenNotYetValid      = errors.New("token not yet valid")
	ErrTokenExpired          = errors.New("token expired")
	ErrInvalidAudience       = errors.New("invalid audience")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrRevocationUnavailable = errors.New("revocation check unavailable")
)

// Startup errors.
var (
	// ErrInvalidKeyDefinition is returned when the key definition is absent or not a JSON object.
	ErrInvalidKeyDefinition = errors.New("invalid key definition")
	// ErrDevelopmentKeyInProduction is returned by Build when production mode is
	// configured with the development key and the logger's fatal hook returns.
	ErrDevelopmentKeyInProduction = errors.New("development key configured in production")
	// ErrRevocationNotConfigured is returned by Engine.Revoke without a revocation checker.
	ErrRevocationNotConfigured = errors.New("revocation not configured")
)

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.parent }

// MissingClaimsError names every mandatory claim a token lacked.
type MissingClaimsError struct {
	Names []string
}

func (e *MissingClaimsError) Error() string {
	return ErrMissingClaims.Error() + ": " + strings.Join(e.Names, ", ")
}

// Is makes errors.Is(err, ErrMissingClaims) hold.
func (e *MissingClaimsError) Is(target error) bool {
	return target == ErrMissingClaims
}
