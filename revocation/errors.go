package revocation

import "errors"

var (
	// ErrRedisUnavailable wraps every backend failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrEmptyTokenID is returned for a blank token ID.
	ErrEmptyTokenID = errors.New("empty token id")
)
