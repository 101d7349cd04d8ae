package keys

import "errors"

var (
	// ErrInvalidDefinition is returned when the key definition is absent, null, or not a JSON object.
	ErrInvalidDefinition = errors.New("invalid key definition")
	// ErrNilContext is returned when EnsureReady is called without a context.
	ErrNilContext = errors.New("nil context")
	// ErrNilReifier is returned when the manager has no reification function.
	ErrNilReifier = errors.New("nil key reifier")
)
