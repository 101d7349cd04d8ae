package jwe

import "slices"

// Key wrapping algorithm identifiers.
const (
	A128KW = "A128KW"
	A192KW = "A192KW"
	A256KW = "A256KW"
)

// Content encryption algorithm identifiers.
const (
	A128CBCHS256 = "A128CBC-HS256"
	A192CBCHS384 = "A192CBC-HS384"
	A256CBCHS512 = "A256CBC-HS512"
	A128GCM      = "A128GCM"
	A192GCM      = "A192GCM"
	A256GCM      = "A256GCM"
)

var (
	keyWrapping       = []string{A128KW, A192KW, A256KW}
	contentEncryption = []string{A128CBCHS256, A192CBCHS384, A256CBCHS512, A128GCM, A192GCM, A256GCM}
)

// Algorithms pins the two algorithm identifiers of a token.
type Algorithms struct {
	KeyWrapping       string
	ContentEncryption string
}

// SupportedKeyWrapping reports whether alg is a supported key wrapping algorithm.
func SupportedKeyWrapping(alg string) bool {
	return slices.Contains(keyWrapping, alg)
}

// SupportedContentEncryption reports whether enc is a supported content encryption algorithm.
func SupportedContentEncryption(enc string) bool {
	return slices.Contains(contentEncryption, enc)
}

// KeySize returns the wrapping key size in bytes for a key wrapping algorithm.
func KeySize(alg string) (int, bool) {
	switch alg {
	case A128KW:
		return 16, true
	case A192KW:
		return 24, true
	case A256KW:
		return 32, true
	}
	return 0, false
}
