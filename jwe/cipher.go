package jwe

import (
	"context"

	"github.com/MrEthical07/goJWE/keys"
)

// Encrypter produces compact JWE serializations.
type Encrypter interface {
	EncryptCompact(ctx context.Context, key keys.Key, algs Algorithms, payload []byte) (string, error)
}

// Decrypter opens compact JWE serializations. Implementations must reject tokens whose
// algorithms are not listed in allowed.
type Decrypter interface {
	DecryptCompact(ctx context.Context, key keys.Key, allowed Algorithms, token string) ([]byte, Header, error)
}

// Cipher is the full primitive boundary.
type Cipher interface {
	Encrypter
	Decrypter
}
