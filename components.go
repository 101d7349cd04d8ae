package goJWE

import (
	"context"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	"github.com/MrEthical07/goJWE/jwe"
	"github.com/MrEthical07/goJWE/keys"
	"go.uber.org/zap"
)

// RevocationChecker reports whether a token id has been revoked.
// [revocation.Store] implements it.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Revoker is a RevocationChecker that can also add ids to the denylist.
type Revoker interface {
	RevocationChecker
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// Dependencies wires an Issuer or Verifier. Zero fields fall back to the
// go-jose cipher, a codec on Logger, the wall clock and a no-op logger.
type Dependencies struct {
	Keys       *keys.Manager
	Codec      *claims.Codec
	Cipher     jwe.Cipher
	Revocation RevocationChecker
	Clock      func() time.Time
	Logger     *zap.Logger
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Codec == nil {
		d.Codec = claims.NewCodec(d.Logger)
	}
	if d.Cipher == nil {
		d.Cipher = jwe.NewJoseCipher()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

func tokenAlgorithms(cfg TokenConfig) jwe.Algorithms {
	return jwe.Algorithms{
		KeyWrapping:       cfg.KeyWrapping,
		ContentEncryption: cfg.ContentEncryption,
	}
}
