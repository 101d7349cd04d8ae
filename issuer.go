package goJWE

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Issuer enriches claim sets and encrypts them into compact tokens.
type Issuer struct {
	cfg  TokenConfig
	deps Dependencies
}

// NewIssuer returns an issuer for cfg. cfg is expected to have passed
// [Config.Validate].
func NewIssuer(cfg TokenConfig, deps Dependencies) *Issuer {
	cfg.Audiences = append([]string(nil), cfg.Audiences...)
	return &Issuer{cfg: cfg, deps: deps.withDefaults()}
}

// Issue copies set, stamps iss, iat and exp (and jti when enabled), and
// returns the encrypted token. Caller values for the stamped claims are
// overwritten; the caller's map is never modified.
func (i *Issuer) Issue(ctx context.Context, set claims.Set) (string, error) {
	token, _, err := i.issue(ctx, set)
	return token, err
}

func (i *Issuer) issue(ctx context.Context, set claims.Set) (string, claims.Set, error) {
	if ctx == nil {
		return "", nil, ErrNilContext
	}
	if set == nil {
		return "", nil, ErrInvalidClaims
	}

	enriched := i.enrich(set)
	payload, ok := i.deps.Codec.Encode(enriched)
	if !ok {
		return "", nil, ErrUnserializableClaims
	}

	key, err := i.deps.Keys.EnsureReady(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNoEncryptionKey, err)
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	token, err := i.deps.Cipher.EncryptCompact(ctx, key, tokenAlgorithms(i.cfg), payload)
	if err != nil {
		i.deps.Logger.Error("token encryption failed",
			zap.String("kid", key.ID),
			zap.Error(err),
		)
		return "", nil, ErrEncryptionFailed
	}
	return token, enriched, nil
}

func (i *Issuer) enrich(set claims.Set) claims.Set {
	out := set.Clone()
	iat := i.deps.Clock().UTC().Unix()

	out[claims.IssuedAt] = iat
	out[claims.Issuer] = i.cfg.Issuer
	out[claims.Expiry] = iat + int64(i.cfg.Lifetime/time.Second)
	if i.cfg.IssueTokenID {
		out[claims.TokenID] = uuid.NewString()
	}
	return out
}
