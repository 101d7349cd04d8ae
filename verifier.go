package goJWE

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	"github.com/MrEthical07/goJWE/jwe"
	"go.uber.org/zap"
)

// MinTokenLength is the shortest string Verify will attempt to parse.
const MinTokenLength = 65

// Verifier runs the verification pipeline. The first failing stage decides
// the returned error and no claims are returned on failure.
type Verifier struct {
	cfg       TokenConfig
	algs      jwe.Algorithms
	audiences map[string]struct{}
	deps      Dependencies
}

func NewVerifier(cfg TokenConfig, deps Dependencies) *Verifier {
	audiences := make(map[string]struct{}, len(cfg.Audiences))
	for _, aud := range cfg.Audiences {
		audiences[aud] = struct{}{}
	}
	return &Verifier{
		cfg:       cfg,
		algs:      tokenAlgorithms(cfg),
		audiences: audiences,
		deps:      deps.withDefaults(),
	}
}

// Verify decrypts token and validates its claims.
//
// Stages, in order: length, header, key readiness, decryption, payload
// decode, mandatory claims, time window, audience and, when a revocation
// checker is wired, the jti denylist.
func (v *Verifier) Verify(ctx context.Context, token string) (claims.Set, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	if len(token) < MinTokenLength {
		return nil, ErrInvalidTokenString
	}

	header, err := jwe.ParseHeader(token)
	if err != nil || header.ContentEncryption != v.algs.ContentEncryption {
		return nil, ErrInvalidHeader
	}

	key, err := v.deps.Keys.EnsureReady(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoEncryptionKey, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, decrypted, err := v.deps.Cipher.DecryptCompact(ctx, key, v.algs, token)
	if err != nil {
		v.deps.Logger.Error("token decryption failed", zap.String("kid", key.ID), zap.Error(err))
		return nil, ErrSuspectedTampering
	}
	if !decrypted.Matches(v.algs) {
		v.deps.Logger.Error("token header does not match configured algorithms",
			zap.String("alg", decrypted.Algorithm),
			zap.String("enc", decrypted.ContentEncryption),
		)
		return nil, ErrSuspectedTampering
	}

	set, ok := v.deps.Codec.Decode(payload)
	if !ok {
		return nil, ErrUnparsablePayload
	}
	for _, name := range []string{claims.IssuedAt, claims.Expiry} {
		if !set.Present(name) {
			continue
		}
		if _, err := set.Int64(name); err != nil {
			return nil, ErrUnparsablePayload
		}
	}

	if missing := set.Missing(claims.Mandatory...); len(missing) > 0 {
		return nil, &MissingClaimsError{Names: missing}
	}

	if err := v.checkWindow(set); err != nil {
		return nil, err
	}

	aud, _ := set.String(claims.Audience)
	if _, ok := v.audiences[aud]; !ok {
		return nil, ErrInvalidAudience
	}

	if err := v.checkRevocation(ctx, set); err != nil {
		return nil, err
	}

	return set, nil
}

// checkWindow compares whole seconds, matching the resolution of iat and exp.
func (v *Verifier) checkWindow(set claims.Set) error {
	iat, _ := set.Int64(claims.IssuedAt)
	exp, _ := set.Int64(claims.Expiry)
	now := v.deps.Clock().Unix()
	skew := int64(v.cfg.ClockSkew / time.Second)

	if now+skew < iat {
		return ErrTokenNotYetValid
	}
	if now-skew > exp {
		return ErrTokenExpired
	}
	return nil
}

func (v *Verifier) checkRevocation(ctx context.Context, set claims.Set) error {
	if v.deps.Revocation == nil {
		return nil
	}
	jti, ok := set.String(claims.TokenID)
	if !ok || jti == "" {
		return nil
	}

	revoked, err := v.deps.Revocation.IsRevoked(ctx, jti)
	if err != nil {
		v.deps.Logger.Warn("revocation check failed", zap.Error(err))
		return ErrRevocationUnavailable
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}
