package goJWE

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	internalaudit "github.com/MrEthical07/goJWE/internal/audit"
	"github.com/MrEthical07/goJWE/keys"
	"go.uber.org/zap"
)

// Engine issues and verifies tokens with one key and one configuration.
//
// Engine is safe for concurrent use once returned by [Builder.Build].
type Engine struct {
	config   Config
	keys     *keys.Manager
	keyID    string
	issuer   *Issuer
	verifier *Verifier
	revoker  Revoker
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
	clock    func() time.Time
	logger   *zap.Logger
}

// Close stops the audit dispatcher after draining buffered events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events discarded on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return emptySnapshot()
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, start time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

// EnsureKeyReady reifies the key definition if that has not happened yet.
// It is idempotent and safe to call from many goroutines.
func (e *Engine) EnsureKeyReady(ctx context.Context) error {
	if e == nil || e.keys == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		return ErrNilContext
	}
	if _, err := e.keys.EnsureReady(ctx); err != nil {
		if errors.Is(err, keys.ErrInvalidDefinition) {
			return ErrInvalidKeyDefinition
		}
		return errors.Join(ErrNoEncryptionKey, err)
	}
	return nil
}

// Issue enriches claims with iss, iat and exp and returns an encrypted token.
func (e *Engine) Issue(ctx context.Context, set claims.Set) (string, error) {
	if e == nil || e.issuer == nil {
		return "", ErrEngineNotReady
	}
	if ctx == nil {
		return "", ErrNilContext
	}

	start := time.Now()
	token, issued, err := e.issuer.issue(ctx, set)
	e.observe(MetricIssueLatency, start)

	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditEventTokenIssueFailed,
			Issuer:    e.config.Token.Issuer,
		}, err)
		return "", err
	}

	e.metricInc(MetricIssueSuccess)
	e.emitAudit(ctx, eventFor(AuditEventTokenIssued, issued), nil)
	return token, nil
}

// Verify decrypts and validates token, returning its full claim set.
func (e *Engine) Verify(ctx context.Context, token string) (claims.Set, error) {
	if e == nil || e.verifier == nil {
		return nil, ErrEngineNotReady
	}
	if ctx == nil {
		return nil, ErrNilContext
	}

	start := time.Now()
	set, err := e.verifier.Verify(ctx, token)
	e.observe(MetricVerifyLatency, start)

	if err != nil {
		if id, ok := verifyFailureMetric(err); ok {
			e.metricInc(id)
		}
		e.emitAudit(ctx, AuditEvent{EventType: AuditEventTokenRejected}, err)
		return nil, err
	}

	e.metricInc(MetricVerifySuccess)
	e.emitAudit(ctx, eventFor(AuditEventTokenVerified, set), nil)
	return set, nil
}

// Revoke verifies token and denylists its jti until the token's exp.
// Only valid tokens can be revoked; the verification error is returned otherwise.
func (e *Engine) Revoke(ctx context.Context, token string) error {
	if e == nil || e.verifier == nil {
		return ErrEngineNotReady
	}
	if e.revoker == nil {
		return ErrRevocationNotConfigured
	}

	set, err := e.Verify(ctx, token)
	if err != nil {
		return err
	}
	jti, _ := set.String(claims.TokenID)
	exp, _ := set.Int64(claims.Expiry)
	return e.RevokeID(ctx, jti, time.Unix(exp, 0))
}

// RevokeID denylists a token id whose exp is until. The entry is kept for
// ClockSkew plus one second past until, since Verify accepts a token through
// its whole exp second widened by the skew.
func (e *Engine) RevokeID(ctx context.Context, jti string, until time.Time) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		return ErrNilContext
	}
	if e.revoker == nil {
		return ErrRevocationNotConfigured
	}
	if jti == "" {
		return ErrInvalidClaims
	}

	if err := e.revoker.Revoke(ctx, jti, e.denylistUntil(until)); err != nil {
		e.logger.Warn("token revocation failed", zap.String("jti", jti), zap.Error(err))
		e.emitAudit(ctx, AuditEvent{EventType: AuditEventTokenRevoked, TokenID: jti}, ErrRevocationUnavailable)
		return errors.Join(ErrRevocationUnavailable, err)
	}

	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, AuditEvent{EventType: AuditEventTokenRevoked, TokenID: jti}, nil)
	return nil
}

func (e *Engine) denylistUntil(exp time.Time) time.Time {
	return exp.Add(e.config.Token.ClockSkew + time.Second)
}

func eventFor(eventType string, set claims.Set) AuditEvent {
	ev := AuditEvent{EventType: eventType}
	ev.TokenID, _ = set.String(claims.TokenID)
	ev.Issuer, _ = set.String(claims.Issuer)
	ev.Audience, _ = set.String(claims.Audience)
	return ev
}
