package goJWE

import (
	"context"
	"errors"
	"io"
	"time"

	internalaudit "github.com/MrEthical07/goJWE/internal/audit"
	"go.uber.org/zap"
)

// AuditEvent is one token lifecycle record delivered to an [AuditSink].
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = internalaudit.Sink

// NoOpSink discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per event to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// ZapAuditSink logs events through a zap logger.
type ZapAuditSink = internalaudit.ZapSink

// Audit event types.
const (
	AuditEventTokenIssued      = internalaudit.EventTokenIssued
	AuditEventTokenIssueFailed = internalaudit.EventTokenIssueFailed
	AuditEventTokenVerified    = internalaudit.EventTokenVerified
	AuditEventTokenRejected    = internalaudit.EventTokenRejected
	AuditEventTokenRevoked     = internalaudit.EventTokenRevoked
)

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewZapAuditSink(logger *zap.Logger) *ZapAuditSink {
	return internalaudit.NewZapSink(logger)
}

// AuditErrorCode is the stable, non-sensitive failure label written to
// AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrInvalidClaims     AuditErrorCode = "invalid_claims"
	auditErrUnserializable    AuditErrorCode = "unserializable_claims"
	auditErrNoKey             AuditErrorCode = "no_encryption_key"
	auditErrEncryption        AuditErrorCode = "encryption_failed"
	auditErrInvalidToken      AuditErrorCode = "invalid_token"
	auditErrInvalidHeader     AuditErrorCode = "invalid_header"
	auditErrTampering         AuditErrorCode = "suspected_tampering"
	auditErrUnparsable        AuditErrorCode = "unparsable_payload"
	auditErrMissingClaims     AuditErrorCode = "missing_claims"
	auditErrNotYetValid       AuditErrorCode = "not_yet_valid"
	auditErrExpired           AuditErrorCode = "expired"
	auditErrInvalidAudience   AuditErrorCode = "invalid_audience"
	auditErrRevoked           AuditErrorCode = "revoked"
	auditErrRevocationUnavail AuditErrorCode = "revocation_unavailable"
	auditErrContext           AuditErrorCode = "context_done"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnserializableClaims):
		return auditErrUnserializable
	case errors.Is(err, ErrInvalidClaims):
		return auditErrInvalidClaims
	case errors.Is(err, ErrNoEncryptionKey):
		return auditErrNoKey
	case errors.Is(err, ErrEncryptionFailed):
		return auditErrEncryption
	case errors.Is(err, ErrInvalidTokenString):
		return auditErrInvalidToken
	case errors.Is(err, ErrInvalidHeader):
		return auditErrInvalidHeader
	case errors.Is(err, ErrSuspectedTampering):
		return auditErrTampering
	case errors.Is(err, ErrUnparsablePayload):
		return auditErrUnparsable
	case errors.Is(err, ErrMissingClaims):
		return auditErrMissingClaims
	case errors.Is(err, ErrTokenNotYetValid):
		return auditErrNotYetValid
	case errors.Is(err, ErrTokenExpired):
		return auditErrExpired
	case errors.Is(err, ErrInvalidAudience):
		return auditErrInvalidAudience
	case errors.Is(err, ErrTokenRevoked):
		return auditErrRevoked
	case errors.Is(err, ErrRevocationUnavailable):
		return auditErrRevocationUnavail
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return auditErrContext
	default:
		return auditErrInternal
	}
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent, err error) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = e.now().UTC()
	event.Success = err == nil
	event.Error = string(auditErrorCode(err))
	if event.KeyID == "" {
		event.KeyID = e.keyID
	}
	if id := requestIDFromContext(ctx); id != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string, 1)
		}
		event.Metadata["request_id"] = id
	}
	e.audit.Emit(ctx, event)
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock()
}
