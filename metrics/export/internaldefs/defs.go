package internaldefs

import (
	goJWE "github.com/MrEthical07/goJWE"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   goJWE.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram.
type HistogramDef struct {
	ID   goJWE.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported from Engine.AuditDropped.
const (
	AuditDroppedName = "gojwe_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

var CounterDefs = []CounterDef{
	{ID: goJWE.MetricIssueSuccess, Name: "gojwe_issue_success_total", Help: "Tokens issued."},
	{ID: goJWE.MetricIssueFailure, Name: "gojwe_issue_failure_total", Help: "Failed issuance attempts."},
	{ID: goJWE.MetricVerifySuccess, Name: "gojwe_verify_success_total", Help: "Tokens that passed verification."},
	{ID: goJWE.MetricVerifyInvalidToken, Name: "gojwe_verify_invalid_token_total", Help: "Tokens rejected for length."},
	{ID: goJWE.MetricVerifyInvalidHeader, Name: "gojwe_verify_invalid_header_total", Help: "Tokens rejected for an unreadable or mismatched header."},
	{ID: goJWE.MetricVerifyNoKey, Name: "gojwe_verify_no_key_total", Help: "Verifications aborted because the key was not ready."},
	{ID: goJWE.MetricVerifyTampering, Name: "gojwe_verify_tampering_total", Help: "Tokens that failed decryption or authentication."},
	{ID: goJWE.MetricVerifyUnparsable, Name: "gojwe_verify_unparsable_total", Help: "Tokens with an unparsable payload."},
	{ID: goJWE.MetricVerifyMissingClaims, Name: "gojwe_verify_missing_claims_total", Help: "Tokens missing mandatory claims."},
	{ID: goJWE.MetricVerifyNotYetValid, Name: "gojwe_verify_not_yet_valid_total", Help: "Tokens presented before iat."},
	{ID: goJWE.MetricVerifyExpired, Name: "gojwe_verify_expired_total", Help: "Tokens presented after exp."},
	{ID: goJWE.MetricVerifyInvalidAudience, Name: "gojwe_verify_invalid_audience_total", Help: "Tokens for an unaccepted audience."},
	{ID: goJWE.MetricVerifyRevoked, Name: "gojwe_verify_revoked_total", Help: "Revoked tokens presented."},
	{ID: goJWE.MetricVerifyRevocationUnavailable, Name: "gojwe_verify_revocation_unavailable_total", Help: "Verifications failed closed on the revocation backend."},
	{ID: goJWE.MetricKeyReified, Name: "gojwe_key_reified_total", Help: "Successful key reifications."},
	{ID: goJWE.MetricTokenRevoked, Name: "gojwe_token_revoked_total", Help: "Token ids added to the denylist."},
}

var HistogramDefs = []HistogramDef{
	{ID: goJWE.MetricIssueLatency, Name: "gojwe_issue_latency_seconds", Help: "Issue latency histogram."},
	{ID: goJWE.MetricVerifyLatency, Name: "gojwe_verify_latency_seconds", Help: "Verify latency histogram."},
}

// UpperBounds are the finite bucket bounds in seconds; the eighth bucket is +Inf.
var UpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// NormalizeBuckets copies raw into a fixed eight-bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, n := range raw {
		running += n
		out[i] = running
	}
	return out
}
