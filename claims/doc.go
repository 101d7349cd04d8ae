// Package claims holds the claim-set model and a codec that never panics on malformed
// input. Failures are reported as a false ok value and a truncated diagnostic on the
// injected logger, so callers can map them to domain errors.
package claims
