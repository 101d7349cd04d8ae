// Package revocation keeps a Redis-backed denylist of token IDs.
//
// # Key layout
//
// One string key per revoked token: <prefix>:<jti>. The key expires when the
// token itself would have expired, so the denylist never outgrows the set of
// live tokens.
//
// # Failure semantics
//
// Backend errors are wrapped in [ErrRedisUnavailable]. Callers treat them as
// a failed check, never as "not revoked".
package revocation
