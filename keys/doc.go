// Package keys turns a symmetric key definition into a key object usable by the
// encryption primitive, exactly once per [Manager].
//
// # Readiness
//
// [Manager.EnsureReady] is idempotent. The first successful reification is cached in an
// atomic slot; concurrent first callers share a single in-flight reification. A failed
// reification is not cached and the next call retries.
//
// # What this package must NOT do
//
//   - Implement key wrapping or content encryption.
//   - Rotate, persist, or fetch key material.
package keys
