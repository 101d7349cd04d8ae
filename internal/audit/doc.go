// Package audit dispatches token lifecycle events to a caller-supplied sink.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON lines, zap, no-op).
//   - [Dispatcher]: single-goroutine relay with a bounded buffer.
//   - [Event]: one issuance, verification or revocation outcome.
//
// The dispatcher never inspects events; the engine decides what to emit.
// Token strings and claim values other than the audience are never recorded.
package audit
