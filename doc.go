// Package goJWE issues and verifies encrypted, claims-bearing compact JWE
// tokens for service-to-service authentication.
//
// An [Engine] is assembled with [Builder]: it owns one symmetric key
// definition, stamps iss, iat and exp on every issued claim set, and runs a
// fixed verification pipeline on every presented token (length, header,
// key readiness, decryption, payload decode, mandatory claims, time window,
// audience and optional revocation). Each failing stage maps to exactly one
// sentinel error from errors.go.
//
// # Architecture boundaries
//
// Key reification lives in keys, claim encoding in claims, and the
// encryption primitive behind the jwe.Cipher interface. Audit dispatch and
// posture reporting live under internal/ and are re-exported through type
// aliases.
//
// # What this package must NOT do
//
//   - Return cryptographic failure causes to callers (they are logged only).
//   - Mutate claim sets passed to Issue.
//   - Infer production mode from ambient process state.
package goJWE
