// Package jwe defines the encryption primitive boundary consumed by the token issuer and
// verifier, plus an adapter over go-jose for symmetric key wrapping.
//
// The issuer and verifier only depend on [Encrypter] and [Decrypter]. [JoseCipher] is
// the default implementation: AES key wrap (A128KW, A192KW, A256KW) with AES-CBC-HMAC or
// AES-GCM content encryption, compact serialization only.
//
// # What this package must NOT do
//
//   - Interpret claims or apply time and audience policy.
//   - Cache keys (see package keys).
package jwe
