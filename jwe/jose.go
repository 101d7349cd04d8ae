package jwe

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/MrEthical07/goJWE/keys"
	"github.com/go-jose/go-jose/v4"
)

var (
	// ErrUnsupportedKey is returned when key material is not a symmetric byte key.
	ErrUnsupportedKey = errors.New("unsupported key material")
	// ErrUnsupportedAlgorithm is returned for algorithms outside the supported symmetric set.
	ErrUnsupportedAlgorithm = errors.New("unsupported jwe algorithm")
)

// JoseCipher implements [Cipher] with go-jose.
type JoseCipher struct{}

// NewJoseCipher returns the go-jose backed cipher.
func NewJoseCipher() *JoseCipher {
	return &JoseCipher{}
}

// EncryptCompact encrypts payload for key using algs.
func (c *JoseCipher) EncryptCompact(ctx context.Context, key keys.Key, algs Algorithms, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !SupportedKeyWrapping(algs.KeyWrapping) || !SupportedContentEncryption(algs.ContentEncryption) {
		return "", ErrUnsupportedAlgorithm
	}
	material, err := symmetric(key)
	if err != nil {
		return "", err
	}

	enc, err := jose.NewEncrypter(
		jose.ContentEncryption(algs.ContentEncryption),
		jose.Recipient{
			Algorithm: jose.KeyAlgorithm(algs.KeyWrapping),
			Key:       material,
			KeyID:     key.ID,
		},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("new encrypter: %w", err)
	}

	obj, err := enc.Encrypt(payload)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return obj.CompactSerialize()
}

// DecryptCompact decrypts token with key, accepting only the allowed algorithms.
// The returned header is the authenticated protected header.
func (c *JoseCipher) DecryptCompact(ctx context.Context, key keys.Key, allowed Algorithms, token string) ([]byte, Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, Header{}, err
	}
	material, err := symmetric(key)
	if err != nil {
		return nil, Header{}, err
	}

	obj, err := jose.ParseEncryptedCompact(
		token,
		[]jose.KeyAlgorithm{jose.KeyAlgorithm(allowed.KeyWrapping)},
		[]jose.ContentEncryption{jose.ContentEncryption(allowed.ContentEncryption)},
	)
	if err != nil {
		return nil, Header{}, fmt.Errorf("parse: %w", err)
	}

	payload, err := obj.Decrypt(material)
	if err != nil {
		return nil, Header{}, fmt.Errorf("decrypt: %w", err)
	}

	header, err := ParseHeader(token)
	if err != nil {
		return nil, Header{}, err
	}
	if header.Algorithm == "" {
		header.Algorithm = obj.Header.Algorithm
	}
	if header.KeyID == "" {
		header.KeyID = obj.Header.KeyID
	}
	return payload, header, nil
}

// ReifyJWK is a [keys.ReifyFunc] that parses an oct JWK definition.
func ReifyJWK(_ context.Context, def keys.Definition) (keys.Key, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(def); err != nil {
		return keys.Key{}, fmt.Errorf("parse jwk: %w", err)
	}
	material, ok := jwk.Key.([]byte)
	if !ok || len(material) == 0 {
		return keys.Key{}, ErrUnsupportedKey
	}
	if jwk.Algorithm != "" {
		size, known := KeySize(jwk.Algorithm)
		if !known {
			return keys.Key{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, jwk.Algorithm)
		}
		if size != len(material) {
			return keys.Key{}, fmt.Errorf("%w: %s requires %d byte key, got %d", ErrUnsupportedKey, jwk.Algorithm, size, len(material))
		}
	}
	return keys.Key{ID: jwk.KeyID, Algorithm: jwk.Algorithm, Material: material}, nil
}

// GenerateKey returns a fresh random oct JWK definition for a key wrapping algorithm.
func GenerateKey(kid, alg string) (keys.Definition, error) {
	size, ok := KeySize(alg)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	material := make([]byte, size)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("read random key: %w", err)
	}
	jwk := jose.JSONWebKey{
		Key:       material,
		KeyID:     kid,
		Algorithm: alg,
		Use:       "enc",
	}
	data, err := jwk.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal jwk: %w", err)
	}
	return keys.Definition(data), nil
}

// MatchKey reports whether key can serve the key wrapping algorithm alg: a
// declared alg must equal it and the material must have its exact size.
func MatchKey(key keys.Key, alg string) error {
	if key.Algorithm != "" && key.Algorithm != alg {
		return fmt.Errorf("%w: key declares %s, configured %s", ErrUnsupportedKey, key.Algorithm, alg)
	}
	size, ok := KeySize(alg)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	material, err := symmetric(key)
	if err != nil {
		return err
	}
	if len(material) != size {
		return fmt.Errorf("%w: %s requires %d byte key, got %d", ErrUnsupportedKey, alg, size, len(material))
	}
	return nil
}

func symmetric(key keys.Key) ([]byte, error) {
	material, ok := key.Material.([]byte)
	if !ok || len(material) == 0 {
		return nil, ErrUnsupportedKey
	}
	return material, nil
}
