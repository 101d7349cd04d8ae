package goJWE

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goJWE/jwe"
	"github.com/MrEthical07/goJWE/keys"
)

// Config is the full engine configuration. It is copied by Builder.WithConfig
// and immutable once the engine is built.
type Config struct {
	Token      TokenConfig
	Key        KeyConfig
	Security   SecurityConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls issuance enrichment and verification windows.
type TokenConfig struct {
	// Issuer is written into every issued token's iss claim.
	Issuer string
	// Lifetime is added to iat to produce exp. Whole seconds only.
	Lifetime time.Duration
	// Audiences lists the aud values Verify accepts.
	Audiences []string
	// ClockSkew widens the accepted [iat, exp] window on both sides.
	ClockSkew         time.Duration
	KeyWrapping       string
	ContentEncryption string
	// IssueTokenID adds a random jti claim to every issued token.
	IssueTokenID bool
}

/*
====================================
KEY CONFIG
====================================
*/

// KeyConfig holds the key definition and the id of the development key.
type KeyConfig struct {
	Definition       keys.Definition
	DevelopmentKeyID string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds deployment posture flags.
type SecurityConfig struct {
	// ProductionMode forbids the development key and tightens lifetime and skew bounds.
	ProductionMode bool
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig enables the Redis-backed token id denylist.
type RevocationConfig struct {
	Enabled     bool
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls asynchronous audit dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

const (
	// DefaultDevelopmentKeyID is the kid of the key shipped for local development.
	DefaultDevelopmentKeyID = "development"

	maxProductionLifetime = 24 * time.Hour
	maxProductionSkew     = 2 * time.Minute
)

// DefaultConfig returns the baseline configuration. Issuer, Audiences and
// Key.Definition must still be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Lifetime:          5 * time.Minute,
			KeyWrapping:       jwe.A256KW,
			ContentEncryption: jwe.A128CBCHS256,
		},
		Key: KeyConfig{
			DevelopmentKeyID: DefaultDevelopmentKeyID,
		},
		Revocation: RevocationConfig{
			RedisPrefix: "jr",
		},
		Audit: AuditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Audiences = append([]string(nil), cfg.Token.Audiences...)
	out.Key.Definition = cfg.Key.Definition.Clone()
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	// Token
	if strings.TrimSpace(c.Token.Issuer) == "" {
		return errors.New("Token Issuer must be set")
	}
	if len(c.Token.Audiences) == 0 {
		return errors.New("Token Audiences must contain at least one audience")
	}
	for _, aud := range c.Token.Audiences {
		if strings.TrimSpace(aud) == "" {
			return errors.New("Token Audiences must not contain blank entries")
		}
	}
	if c.Token.Lifetime < time.Second {
		return errors.New("Token Lifetime must be >= 1s")
	}
	if c.Token.Lifetime%time.Second != 0 {
		return errors.New("Token Lifetime must be a whole number of seconds")
	}
	if c.Token.ClockSkew < 0 {
		return errors.New("Token ClockSkew must be >= 0")
	}
	if !jwe.SupportedKeyWrapping(c.Token.KeyWrapping) {
		return errors.New("unsupported Token KeyWrapping algorithm")
	}
	if !jwe.SupportedContentEncryption(c.Token.ContentEncryption) {
		return errors.New("unsupported Token ContentEncryption algorithm")
	}

	// Key
	if !c.Key.Definition.IsObject() {
		return ErrInvalidKeyDefinition
	}
	if strings.TrimSpace(c.Key.DevelopmentKeyID) == "" {
		return errors.New("Key DevelopmentKeyID must be set")
	}

	// Security
	if c.Security.ProductionMode {
		if c.Token.Lifetime > maxProductionLifetime {
			return errors.New("Token Lifetime must be <= 24h in production mode")
		}
		if c.Token.ClockSkew > maxProductionSkew {
			return errors.New("Token ClockSkew must be <= 2m in production mode")
		}
	}

	// Revocation
	if c.Revocation.Enabled && !c.Token.IssueTokenID {
		return errors.New("Revocation requires Token IssueTokenID")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}
