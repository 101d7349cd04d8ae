package goJWE

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goJWE/jwe"
	"github.com/MrEthical07/goJWE/keys"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.Lifetime != 5*time.Minute {
		t.Fatalf("expected 5m lifetime, got %v", cfg.Token.Lifetime)
	}
	if cfg.Token.KeyWrapping != jwe.A256KW || cfg.Token.ContentEncryption != jwe.A128CBCHS256 {
		t.Fatalf("unexpected default algorithms %+v", cfg.Token)
	}
	if cfg.Token.ClockSkew != 0 {
		t.Fatalf("expected zero skew, got %v", cfg.Token.ClockSkew)
	}
	if cfg.Revocation.RedisPrefix != "jr" || cfg.Audit.BufferSize != 1024 || !cfg.Audit.DropIfFull {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Revocation, cfg.Audit)
	}
	if cfg.Key.DevelopmentKeyID != DefaultDevelopmentKeyID {
		t.Fatalf("unexpected development key id %q", cfg.Key.DevelopmentKeyID)
	}

	// issuer, audiences and key are deployment specific
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected bare defaults to fail validation")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "baseline valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name:   "blank issuer",
			mutate: func(c *Config) { c.Token.Issuer = "  " },
		},
		{
			name:   "no audiences",
			mutate: func(c *Config) { c.Token.Audiences = nil },
		},
		{
			name:   "blank audience",
			mutate: func(c *Config) { c.Token.Audiences = []string{"billing", ""} },
		},
		{
			name:   "sub-second lifetime",
			mutate: func(c *Config) { c.Token.Lifetime = 500 * time.Millisecond },
		},
		{
			name:   "fractional lifetime",
			mutate: func(c *Config) { c.Token.Lifetime = 1500 * time.Millisecond },
		},
		{
			name:      "one second lifetime",
			mutate:    func(c *Config) { c.Token.Lifetime = time.Second },
			wantValid: true,
		},
		{
			name:   "negative skew",
			mutate: func(c *Config) { c.Token.ClockSkew = -time.Second },
		},
		{
			name:   "unsupported key wrapping",
			mutate: func(c *Config) { c.Token.KeyWrapping = "RSA-OAEP" },
		},
		{
			name:   "unsupported content encryption",
			mutate: func(c *Config) { c.Token.ContentEncryption = "A128CBC" },
		},
		{
			name:      "gcm content encryption",
			mutate:    func(c *Config) { c.Token.ContentEncryption = jwe.A256GCM },
			wantValid: true,
		},
		{
			name:   "placeholder key",
			mutate: func(c *Config) { c.Key.Definition = keys.Definition("null") },
		},
		{
			name:   "blank development key id",
			mutate: func(c *Config) { c.Key.DevelopmentKeyID = "" },
		},
		{
			name: "production long lifetime",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Token.Lifetime = 25 * time.Hour
			},
		},
		{
			name: "production large skew",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Token.ClockSkew = 3 * time.Minute
			},
		},
		{
			name: "production bounded",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Token.Lifetime = 24 * time.Hour
				c.Token.ClockSkew = 2 * time.Minute
			},
			wantValid: true,
		},
		{
			name:   "revocation without token ids",
			mutate: func(c *Config) { c.Revocation.Enabled = true },
		},
		{
			name: "revocation with token ids",
			mutate: func(c *Config) {
				c.Revocation.Enabled = true
				c.Token.IssueTokenID = true
			},
			wantValid: true,
		},
		{
			name: "audit zero buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigValidatePlaceholderKeyError(t *testing.T) {
	cfg := testConfig()
	cfg.Key.Definition = nil
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidKeyDefinition) {
		t.Fatalf("expected ErrInvalidKeyDefinition, got %v", err)
	}
}
