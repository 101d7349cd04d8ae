package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goJWE "github.com/MrEthical07/goJWE"
	"github.com/MrEthical07/goJWE/keys"
	"github.com/MrEthical07/goJWE/logging"
	"github.com/caarlos0/env/v9"
)

// Config is loaded from the environment.
type Config struct {
	Production bool `env:"GOJWE_PRODUCTION" envDefault:"false"`

	Key   KeyConfig
	Token TokenConfig
	Redis RedisConfig
	Log   logging.Config
}

// KeyConfig selects the key definition. GOJWE_KEY wins over GOJWE_KEY_FILE.
type KeyConfig struct {
	Definition string `env:"GOJWE_KEY"`
	File       string `env:"GOJWE_KEY_FILE"`
	DevKeyID   string `env:"GOJWE_DEV_KEY_ID" envDefault:"development"`
}

type TokenConfig struct {
	Issuer            string        `env:"GOJWE_ISSUER" envDefault:"gojwe"`
	Audiences         []string      `env:"GOJWE_AUDIENCES" envSeparator:"," envDefault:"gojwe"`
	Lifetime          time.Duration `env:"GOJWE_LIFETIME" envDefault:"5m"`
	ClockSkew         time.Duration `env:"GOJWE_CLOCK_SKEW" envDefault:"0s"`
	KeyWrapping       string        `env:"GOJWE_KEY_WRAPPING" envDefault:"A256KW"`
	ContentEncryption string        `env:"GOJWE_CONTENT_ENCRYPTION" envDefault:"A128CBC-HS256"`
	TokenID           bool          `env:"GOJWE_TOKEN_ID" envDefault:"true"`
}

// RedisConfig enables revocation when Revocation is set. An empty Addr falls
// back to an in-process miniredis.
type RedisConfig struct {
	Revocation bool   `env:"GOJWE_REVOCATION" envDefault:"false"`
	Addr       string `env:"REDIS_ADDR"`
	Password   string `env:"REDIS_PASSWORD"`
	DB         int    `env:"REDIS_DB" envDefault:"0"`
	Prefix     string `env:"GOJWE_REDIS_PREFIX" envDefault:"jr"`
}

// Load parses cfg from environ. A nil environ reads the process environment.
func Load(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

var errNoKey = errors.New("no key configured: set GOJWE_KEY or GOJWE_KEY_FILE")

// definition resolves the configured key definition.
func (c Config) definition() (keys.Definition, error) {
	if raw := strings.TrimSpace(c.Key.Definition); raw != "" {
		return keys.Definition(raw), nil
	}
	if c.Key.File != "" {
		data, err := os.ReadFile(c.Key.File)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		return keys.Definition(data), nil
	}
	return nil, errNoKey
}

// engineConfig maps the environment onto an engine configuration.
func (c Config) engineConfig(def keys.Definition) goJWE.Config {
	cfg := goJWE.DefaultConfig()
	cfg.Token.Issuer = c.Token.Issuer
	cfg.Token.Audiences = c.Token.Audiences
	cfg.Token.Lifetime = c.Token.Lifetime
	cfg.Token.ClockSkew = c.Token.ClockSkew
	cfg.Token.KeyWrapping = c.Token.KeyWrapping
	cfg.Token.ContentEncryption = c.Token.ContentEncryption
	cfg.Token.IssueTokenID = c.Token.TokenID || c.Redis.Revocation
	cfg.Key.Definition = def
	cfg.Key.DevelopmentKeyID = c.Key.DevKeyID
	cfg.Security.ProductionMode = c.Production
	cfg.Revocation.Enabled = c.Redis.Revocation
	cfg.Revocation.RedisPrefix = c.Redis.Prefix
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}
