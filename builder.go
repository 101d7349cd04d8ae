package goJWE

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goJWE/claims"
	internalaudit "github.com/MrEthical07/goJWE/internal/audit"
	"github.com/MrEthical07/goJWE/jwe"
	"github.com/MrEthical07/goJWE/keys"
	"github.com/MrEthical07/goJWE/logging"
	"github.com/MrEthical07/goJWE/revocation"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles an [Engine]. Configure it during initialization and call
// Build once.
type Builder struct {
	config Config
	logger *zap.Logger
	cipher jwe.Cipher
	reify  keys.ReifyFunc
	clock  func() time.Time
	redis  redis.UniversalClient

	revocation RevocationChecker
	auditSink  AuditSink

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithLogger sets the diagnostics sink. The development-key check in Build
// logs at fatal level through this logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithCipher replaces the go-jose cipher.
func (b *Builder) WithCipher(c jwe.Cipher) *Builder {
	b.cipher = c
	return b
}

// WithReifier replaces [jwe.ReifyJWK] as the key definition parser.
func (b *Builder) WithReifier(reify keys.ReifyFunc) *Builder {
	b.reify = reify
	return b
}

// WithClock replaces time.Now for claim stamping and window checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithRedis provides the client for the revocation store when
// Config.Revocation.Enabled is set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRevocationChecker wires a custom denylist and enables revocation.
func (b *Builder) WithRevocationChecker(checker RevocationChecker) *Builder {
	b.revocation = checker
	b.config.Revocation.Enabled = checker != nil
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, refuses the development key in
// production mode and makes the key ready before returning.
//
// Using the development key in production is logged at fatal level, which
// terminates the process with the default zap fatal hook. If the logger was
// built with a hook that returns, Build returns ErrDevelopmentKeyInProduction.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.New(logging.Config{})
	}

	kid, err := cfg.Key.Definition.KeyID()
	if err != nil {
		return nil, ErrInvalidKeyDefinition
	}
	if cfg.Security.ProductionMode && kid == cfg.Key.DevelopmentKeyID {
		logger.Fatal("development key configured in production mode",
			zap.String("kid", kid),
		)
		return nil, ErrDevelopmentKeyInProduction
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	checker := b.revocation
	if cfg.Revocation.Enabled && checker == nil {
		if b.redis == nil {
			return nil, errors.New("Revocation requires redis client or revocation checker")
		}
		checker = revocation.New(b.redis, cfg.Revocation.RedisPrefix).WithClock(clock)
	}

	metrics := NewMetrics(cfg.Metrics)

	reify := b.reify
	if reify == nil {
		reify = jwe.ReifyJWK
	}
	counted := func(ctx context.Context, def keys.Definition) (keys.Key, error) {
		key, err := reify(ctx, def)
		if err == nil {
			metrics.Inc(MetricKeyReified)
		}
		return key, err
	}

	deps := Dependencies{
		Keys:       keys.NewManager(cfg.Key.Definition, counted, logger),
		Codec:      claims.NewCodec(logger),
		Cipher:     b.cipher,
		Revocation: checker,
		Clock:      clock,
		Logger:     logger,
	}

	engine := &Engine{
		config:   cfg,
		keys:     deps.Keys,
		keyID:    kid,
		issuer:   NewIssuer(cfg.Token, deps),
		verifier: NewVerifier(cfg.Token, deps),
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
	}
	if r, ok := checker.(Revoker); ok {
		engine.revoker = r
	}

	if err := engine.EnsureKeyReady(context.Background()); err != nil {
		return nil, err
	}
	key, err := engine.keys.EnsureReady(context.Background())
	if err != nil {
		return nil, errors.Join(ErrNoEncryptionKey, err)
	}
	if err := jwe.MatchKey(key, cfg.Token.KeyWrapping); err != nil {
		logger.Error("key does not match configured key wrapping",
			zap.String("kid", kid),
			zap.String("alg", cfg.Token.KeyWrapping),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyDefinition, err)
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}
