package keys

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key is a reified key ready for the encryption primitive.
type Key struct {
	ID        string
	Algorithm string
	Material  any
}

// ReifyFunc transforms a key definition into a [Key].
type ReifyFunc func(ctx context.Context, def Definition) (Key, error)

const reifyFlight = "reify"

// Manager owns the lazily populated key slot for one key definition.
//
// Manager is safe for concurrent use.
type Manager struct {
	def    Definition
	reify  ReifyFunc
	logger *zap.Logger

	key     atomic.Pointer[Key]
	flight  singleflight.Group
	reified atomic.Uint64
}

// NewManager creates a manager for def. The definition is copied.
// A nil logger disables diagnostics.
func NewManager(def Definition, reify ReifyFunc, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		def:    def.Clone(),
		reify:  reify,
		logger: logger,
	}
}

// EnsureReady returns the reified key, reifying it on first use.
//
// Usage errors (nil context, nil reifier) are returned before any work is done.
// A caller whose context ends while a shared reification is in flight gets ctx.Err();
// the reification itself keeps running for the remaining callers.
func (m *Manager) EnsureReady(ctx context.Context) (Key, error) {
	if ctx == nil {
		return Key{}, ErrNilContext
	}
	if m == nil || m.reify == nil {
		return Key{}, ErrNilReifier
	}
	if !m.def.IsObject() {
		return Key{}, ErrInvalidDefinition
	}
	if k := m.key.Load(); k != nil {
		return *k, nil
	}

	ch := m.flight.DoChan(reifyFlight, func() (interface{}, error) {
		if k := m.key.Load(); k != nil {
			return *k, nil
		}
		k, err := m.reify(context.WithoutCancel(ctx), m.def.Clone())
		if err != nil {
			m.logger.Error("key reification failed", zap.Error(err))
			return nil, fmt.Errorf("reify key: %w", err)
		}
		m.key.Store(&k)
		m.reified.Add(1)
		m.logger.Info("key reified", zap.String("kid", k.ID), zap.String("alg", k.Algorithm))
		return k, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Key{}, res.Err
		}
		return res.Val.(Key), nil
	case <-ctx.Done():
		return Key{}, ctx.Err()
	}
}

// Ready reports whether a key has been reified.
func (m *Manager) Ready() bool {
	return m != nil && m.key.Load() != nil
}

// Reifications returns how many times the reification function completed successfully.
func (m *Manager) Reifications() uint64 {
	if m == nil {
		return 0
	}
	return m.reified.Load()
}

// Definition returns a copy of the managed definition.
func (m *Manager) Definition() Definition {
	if m == nil {
		return nil
	}
	return m.def.Clone()
}
