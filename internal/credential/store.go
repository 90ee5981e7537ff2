package credential

import (
	"context"
	"sync"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/db"
	"go.uber.org/zap"
)

const (
	Namespace = "ota"
	TokenKey  = "gh_token"
)

type Policy int

const (
	// FallbackWhenEmpty substitutes the compiled-in token only when nothing is persisted.
	FallbackWhenEmpty Policy = iota
	// PreferFallback always uses the compiled-in token when one exists.
	PreferFallback
)

// Store owns the release source access token.
type Store struct {
	logger   *zap.Logger
	kv       db.Store
	fallback string
	policy   Policy

	mu     sync.Mutex
	loaded bool
	token  string
}

func NewStore(conf *config.Config, logger *zap.Logger, kv db.Store) *Store {
	policy := FallbackWhenEmpty
	if conf.Credential.PreferFallback {
		policy = PreferFallback
	}
	return New(logger, kv, conf.Credential.Token, policy)
}

func New(logger *zap.Logger, kv db.Store, fallback string, policy Policy) *Store {
	return &Store{
		logger:   logger,
		kv:       kv,
		fallback: fallback,
		policy:   policy,
	}
}

// Load returns the effective token, reading the persisted value once.
// A store failure is logged and treated as an empty persisted value.
func (s *Store) Load(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.token
	}

	persisted, err := s.kv.Get(ctx, Namespace, TokenKey, "")
	if err != nil {
		s.logger.Warn("Failed to read persisted token",
			zap.Error(err),
		)
		persisted = ""
	}

	s.token = s.resolve(persisted)
	s.loaded = true

	if s.token != "" {
		s.logger.Info("Release token loaded",
			zap.String("token", Mask(s.token)),
		)
	} else {
		s.logger.Info("No release token configured")
	}
	return s.token
}

func (s *Store) resolve(persisted string) string {
	if s.fallback == "" {
		return persisted
	}
	if s.policy == PreferFallback || persisted == "" {
		return s.fallback
	}
	return persisted
}

// Save replaces the cached token and persists it. A persistence failure keeps
// the new token in memory for the rest of the process lifetime.
func (s *Store) Save(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true

	if err := s.kv.Put(ctx, Namespace, TokenKey, token); err != nil {
		s.logger.Error("Failed to persist token, keeping it in memory",
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Release token saved",
		zap.String("token", Mask(token)),
	)
}

func (s *Store) Has(ctx context.Context) bool {
	return s.Load(ctx) != ""
}

// Mask keeps the first 10 and last 4 characters of a token.
func Mask(token string) string {
	if len(token) <= 14 {
		if token == "" {
			return ""
		}
		return "****"
	}
	return token[:10] + "..." + token[len(token)-4:]
}
