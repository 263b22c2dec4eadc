package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
)

// MirrorStore abstracts persistence for mirrored collections.
type MirrorStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// MirrorService orchestrates the reload-continuity mirror. Every write
// is best effort: a mirror failure is logged and never propagated,
// because the mirror is a cache and the database stays authoritative.
type MirrorService struct {
	store      MirrorStore
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewMirrorService constructs a mirror service.
func NewMirrorService(store MirrorStore, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *MirrorService {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MirrorService{store: store, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether mirroring is active.
func (s *MirrorService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// Get attempts to read a mirrored entry. It returns true on a hit.
func (s *MirrorService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.store.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordMirrorOperation(false, duration)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("mirror get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	s.metrics.RecordMirrorOperation(true, duration)
	return true
}

// Put stores the value in the mirror, best effort.
func (s *MirrorService) Put(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	if err := s.store.Set(ctx, key, value, s.defaultTTL); err != nil {
		s.logger.Warn("mirror set failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear drops all mirrored entries under the given pattern. Used on
// session teardown.
func (s *MirrorService) Clear(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("mirror clear failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
