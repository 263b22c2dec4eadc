package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
)

const mirrorKeyProfessors = "mirror:professors"

type directoryFetcher interface {
	FetchProfessors(ctx context.Context) ([]models.Professor, error)
}

// DirectoryService keeps an in-memory snapshot of the external
// professor directory. Refreshes are guarded by a generation counter:
// a fetch only commits its snapshot if no newer fetch finished first,
// so a slow stale response can never overwrite fresher data.
type DirectoryService struct {
	fetcher directoryFetcher
	mirror  *MirrorService
	logger  *zap.Logger

	mu           sync.RWMutex
	byID         map[string]models.Professor
	ordered      []models.Professor
	committedGen uint64
	nextGen      uint64
	warm         bool
}

// NewDirectoryService constructs a directory service.
func NewDirectoryService(fetcher directoryFetcher, mirror *MirrorService, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		fetcher: fetcher,
		mirror:  mirror,
		logger:  logger,
		byID:    make(map[string]models.Professor),
	}
}

// WarmStart seeds the snapshot from the mirror before the first remote
// fetch completes. Mirrored data never overrides a committed fetch.
func (s *DirectoryService) WarmStart(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	var professors []models.Professor
	if !s.mirror.Get(ctx, mirrorKeyProfessors, &professors) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committedGen > 0 || s.warm {
		return
	}
	s.commitLocked(professors)
	s.warm = true
	s.logger.Info("professor directory warm-started from mirror", zap.Int("count", len(professors)))
}

// Refresh fetches the directory and commits the snapshot unless a newer
// refresh already did. A failed fetch leaves the previous snapshot in
// place and only logs.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	professors, err := s.fetcher.FetchProfessors(ctx)
	if err != nil {
		s.logger.Warn("professor directory refresh failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	if gen <= s.committedGen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale directory refresh", zap.Uint64("generation", gen))
		return nil
	}
	s.commitLocked(professors)
	s.committedGen = gen
	s.mu.Unlock()

	if s.mirror != nil {
		s.mirror.Put(ctx, mirrorKeyProfessors, professors)
	}
	s.logger.Info("professor directory refreshed", zap.Int("count", len(professors)))
	return nil
}

func (s *DirectoryService) commitLocked(professors []models.Professor) {
	byID := make(map[string]models.Professor, len(professors))
	for _, p := range professors {
		byID[p.ID] = p
	}
	s.byID = byID
	s.ordered = professors
}

// Run refreshes the directory on an interval until the context ends.
func (s *DirectoryService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// List returns the current directory snapshot.
func (s *DirectoryService) List() []models.Professor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Professor, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// LookupName resolves a professor id to a display name, falling back to
// the unassigned placeholder when the id is unknown.
func (s *DirectoryService) LookupName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.byID[id]; ok && p.Name != "" {
		return p.Name
	}
	return models.UnassignedProfessorName
}
