package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
)

type scriptedFetcher struct {
	mu      sync.Mutex
	results [][]models.Professor
	errs    []error
	calls   int
	block   chan struct{}
}

func (f *scriptedFetcher) FetchProfessors(context.Context) ([]models.Professor, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.results) {
		return f.results[idx], nil
	}
	return nil, nil
}

func TestDirectoryRefreshCommitsSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{results: [][]models.Professor{
		{{ID: "p1", Name: "Dra. Salas"}, {ID: "p2", Name: "Mtro. Rivas"}},
	}}
	svc := NewDirectoryService(fetcher, nil, zap.NewNop())

	require.NoError(t, svc.Refresh(context.Background()))

	assert.Len(t, svc.List(), 2)
	assert.Equal(t, "Dra. Salas", svc.LookupName("p1"))
}

func TestDirectoryLookupFallsBackForUnknownID(t *testing.T) {
	svc := NewDirectoryService(&scriptedFetcher{}, nil, zap.NewNop())

	assert.Equal(t, models.UnassignedProfessorName, svc.LookupName("ghost"))
}

func TestDirectoryFailedRefreshKeepsSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{
		results: [][]models.Professor{{{ID: "p1", Name: "Dra. Salas"}}, nil},
		errs:    []error{nil, errors.New("backend down")},
	}
	svc := NewDirectoryService(fetcher, nil, zap.NewNop())

	require.NoError(t, svc.Refresh(context.Background()))
	require.Error(t, svc.Refresh(context.Background()))

	assert.Equal(t, "Dra. Salas", svc.LookupName("p1"))
}

func TestDirectoryStaleRefreshDoesNotOverwrite(t *testing.T) {
	slowRelease := make(chan struct{})
	fetcher := &scriptedFetcher{
		results: [][]models.Professor{
			{{ID: "p1", Name: "Stale Name"}},
			{{ID: "p1", Name: "Fresh Name"}},
		},
	}
	svc := NewDirectoryService(fetcher, nil, zap.NewNop())

	// Start a refresh that stalls mid-fetch, then complete a newer one.
	fetcher.mu.Lock()
	fetcher.block = slowRelease
	fetcher.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- svc.Refresh(context.Background())
	}()

	// Wait until the slow fetch is in flight before issuing the fresh one.
	for {
		fetcher.mu.Lock()
		started := fetcher.calls > 0
		fetcher.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	fetcher.mu.Lock()
	fetcher.block = nil
	fetcher.mu.Unlock()
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, "Fresh Name", svc.LookupName("p1"))

	close(slowRelease)
	require.NoError(t, <-done)

	// The older generation must not clobber the newer snapshot.
	assert.Equal(t, "Fresh Name", svc.LookupName("p1"))
}

type memoryMirrorStore struct {
	values map[string][]byte
}

func (m *memoryMirrorStore) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryMirrorStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = raw
	return nil
}

func (m *memoryMirrorStore) DeleteByPattern(context.Context, string) error {
	m.values = map[string][]byte{}
	return nil
}

func TestDirectoryWarmStartSeedsFromMirror(t *testing.T) {
	store := &memoryMirrorStore{}
	mirror := NewMirrorService(store, nil, 0, zap.NewNop(), true)
	mirror.Put(context.Background(), mirrorKeyProfessors, []models.Professor{{ID: "p1", Name: "Cached Name"}})

	svc := NewDirectoryService(&scriptedFetcher{}, mirror, zap.NewNop())
	svc.WarmStart(context.Background())

	assert.Equal(t, "Cached Name", svc.LookupName("p1"))
}

func TestDirectoryWarmStartNeverOverridesCommittedData(t *testing.T) {
	store := &memoryMirrorStore{}
	mirror := NewMirrorService(store, nil, 0, zap.NewNop(), true)
	mirror.Put(context.Background(), mirrorKeyProfessors, []models.Professor{{ID: "p1", Name: "Cached Name"}})

	fetcher := &scriptedFetcher{results: [][]models.Professor{{{ID: "p1", Name: "Live Name"}}}}
	svc := NewDirectoryService(fetcher, mirror, zap.NewNop())
	require.NoError(t, svc.Refresh(context.Background()))

	svc.WarmStart(context.Background())

	assert.Equal(t, "Live Name", svc.LookupName("p1"))
}

func TestDirectoryRefreshWritesMirror(t *testing.T) {
	store := &memoryMirrorStore{}
	mirror := NewMirrorService(store, nil, 0, zap.NewNop(), true)
	fetcher := &scriptedFetcher{results: [][]models.Professor{{{ID: "p1", Name: "Dra. Salas"}}}}
	svc := NewDirectoryService(fetcher, mirror, zap.NewNop())

	require.NoError(t, svc.Refresh(context.Background()))

	var cached []models.Professor
	assert.True(t, mirror.Get(context.Background(), mirrorKeyProfessors, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "Dra. Salas", cached[0].Name)
}
