package aggregate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources/registry"
)

type fakeAdapter struct {
	name  string
	calls atomic.Int32
	fetch func(n int, query, location string) ([]domain.RawJob, error)
}

func (f *fakeAdapter) Name() string         { return f.name }
func (f *fakeAdapter) RequiresAPIKey() bool { return false }

func (f *fakeAdapter) Fetch(_ context.Context, query, location string) ([]domain.RawJob, error) {
	n := int(f.calls.Add(1))
	return f.fetch(n, query, location)
}

func entry(a *fakeAdapter, caps registry.Capabilities) registry.Entry {
	return registry.Entry{Adapter: a, Caps: caps, Timeout: time.Second}
}

func raw(platform, id, title, company string) domain.RawJob {
	return domain.RawJob{
		Title:          title,
		CompanyName:    company,
		Location:       "Lahore, Pakistan",
		SourcePlatform: platform,
		ExternalID:     id,
		Skills:         []string{"go"},
	}
}

type memStore struct {
	mu   sync.Mutex
	snap domain.Snapshot
	err  error
	runs []domain.RunRecord
}

func (m *memStore) SaveSnapshot(_ context.Context, s domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snap = s
	return nil
}

func (m *memStore) LoadSnapshot(context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memStore) RecordRun(_ context.Context, r domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append([]domain.RunRecord{r}, m.runs...)
	return nil
}

func (m *memStore) RecentRuns(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}
