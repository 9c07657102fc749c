package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources/registry"
)

type blockingSource struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) Name() string         { return "blocking" }
func (b *blockingSource) RequiresAPIKey() bool { return false }

func (b *blockingSource) Fetch(ctx context.Context, _, _ string) ([]domain.RawJob, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []domain.RawJob{{Title: "Go Developer", CompanyName: "Acme", SourcePlatform: "blocking", ExternalID: "1"}}, nil
}

type snapStore struct {
	mu   sync.Mutex
	snap domain.Snapshot
}

func (s *snapStore) SaveSnapshot(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

func (s *snapStore) LoadSnapshot(context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

func TestForcedAggregateConflictsWithRunInFlight(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	build := func(domain.AppSettings) []registry.Entry {
		return []registry.Entry{{Adapter: src, Timeout: 10 * time.Second}}
	}
	agg := aggregate.New(aggregate.Deps{
		Options: aggregate.Options{MaxTasks: 1, MaxAttempts: 1, Concurrency: 1, RefreshCooldown: time.Hour},
		Build:   build,
		Store:   &snapStore{},
	})

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())
	srv := httptest.NewServer(Handler(Deps{Agg: agg, CfgVal: &cfgVal}))
	t.Cleanup(srv.Close)

	first := make(chan int, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/aggregate", "application/json", nil)
		if err != nil {
			first <- 0
			return
		}
		_ = resp.Body.Close()
		first <- resp.StatusCode
	}()
	<-src.started
	runID := agg.Status().RunID
	require.NotEmpty(t, runID)

	resp := do(t, http.MethodPost, srv.URL+"/aggregate", `{"force":true}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[APIError](t, resp)
	assert.Equal(t, "CONFLICT", body.Error.Code)

	resp = do(t, http.MethodPost, srv.URL+"/aggregate", "{}")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// the rejected calls leave the running run in place
	st := agg.Status()
	assert.True(t, st.Running)
	assert.Equal(t, runID, st.RunID)

	close(src.release)
	assert.Equal(t, http.StatusOK, <-first)
	assert.False(t, agg.Status().Running)
}
