package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/sources/registry"
)

var profile = domain.UserProfile{
	Headline:        "Backend Engineer",
	Location:        "Lahore, Pakistan",
	Skills:          []string{"Go", "PostgreSQL"},
	ExperienceYears: 4,
}

func newTestAggregator(store *memStore, entries ...registry.Entry) *Aggregator {
	return New(Deps{
		Options: Options{MaxTasks: 50, MaxAttempts: 2, RetryDelay: time.Millisecond, Concurrency: 4, FreshnessDays: 60},
		Build:   func(domain.AppSettings) []registry.Entry { return entries },
		Store:   store,
		Runs:    store,
	})
}

func TestAggregateIsolatesFailingAdapter(t *testing.T) {
	good := &fakeAdapter{name: "good", fetch: func(n int, q, loc string) ([]domain.RawJob, error) {
		return []domain.RawJob{raw("good", "1", "Go Developer", "Acme")}, nil
	}}
	bad := &fakeAdapter{name: "bad", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return nil, errs.Unavailable("down", nil)
	}}
	empty := &fakeAdapter{name: "empty", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return nil, nil
	}}
	store := &memStore{}
	a := newTestAggregator(store, entry(good, registry.Capabilities{}), entry(bad, registry.Capabilities{}), entry(empty, registry.Capabilities{}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)

	assert.Len(t, res.Jobs, 1)
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, res.Jobs[0].ID, res.Matches[0].JobID)
	assert.Equal(t, []string{"good"}, res.Stats.Platforms)
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, 3, res.Stats.Tasks)
	assert.EqualValues(t, 2, bad.calls.Load(), "retryable failure gets a second attempt")

	assert.Equal(t, res.Stats.RunID, store.snap.RunID)
	assert.Len(t, store.snap.Jobs, 1)
	require.Len(t, store.runs, 1)
	assert.Equal(t, 1, store.runs[0].Failed)
}

func TestAggregateDoesNotRetryBlocked(t *testing.T) {
	blocked := &fakeAdapter{name: "blocked", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return nil, errs.Blocked("captcha", nil)
	}}
	a := newTestAggregator(&memStore{}, entry(blocked, registry.Capabilities{}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, blocked.calls.Load())
	assert.Equal(t, 1, res.Stats.Failed)
	assert.Empty(t, res.Jobs)
	assert.NotNil(t, res.Stats.Platforms)
}

func TestAggregateRecoversFromPanic(t *testing.T) {
	boom := &fakeAdapter{name: "boom", fetch: func(int, string, string) ([]domain.RawJob, error) {
		panic("nil map")
	}}
	good := &fakeAdapter{name: "good", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return []domain.RawJob{raw("good", "1", "Go Developer", "Acme")}, nil
	}}
	a := newTestAggregator(&memStore{}, entry(boom, registry.Capabilities{}), entry(good, registry.Capabilities{}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)
	assert.Len(t, res.Jobs, 1)
	assert.Equal(t, 1, res.Stats.Failed)
}

func TestAggregateSecondAttemptSucceeds(t *testing.T) {
	flaky := &fakeAdapter{name: "flaky", fetch: func(n int, _, _ string) ([]domain.RawJob, error) {
		if n == 1 {
			return nil, errs.Unavailable("503", nil)
		}
		return []domain.RawJob{raw("flaky", "9", "Go Developer", "Acme")}, nil
	}}
	a := newTestAggregator(&memStore{}, entry(flaky, registry.Capabilities{}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.Failed)
	assert.Equal(t, []string{"flaky"}, res.Stats.Platforms)
}

func TestAggregateDeduplicatesAcrossTasks(t *testing.T) {
	src := &fakeAdapter{name: "src", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return []domain.RawJob{raw("src", "1", "Go Developer", "Acme")}, nil
	}}
	a := newTestAggregator(&memStore{}, entry(src, registry.Capabilities{Searchable: true}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)
	assert.Greater(t, res.Stats.Tasks, 1)
	assert.Equal(t, res.Stats.Tasks, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Unique)
	assert.Len(t, res.Jobs, 1)
}

func TestAggregateDropsStaleListings(t *testing.T) {
	src := &fakeAdapter{name: "src", fetch: func(int, string, string) ([]domain.RawJob, error) {
		fresh := raw("src", "1", "Go Developer", "Acme")
		stale := raw("src", "2", "Rust Developer", "Initech")
		stale.PostedAt = time.Now().Add(-90 * 24 * time.Hour).Format(time.RFC3339)
		return []domain.RawJob{fresh, stale}, nil
	}}
	a := newTestAggregator(&memStore{}, entry(src, registry.Capabilities{}))

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Unique)
	assert.Equal(t, "Go Developer", res.Jobs[0].Title)
}

func TestAggregateReturnsResultWhenSaveFails(t *testing.T) {
	src := &fakeAdapter{name: "src", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return []domain.RawJob{raw("src", "1", "Go Developer", "Acme")}, nil
	}}
	store := &memStore{err: errors.New("disk full")}
	hub := events.NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	a := newTestAggregator(store, entry(src, registry.Capabilities{}))
	a.pub = hub

	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTypeInternal))
	assert.Len(t, res.Jobs, 1)
	require.Len(t, store.runs, 1)
	assert.NotEmpty(t, store.runs[0].Error)

	var types []string
	for len(ch) > 0 {
		types = append(types, (<-ch).Type)
	}
	assert.Equal(t, []string{events.RunStarted, events.RunFailed}, types)
}

func TestCachedEmptyStore(t *testing.T) {
	a := newTestAggregator(&memStore{})
	s, err := a.Cached(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.Jobs)
	assert.NotNil(t, s.Matches)
	assert.Empty(t, s.Jobs)
}

func TestCachedReturnsLastRun(t *testing.T) {
	src := &fakeAdapter{name: "src", fetch: func(int, string, string) ([]domain.RawJob, error) {
		return []domain.RawJob{raw("src", "1", "Go Developer", "Acme")}, nil
	}}
	a := newTestAggregator(&memStore{}, entry(src, registry.Capabilities{}))
	res, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	require.NoError(t, err)

	s, err := a.Cached(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Jobs, s.Jobs)
	assert.Equal(t, res.Matches, s.Matches)
	assert.EqualValues(t, 1, src.calls.Load(), "cached read must not fetch")

	ps, err := a.Platforms(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "src", ps[0].Platform)
	assert.Equal(t, 1, ps[0].Jobs)
}

func TestRefreshCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{snap: domain.Snapshot{RunID: "r1", FetchedAt: now.Add(-2 * time.Minute)}}
	a := New(Deps{
		Options: Options{RefreshCooldown: 5 * time.Minute},
		Build:   func(domain.AppSettings) []registry.Entry { return nil },
		Store:   store,
		Now:     func() time.Time { return now },
	})

	_, err := a.Refresh(context.Background(), profile, domain.AppSettings{})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTypeRateLimit))
	wait, ok := RetryAfter(err)
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, wait)

	store.snap.FetchedAt = now.Add(-10 * time.Minute)
	_, err = a.Refresh(context.Background(), profile, domain.AppSettings{})
	assert.NoError(t, err)
	assert.False(t, a.Status().Running)
	require.NotNil(t, a.Status().Last)
}

func TestRunInFlightRejectsOtherRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slow := &fakeAdapter{name: "slow", fetch: func(n int, q, loc string) ([]domain.RawJob, error) {
		if n == 1 {
			close(started)
			<-release
		}
		return []domain.RawJob{raw("slow", "1", "Go Developer", "Acme")}, nil
	}}
	store := &memStore{}
	a := New(Deps{
		Options: Options{MaxTasks: 1, MaxAttempts: 1, Concurrency: 1, FreshnessDays: 60, RefreshCooldown: time.Hour},
		Build:   func(domain.AppSettings) []registry.Entry { return []registry.Entry{entry(slow, registry.Capabilities{})} },
		Store:   store,
	})

	done := make(chan error, 1)
	go func() {
		_, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
		done <- err
	}()
	<-started
	first := a.Status()
	require.True(t, first.Running)

	_, err := a.Aggregate(context.Background(), profile, domain.AppSettings{})
	assert.True(t, errs.Is(err, errs.ErrTypeConflict), err)
	_, err = a.Refresh(context.Background(), profile, domain.AppSettings{})
	assert.True(t, errs.Is(err, errs.ErrTypeConflict), err)
	assert.Equal(t, first, a.Status())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, a.Status().Running)
	assert.Equal(t, int32(1), slow.calls.Load())

	// the finished run starts the cooldown; forcing still works
	_, err = a.Refresh(context.Background(), profile, domain.AppSettings{})
	assert.True(t, errs.Is(err, errs.ErrTypeRateLimit), err)
	_, err = a.Aggregate(context.Background(), profile, domain.AppSettings{})
	assert.NoError(t, err)
}

func TestConcurrentRefreshRunsOnce(t *testing.T) {
	src := &fakeAdapter{name: "src", fetch: func(int, string, string) ([]domain.RawJob, error) {
		time.Sleep(20 * time.Millisecond)
		return []domain.RawJob{raw("src", "1", "Go Developer", "Acme")}, nil
	}}
	a := New(Deps{
		Options: Options{MaxTasks: 1, MaxAttempts: 1, Concurrency: 1, FreshnessDays: 60, RefreshCooldown: time.Hour},
		Build:   func(domain.AppSettings) []registry.Entry { return []registry.Entry{entry(src, registry.Capabilities{})} },
		Store:   &memStore{},
	})

	const callers = 8
	errc := make(chan error, callers)
	for range callers {
		go func() {
			_, err := a.Refresh(context.Background(), profile, domain.AppSettings{})
			errc <- err
		}()
	}
	ok := 0
	for range callers {
		err := <-errc
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errs.Is(err, errs.ErrTypeRateLimit) || errs.Is(err, errs.ErrTypeConflict), err)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestHistoryWithoutRunLog(t *testing.T) {
	a := New(Deps{Store: &memStore{}, Build: func(domain.AppSettings) []registry.Entry { return nil }})
	runs, err := a.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
