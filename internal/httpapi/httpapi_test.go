package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/events"
)

type fakeAgg struct {
	snap      domain.Snapshot
	refreshed int
	forced    int
	refresh   error
	profile   domain.UserProfile
}

func (f *fakeAgg) result() aggregate.Result {
	return aggregate.Result{Jobs: f.snap.Jobs, Matches: f.snap.Matches, Stats: aggregate.Stats{RunID: "run-9", Total: len(f.snap.Jobs), Platforms: []string{"indeed"}}}
}

func (f *fakeAgg) Aggregate(_ context.Context, p domain.UserProfile, _ domain.AppSettings) (aggregate.Result, error) {
	f.forced++
	f.profile = p
	return f.result(), nil
}

func (f *fakeAgg) Refresh(_ context.Context, p domain.UserProfile, _ domain.AppSettings) (aggregate.Result, error) {
	f.refreshed++
	f.profile = p
	if f.refresh != nil {
		return aggregate.Result{}, f.refresh
	}
	return f.result(), nil
}

func (f *fakeAgg) Cached(context.Context) (domain.Snapshot, error) { return f.snap, nil }
func (f *fakeAgg) Status() aggregate.Status                         { return aggregate.Status{} }

func (f *fakeAgg) History(context.Context, int) ([]domain.RunRecord, error) {
	return []domain.RunRecord{{RunID: "run-9"}}, nil
}

func (f *fakeAgg) Platforms(context.Context) ([]domain.PlatformHealth, error) {
	return []domain.PlatformHealth{{Platform: "indeed", Jobs: 2}}, nil
}

type fakeSecrets struct{ set map[string]string }

func (f *fakeSecrets) Set(name, value string) error {
	if name != "gemini_api_key" {
		return errs.InvalidInput("unknown secret "+name, nil)
	}
	f.set[name] = value
	return nil
}

func (f *fakeSecrets) Delete(name string) error {
	if _, ok := f.set[name]; !ok {
		return errs.NotFound("secret "+name+" is not set", nil)
	}
	delete(f.set, name)
	return nil
}

func (f *fakeSecrets) Status() map[string]bool {
	return map[string]bool{"gemini_api_key": f.set["gemini_api_key"] != ""}
}

func snapshot(now time.Time) domain.Snapshot {
	loc := "Lahore, Pakistan"
	return domain.Snapshot{
		RunID:     "run-1",
		FetchedAt: now,
		Jobs: []domain.JobListing{
			{ID: "a", Title: "Go Developer", SourcePlatform: "indeed", Location: &loc, PostedAt: now.Add(-time.Hour)},
			{ID: "b", Title: "SRE", SourcePlatform: "remotive", PostedAt: now.Add(-10 * 24 * time.Hour)},
		},
		Matches: []domain.JobMatch{
			{JobID: "a", MatchScore: 80, Locality: domain.LocalityCity},
			{JobID: "b", MatchScore: 60, Locality: domain.LocalityRemote},
		},
	}
}

func newTestServer(t *testing.T, agg *fakeAgg) (*httptest.Server, Deps) {
	t.Helper()
	cfg := config.Default()
	cfg.Profile.Headline = "Backend Engineer"
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	path := filepath.Join(t.TempDir(), "config.yml")
	d := Deps{
		Agg:         agg,
		Hub:         events.NewHub(),
		Secrets:     &fakeSecrets{set: map[string]string{}},
		CfgVal:      &cfgVal,
		UserCfgPath: path,
		LoadCfg:     func() (config.Config, error) { return config.Load(path) },
	}
	srv := httptest.NewServer(Handler(d))
	t.Cleanup(srv.Close)
	return srv, d
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{})
	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["ok"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{})
	resp := do(t, http.MethodDelete, srv.URL+"/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	body := decode[APIError](t, resp)
	assert.Equal(t, "method_not_allowed", body.Error.Code)
	assert.NotEmpty(t, body.Error.RequestID)
}

func TestJobsCachedAndFiltered(t *testing.T) {
	agg := &fakeAgg{snap: snapshot(time.Now())}
	srv, _ := newTestServer(t, agg)

	resp := do(t, http.MethodGet, srv.URL+"/jobs/cached", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cached := decode[jobsResponse](t, resp)
	assert.Len(t, cached.Jobs, 2)
	assert.Equal(t, "run-1", cached.RunID)

	resp = do(t, http.MethodGet, srv.URL+"/jobs?window=7d", "")
	got := decode[jobsResponse](t, resp)
	require.Len(t, got.Jobs, 1)
	assert.Equal(t, "a", got.Jobs[0].ID)
	assert.Equal(t, "a", got.Matches[0].JobID)

	resp = do(t, http.MethodGet, srv.URL+"/jobs?locality=remote", "")
	got = decode[jobsResponse](t, resp)
	require.Len(t, got.Jobs, 1)
	assert.Equal(t, "b", got.Jobs[0].ID)
}

func TestJobsGrouped(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{snap: snapshot(time.Now())})
	resp := do(t, http.MethodGet, srv.URL+"/jobs/grouped", "")
	body := decode[struct {
		Groups []struct {
			Locality string   `json:"locality"`
			JobIDs   []string `json:"job_ids"`
		} `json:"groups"`
	}](t, resp)
	require.Len(t, body.Groups, 2)
	assert.Equal(t, "city", body.Groups[0].Locality)
	assert.Equal(t, []string{"b"}, body.Groups[1].JobIDs)
}

func TestAggregateUsesConfiguredProfile(t *testing.T) {
	agg := &fakeAgg{snap: snapshot(time.Now())}
	srv, _ := newTestServer(t, agg)

	resp := do(t, http.MethodPost, srv.URL+"/aggregate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[aggregateResponse](t, resp)
	assert.Equal(t, "run-9", body.Stats.RunID)
	assert.Equal(t, []string{"indeed"}, body.Stats.Platforms)
	assert.Equal(t, 1, agg.refreshed)
	assert.Equal(t, "Backend Engineer", agg.profile.Headline)
}

func TestAggregateForceWithProfileOverride(t *testing.T) {
	agg := &fakeAgg{}
	srv, _ := newTestServer(t, agg)

	resp := do(t, http.MethodPost, srv.URL+"/aggregate", `{"force":true,"profile":{"headline":"Data Engineer"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, agg.forced)
	assert.Equal(t, 0, agg.refreshed)
	assert.Equal(t, "Data Engineer", agg.profile.Headline)
}

func TestAggregateCooldownIs429(t *testing.T) {
	agg := &fakeAgg{refresh: errs.RateLimit("refreshed too recently", &aggregate.CooldownError{RetryAfter: 90 * time.Second})}
	srv, _ := newTestServer(t, agg)

	resp := do(t, http.MethodPost, srv.URL+"/aggregate", "{}")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "90", resp.Header.Get("Retry-After"))
	body := decode[APIError](t, resp)
	assert.Equal(t, "RATE_LIMIT", body.Error.Code)
	assert.Equal(t, "refreshed too recently", body.Error.Message)
}

func TestAggregateRejectsBlankProfileSkill(t *testing.T) {
	agg := &fakeAgg{}
	srv, _ := newTestServer(t, agg)

	resp := do(t, http.MethodPost, srv.URL+"/aggregate", `{"force":true,"profile":{"skills":["Go","  "]}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[APIError](t, resp)
	assert.Equal(t, "invalid_profile", body.Error.Code)
	assert.Zero(t, agg.forced)
}

func TestAggregateRejectsUnknownFields(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{})
	resp := do(t, http.MethodPost, srv.URL+"/aggregate", `{"nope":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunsAndPlatforms(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{})

	runs := decode[map[string][]domain.RunRecord](t, do(t, http.MethodGet, srv.URL+"/aggregate/runs?limit=5", ""))
	assert.Equal(t, "run-9", runs["runs"][0].RunID)

	ps := decode[map[string][]domain.PlatformHealth](t, do(t, http.MethodGet, srv.URL+"/platforms", ""))
	assert.Equal(t, 2, ps["platforms"][0].Jobs)
}

func TestConfigPutValidatesAndSaves(t *testing.T) {
	srv, d := newTestServer(t, &fakeAgg{})

	bad := config.Default()
	bad.Cache.Backend = "memcached"
	b, _ := json.Marshal(bad)
	resp := do(t, http.MethodPut, srv.URL+"/config", string(b))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	vr := decode[config.Validation](t, resp)
	assert.NotEmpty(t, vr.Errors)

	good := config.Default()
	good.Profile.Headline = "Platform Engineer"
	b, _ = json.Marshal(good)
	resp = do(t, http.MethodPut, srv.URL+"/config", string(b))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Platform Engineer", d.config().Profile.Headline)
}

func TestSecrets(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAgg{})

	resp := do(t, http.MethodPut, srv.URL+"/secrets/gemini_api_key", `{"value":"k"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	st := decode[map[string]map[string]bool](t, do(t, http.MethodGet, srv.URL+"/secrets", ""))
	assert.True(t, st["secrets"]["gemini_api_key"])

	resp = do(t, http.MethodPut, srv.URL+"/secrets/bogus", `{"value":"k"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/secrets/gemini_api_key", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/secrets/gemini_api_key", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsStream(t *testing.T) {
	srv, d := newTestServer(t, &fakeAgg{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	readData := func() events.Event {
		for {
			line, err := rd.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				var e events.Event
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e))
				return e
			}
		}
	}

	assert.Equal(t, "ping", readData().Type)
	require.NoError(t, d.Hub.Publish(ctx, events.New("r", events.RunCompleted, map[string]int{"total": 3})))
	assert.Equal(t, events.RunCompleted, readData().Type)
}
