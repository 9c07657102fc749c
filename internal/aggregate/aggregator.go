// Package aggregate runs one aggregation: plan the adapter calls, run them
// all under a bounded executor, then normalize, deduplicate, score and
// persist what came back.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"jobmatch-engine/internal/dedup"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/domainmap"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/geo"
	"jobmatch-engine/internal/match"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/query"
	"jobmatch-engine/internal/sources/registry"
	"jobmatch-engine/internal/telemetry"
)

var tracer = telemetry.Tracer("jobmatch-engine/aggregate")

// SnapshotStore persists the last run's listings and matches.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s domain.Snapshot) error
	// LoadSnapshot returns an empty snapshot, not an error, when nothing
	// has been stored.
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// RunLog keeps aggregation history.
type RunLog interface {
	RecordRun(ctx context.Context, r domain.RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// Builder returns the adapters for a run.
type Builder func(settings domain.AppSettings) []registry.Entry

type Options struct {
	MaxTasks        int
	MaxAttempts     int
	RetryDelay      time.Duration
	Concurrency     int
	FreshnessDays   int
	RefreshCooldown time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxTasks:        50,
		MaxAttempts:     2,
		RetryDelay:      1500 * time.Millisecond,
		Concurrency:     12,
		FreshnessDays:   60,
		RefreshCooldown: 5 * time.Minute,
	}
}

type Stats struct {
	Total     int           `json:"total"`
	Unique    int           `json:"unique"`
	Platforms []string      `json:"platforms"`
	Failed    int           `json:"failed"`
	Tasks     int           `json:"tasks"`
	Queries   []string      `json:"queries"`
	Locations []string      `json:"locations"`
	RunID     string        `json:"run_id"`
	Duration  time.Duration `json:"duration_ns"`
}

type Result struct {
	Jobs    []domain.JobListing `json:"jobs"`
	Matches []domain.JobMatch   `json:"matches"`
	Stats   Stats               `json:"stats"`
}

// Status is what the API reports about the aggregator.
type Status struct {
	Running bool              `json:"running"`
	RunID   string            `json:"run_id,omitempty"`
	Last    *domain.RunRecord `json:"last,omitempty"`
}

// CooldownError is wrapped in a RATE_LIMIT error when a refresh comes too
// soon after the previous one.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("refresh cooldown: retry after %s", e.RetryAfter.Round(time.Second))
}

type Aggregator struct {
	opts  Options
	build Builder
	store SnapshotStore
	runs  RunLog
	pub   events.Publisher
	log   *zap.Logger
	now   func() time.Time

	mu      sync.Mutex
	running string
	last    *domain.RunRecord
}

type Deps struct {
	Options   Options
	Build     Builder
	Store     SnapshotStore
	Runs      RunLog           // optional
	Publisher events.Publisher // optional
	Log       *zap.Logger
	Now       func() time.Time
}

func New(d Deps) *Aggregator {
	def := DefaultOptions()
	o := d.Options
	if o.MaxTasks <= 0 {
		o.MaxTasks = def.MaxTasks
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.Concurrency <= 0 {
		o.Concurrency = def.Concurrency
	}
	if o.FreshnessDays <= 0 {
		o.FreshnessDays = def.FreshnessDays
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Aggregator{
		opts:  o,
		build: d.Build,
		store: d.Store,
		runs:  d.Runs,
		pub:   d.Publisher,
		log:   d.Log.Named("aggregate"),
		now:   d.Now,
	}
}

// Aggregate fetches from every adapter, merges the results and replaces the
// stored snapshot. It ignores the refresh cooldown but fails with a CONFLICT
// error while another run is in flight. Adapter failures never fail the run;
// only a failed snapshot write does, and the computed result is returned
// alongside it.
func (a *Aggregator) Aggregate(ctx context.Context, profile domain.UserProfile, settings domain.AppSettings) (Result, error) {
	if err := a.claim(ctx, false); err != nil {
		return Result{}, err
	}
	return a.run(ctx, profile, settings)
}

// Refresh is Aggregate behind the cooldown, which fails with a RATE_LIMIT
// error wrapping *CooldownError.
func (a *Aggregator) Refresh(ctx context.Context, profile domain.UserProfile, settings domain.AppSettings) (Result, error) {
	if err := a.claim(ctx, true); err != nil {
		return Result{}, err
	}
	return a.run(ctx, profile, settings)
}

// run executes one aggregation; the caller holds the run slot.
func (a *Aggregator) run(ctx context.Context, profile domain.UserProfile, settings domain.AppSettings) (Result, error) {
	runID := uuid.NewString()
	start := a.now()
	log := a.log.With(zap.String("run_id", runID))

	ctx, span := tracer.Start(ctx, "aggregate.run")
	defer span.End()
	span.SetAttributes(telemetry.String("run_id", runID))

	a.setRunning(runID)
	defer a.setRunning("")
	a.publish(ctx, runID, events.RunStarted, map[string]any{"run_id": runID})

	domains := domainmap.Resolve(profile.Headline, profile.Skills)
	keywords := domainmap.Keywords(domains)
	queries := query.Build(profile)
	locations := Locations(profile)
	homeCountry := ""
	if home, ok := geo.Parse(profile.Location); ok {
		homeCountry = home.Country
	}

	entries := a.build(settings)
	tasks := Plan(entries, queries, locations, homeCountry, a.opts.MaxTasks)
	log.Info("run planned",
		zap.Int("adapters", len(entries)),
		zap.Int("tasks", len(tasks)),
		zap.Strings("queries", queries),
		zap.Strings("locations", locations))

	outcomes := a.runAll(ctx, tasks)
	now := a.now()

	var (
		all       []domain.JobListing
		failed    int
		platforms []string
		seen      = map[string]bool{}
		health    = map[string]*domain.PlatformHealth{}
		order     []string
	)
	for _, o := range outcomes {
		name := o.task.Platform()
		h, ok := health[name]
		if !ok {
			h = &domain.PlatformHealth{Platform: name, LastRunAt: now}
			health[name] = h
			order = append(order, name)
		}
		h.Tasks++

		if o.err != nil {
			failed++
			h.Failed++
			h.LastError = o.err.Error()
			continue
		}
		h.Succeeded++
		if len(o.jobs) == 0 {
			continue
		}
		if !seen[name] {
			seen[name] = true
			platforms = append(platforms, name)
		}
		for _, raw := range o.jobs {
			j, err := normalize.Normalize(raw, now)
			if err != nil {
				log.Debug("dropping record", zap.String("platform", name), zap.Error(err))
				continue
			}
			all = append(all, j)
			h.Jobs++
		}
	}

	unique := dedup.DeduplicateWithin(all, now, time.Duration(a.opts.FreshnessDays)*24*time.Hour)
	jobs, matches := match.NewScorer(profile, keywords).Rank(unique)

	stats := Stats{
		Total:     len(all),
		Unique:    len(unique),
		Platforms: nonNil(platforms),
		Failed:    failed,
		Tasks:     len(tasks),
		Queries:   queries,
		Locations: locations,
		RunID:     runID,
		Duration:  a.now().Sub(start),
	}
	span.SetAttributes(
		telemetry.Int("tasks", stats.Tasks),
		telemetry.Int("total", stats.Total),
		telemetry.Int("unique", stats.Unique),
		telemetry.Int("failed", stats.Failed),
	)
	log.Info("run finished",
		zap.Int("total", stats.Total),
		zap.Int("unique", stats.Unique),
		zap.Int("failed", stats.Failed),
		zap.Strings("platforms", stats.Platforms),
		zap.Duration("took", stats.Duration))

	res := Result{Jobs: jobs, Matches: matches, Stats: stats}

	snap := domain.Snapshot{RunID: runID, FetchedAt: now, Jobs: jobs, Matches: matches}
	for _, name := range order {
		snap.Platforms = append(snap.Platforms, *health[name])
	}

	rec := domain.RunRecord{
		RunID:      runID,
		StartedAt:  start,
		FinishedAt: a.now(),
		Total:      stats.Total,
		Unique:     stats.Unique,
		Failed:     stats.Failed,
		Platforms:  stats.Platforms,
	}

	if err := a.store.SaveSnapshot(ctx, snap); err != nil {
		err = errs.Internal("saving snapshot", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "saving snapshot")
		rec.Error = err.Error()
		a.record(ctx, rec)
		a.publish(ctx, runID, events.RunFailed, map[string]any{"run_id": runID, "error": err.Error()})
		return res, err
	}

	a.record(ctx, rec)
	a.publish(ctx, runID, events.RunCompleted, stats)
	return res, nil
}

// Cached returns the stored snapshot without fetching anything.
func (a *Aggregator) Cached(ctx context.Context) (domain.Snapshot, error) {
	s, err := a.store.LoadSnapshot(ctx)
	if err != nil {
		return domain.Snapshot{}, errs.Internal("loading snapshot", err)
	}
	if s.Jobs == nil {
		s.Jobs = []domain.JobListing{}
	}
	if s.Matches == nil {
		s.Matches = []domain.JobMatch{}
	}
	return s, nil
}

// checkCooldown fails with a RATE_LIMIT error wrapping *CooldownError when
// the last stored run finished less than the cooldown ago.
func (a *Aggregator) checkCooldown(ctx context.Context) error {
	if a.opts.RefreshCooldown <= 0 {
		return nil
	}
	s, err := a.store.LoadSnapshot(ctx)
	if err != nil || s.FetchedAt.IsZero() {
		return nil
	}
	if elapsed := a.now().Sub(s.FetchedAt); elapsed < a.opts.RefreshCooldown {
		return errs.RateLimit("refreshed too recently", &CooldownError{RetryAfter: a.opts.RefreshCooldown - elapsed})
	}
	return nil
}

// RetryAfter extracts the wait from a cooldown rejection.
func RetryAfter(err error) (time.Duration, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce.RetryAfter, true
	}
	return 0, false
}

func (a *Aggregator) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{Running: a.running != "", RunID: a.running, Last: a.last}
}

// History returns recent runs, newest first, when a run log is configured.
func (a *Aggregator) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if a.runs == nil {
		return []domain.RunRecord{}, nil
	}
	return a.runs.RecentRuns(ctx, limit)
}

// Platforms returns per-platform health from the stored snapshot, sorted by
// name.
func (a *Aggregator) Platforms(ctx context.Context) ([]domain.PlatformHealth, error) {
	s, err := a.Cached(ctx)
	if err != nil {
		return nil, err
	}
	out := append([]domain.PlatformHealth{}, s.Platforms...)
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

// claim takes the single run slot, marking it pending until the run gets its
// id. With cooldown set the cooldown is checked under the same lock, so two
// callers cannot both pass it.
func (a *Aggregator) claim(ctx context.Context, cooldown bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running != "" {
		return errs.Conflict("an aggregation is already running", nil)
	}
	if cooldown {
		if err := a.checkCooldown(ctx); err != nil {
			return err
		}
	}
	a.running = "pending"
	return nil
}

func (a *Aggregator) setRunning(id string) {
	a.mu.Lock()
	a.running = id
	a.mu.Unlock()
}

func (a *Aggregator) record(ctx context.Context, r domain.RunRecord) {
	a.mu.Lock()
	a.last = &r
	a.mu.Unlock()
	if a.runs == nil {
		return
	}
	if err := a.runs.RecordRun(ctx, r); err != nil {
		a.log.Warn("recording run", zap.String("run_id", r.RunID), zap.Error(err))
	}
}

func (a *Aggregator) publish(ctx context.Context, runID, typ string, data any) {
	if a.pub == nil {
		return
	}
	if err := a.pub.Publish(ctx, events.New(runID, typ, data)); err != nil {
		a.log.Warn("publishing event", zap.String("type", typ), zap.Error(err))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
