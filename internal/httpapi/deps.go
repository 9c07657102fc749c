package httpapi

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/store"
)

// Aggregator is the slice of *aggregate.Aggregator the API drives.
type Aggregator interface {
	Aggregate(ctx context.Context, p domain.UserProfile, s domain.AppSettings) (aggregate.Result, error)
	Refresh(ctx context.Context, p domain.UserProfile, s domain.AppSettings) (aggregate.Result, error)
	Cached(ctx context.Context) (domain.Snapshot, error)
	Status() aggregate.Status
	History(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Platforms(ctx context.Context) ([]domain.PlatformHealth, error)
}

// JobLister serves filtered listings. Only the SQLite store implements it;
// without one /jobs filters the cached snapshot in memory.
type JobLister interface {
	ListJobs(ctx context.Context, opts store.ListJobsOpts) ([]domain.JobListing, []domain.JobMatch, error)
}

// SecretStore is the secrets package behind an interface for tests.
type SecretStore interface {
	Set(name, value string) error
	Delete(name string) error
	Status() map[string]bool
}

type Deps struct {
	Agg     Aggregator
	Lister  JobLister // optional
	Hub     *events.Hub
	Secrets SecretStore

	// CfgVal stores config.Config.
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Settings resolves credentials at request time.
	Settings func() domain.AppSettings

	Log *zap.Logger
}

func (d Deps) config() config.Config {
	return d.CfgVal.Load().(config.Config)
}
