package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/cache"
	"jobmatch-engine/internal/cache/postgres"
	"jobmatch-engine/internal/cache/redis"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/logging"
	"jobmatch-engine/internal/secrets"
	"jobmatch-engine/internal/sources"
	"jobmatch-engine/internal/sources/boards"
	"jobmatch-engine/internal/sources/emailalert"
	"jobmatch-engine/internal/sources/registry"
	"jobmatch-engine/internal/store"
)

const httpTimeout = 30 * time.Second

// bootstrap is what every command starts from.
type bootstrap struct {
	Cfg     config.Config
	CfgPath string
	DataDir string
}

func loadBootstrap() (bootstrap, error) {
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = config.DataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return bootstrap{}, err
	}

	path := flagConfig
	if path == "" {
		p, err := config.EnsureUserConfig(dataDir)
		if err != nil {
			return bootstrap{}, fmt.Errorf("config bootstrap failed: %w", err)
		}
		path = p
	}
	config.LoadDotEnv(filepath.Join(dataDir, ".env"))

	cfg, err := loadConfig(path)
	if err != nil {
		return bootstrap{}, err
	}
	if cfg.App.DataDir != "" {
		dataDir = cfg.App.DataDir
	}
	return bootstrap{Cfg: cfg, CfgPath: path, DataDir: dataDir}, nil
}

// loadConfig reads path, applies the environment and validates.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	config.OverlayEnv(&cfg)
	cfg, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		return cfg, fmt.Errorf("invalid config %s: %v", path, v.Errors)
	}
	return cfg, nil
}

func newLogger(b bootstrap) (*zap.Logger, error) {
	return logging.New(b.Cfg.App.LogLevel, b.Cfg.App.Dev)
}

func openDB(b bootstrap) (*store.DB, error) {
	return store.Open(filepath.Join(b.DataDir, "jobmatch.db"))
}

// snapshotStore picks the configured backend. SQLite needs nothing extra;
// the shared backends return a closer.
func snapshotStore(ctx context.Context, cfg config.Config, db *store.DB) (aggregate.SnapshotStore, func() error, error) {
	opts := cache.Options{TTL: cfg.Cache.TTL}
	switch cfg.Cache.Backend {
	case "redis":
		opts.URL = cfg.Cache.RedisURL
		c, err := redis.New(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case "postgres":
		opts.URL = cfg.Cache.PostgresURL
		c, err := postgres.New(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return db, func() error { return nil }, nil
	}
}

// newBuilder returns the registry builder for one run. Config is read at
// build time so edits through the API apply to the next run.
func newBuilder(cfgVal *atomic.Value, log *zap.Logger) aggregate.Builder {
	var (
		mu     sync.Mutex
		client *sources.Client
		rps    float64
		burst  int
	)
	// the client, and with it the per-host limiters, survives across runs
	// until the rate settings change
	clientFor := func(cfg config.Config) *sources.Client {
		mu.Lock()
		defer mu.Unlock()
		if client == nil || rps != cfg.Sources.RequestsPerSecond || burst != cfg.Sources.Burst {
			rps, burst = cfg.Sources.RequestsPerSecond, cfg.Sources.Burst
			var lim *sources.HostLimiter
			if rps > 0 {
				lim = sources.NewHostLimiter(rps, burst)
			}
			client = sources.NewClient(httpTimeout, lim)
		}
		return client
	}

	return func(settings domain.AppSettings) []registry.Entry {
		cfg := cfgVal.Load().(config.Config)

		opts := registry.Options{
			Client:   clientFor(cfg),
			Settings: settings,
			Disabled: cfg.Sources.Disabled,
			Timeouts: cfg.Sources.Timeouts,
			Boards:   boardsConfig(cfg.Sources.Boards),
			Log:      log,
		}
		if cfg.Sources.Browser.Enabled {
			opts.Renderer = sources.ChromeRenderer{Timeout: cfg.Sources.Browser.Timeout}
		}
		if ec := emailConfig(cfg.Email, log); ec != nil {
			opts.Email = ec
		}
		return registry.Build(opts)
	}
}

func boardsConfig(b config.Boards) boards.Config {
	conv := func(in []config.Board) []boards.Company {
		out := make([]boards.Company, 0, len(in))
		for _, x := range in {
			out = append(out, boards.Company{Slug: x.Slug, Name: x.Name})
		}
		return out
	}
	return boards.Config{Greenhouse: conv(b.Greenhouse), Lever: conv(b.Lever)}
}

func emailConfig(e config.Email, log *zap.Logger) *emailalert.Config {
	if !e.Enabled {
		return nil
	}
	pw := secrets.Get(secrets.IMAPPassword)
	if pw == "" {
		log.Warn("email source enabled but no IMAP password is set", zap.String("secret", secrets.IMAPPassword))
		return nil
	}
	addr := net.JoinHostPort(e.IMAPHost, strconv.Itoa(e.IMAPPort))
	return &emailalert.Config{
		Dial:       emailalert.IMAPDialer(addr, e.Username, pw, e.Mailbox, log),
		SubjectAny: e.SearchSubjectAny,
		MaxEmails:  e.MaxEmails,
		MarkSeen:   e.MarkSeen,
	}
}

func aggregatorOptions(cfg config.Config) aggregate.Options {
	a := cfg.Aggregation
	return aggregate.Options{
		MaxTasks:        a.MaxTasks,
		MaxAttempts:     a.MaxAttempts,
		RetryDelay:      a.RetryDelay,
		Concurrency:     a.Concurrency,
		FreshnessDays:   a.FreshnessDays,
		RefreshCooldown: a.RefreshCooldown,
	}
}

// settings merges stored credentials with the last refresh time.
func settings(agg *aggregate.Aggregator) domain.AppSettings {
	s := secrets.Settings()
	if st := agg.Status(); st.Last != nil {
		t := st.Last.FinishedAt
		s.LastJobRefresh = &t
	}
	return s
}

func newCfgVal(cfg config.Config) *atomic.Value {
	var v atomic.Value
	v.Store(cfg)
	return &v
}
