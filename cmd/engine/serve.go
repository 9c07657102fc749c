package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/httpapi"
	"jobmatch-engine/internal/scheduler"
	"jobmatch-engine/internal/store"
	"jobmatch-engine/internal/telemetry"
)

var version = "dev"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP engine on loopback",
	RunE:  runServe,
}

var flagPort int

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (overrides app.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	b, err := loadBootstrap()
	if err != nil {
		return err
	}
	if flagPort > 0 {
		b.Cfg.App.Port = flagPort
	}

	app := fx.New(
		fx.Supply(b),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newLogger,
			func(b bootstrap) *atomic.Value { return newCfgVal(b.Cfg) },
			provideDB,
			provideSnapshotStore,
			events.NewHub,
			providePublisher,
			provideAggregator,
			provideScheduler,
			provideServer,
		),
		fx.Invoke(
			startTelemetry,
			func(*scheduler.Scheduler) {},
			func(*http.Server) {},
		),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func provideDB(lc fx.Lifecycle, b bootstrap) (*store.DB, error) {
	db, err := openDB(b)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(db.Close))
	return db, nil
}

func provideSnapshotStore(lc fx.Lifecycle, b bootstrap, db *store.DB, log *zap.Logger) (aggregate.SnapshotStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, closeFn, err := snapshotStore(ctx, b.Cfg, db)
	if err != nil {
		return nil, fmt.Errorf("cache backend %s: %w", b.Cfg.Cache.Backend, err)
	}
	log.Info("snapshot store ready", zap.String("backend", b.Cfg.Cache.Backend))
	lc.Append(fx.StopHook(closeFn))
	return s, nil
}

// providePublisher fans run events to SSE clients and, when configured, NATS.
func providePublisher(lc fx.Lifecycle, b bootstrap, hub *events.Hub, log *zap.Logger) (events.Publisher, error) {
	if b.Cfg.Events.NATSURL == "" {
		return hub, nil
	}
	np, err := events.NewNATSPublisher(b.Cfg.Events.NATSURL, b.Cfg.Events.Subject, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(np.Close))
	return events.Fanout{hub, np}, nil
}

func provideAggregator(b bootstrap, cfgVal *atomic.Value, snap aggregate.SnapshotStore, db *store.DB, pub events.Publisher, log *zap.Logger) *aggregate.Aggregator {
	return aggregate.New(aggregate.Deps{
		Options:   aggregatorOptions(b.Cfg),
		Build:     newBuilder(cfgVal, log),
		Store:     snap,
		Runs:      db,
		Publisher: pub,
		Log:       log,
	})
}

func provideScheduler(lc fx.Lifecycle, b bootstrap, cfgVal *atomic.Value, agg *aggregate.Aggregator, db *store.DB, log *zap.Logger) (*scheduler.Scheduler, error) {
	s := scheduler.New(log)
	if !b.Cfg.Schedule.Enabled {
		return s, nil
	}

	err := s.Add(b.Cfg.Schedule.Spec, "aggregate", func(ctx context.Context) error {
		cfg := cfgVal.Load().(config.Config)
		_, err := agg.Refresh(ctx, cfg.Profile, settings(agg))
		if errs.Is(err, errs.ErrTypeRateLimit) || errs.Is(err, errs.ErrTypeConflict) {
			log.Debug("scheduled run skipped", zap.Error(err))
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	err = s.Add("@daily", "prune-runs", func(ctx context.Context) error {
		n, err := db.CleanupOldRuns(ctx, 90*24*time.Hour)
		if n > 0 {
			log.Info("pruned run history", zap.Int64("deleted", n))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start(context.Background(), true)
			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s, nil
}

func provideServer(lc fx.Lifecycle, sd fx.Shutdowner, b bootstrap, cfgVal *atomic.Value, agg *aggregate.Aggregator, db *store.DB, hub *events.Hub, log *zap.Logger) (*http.Server, error) {
	var lister httpapi.JobLister
	if b.Cfg.Cache.Backend == "sqlite" {
		lister = db
	}

	deps := httpapi.Deps{
		Agg:         agg,
		Lister:      lister,
		Hub:         hub,
		Secrets:     httpapi.KeyringSecrets{},
		CfgVal:      cfgVal,
		UserCfgPath: b.CfgPath,
		LoadCfg:     func() (config.Config, error) { return loadConfig(b.CfgPath) },
		Settings:    func() domain.AppSettings { return settings(agg) },
		Log:         log,
	}

	token, err := randomToken(32)
	if err != nil {
		return nil, err
	}
	mux := httpapi.NewMux(deps)
	mux.HandleFunc("/shutdown", httpapi.ShutdownHandler(token, func() {
		_ = sd.Shutdown()
	}))

	log = log.Named("http")
	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.Trace, httpapi.RequestID, httpapi.Recover(log), httpapi.AccessLog(log), httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Bind to a predictable local port
	addr := fmt.Sprintf("127.0.0.1:%d", b.Cfg.App.Port)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			log.Info("engine listening", zap.String("addr", "http://"+addr), zap.String("config", b.CfgPath))
			// the desktop shell reads this line to learn the shutdown token
			fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv, nil
}

func startTelemetry(lc fx.Lifecycle, b bootstrap, log *zap.Logger) error {
	shutdown, err := telemetry.Init(context.Background(), telemetry.Options{
		ServiceName: b.Cfg.Telemetry.ServiceName,
		Endpoint:    b.Cfg.Telemetry.OTLPEndpoint,
		Insecure:    b.Cfg.Telemetry.Insecure,
		Version:     version,
	}, log)
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(shutdown))
	return nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
