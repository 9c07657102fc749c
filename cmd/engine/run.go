package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/events"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Run one aggregation and print the result as JSON",
	Long: `Fetches from every enabled source, normalizes, deduplicates and scores the
postings against the configured profile, then stores the result so "cached"
and the HTTP engine can serve it. The refresh cooldown does not apply.`,
	RunE: runAggregate,
}

var cachedCmd = &cobra.Command{
	Use:   "cached",
	Short: "Print the last stored aggregation as JSON without fetching",
	RunE:  runCached,
}

var (
	flagSummary bool
	flagLimit   int
)

func init() {
	aggregateCmd.Flags().BoolVar(&flagSummary, "summary", false, "Print only the run stats")
	cachedCmd.Flags().IntVar(&flagLimit, "limit", 0, "Print at most this many jobs")
}

// oneShot builds an aggregator over the configured backends for a single
// command. The returned func releases everything.
func oneShot(ctx context.Context) (*aggregate.Aggregator, bootstrap, func(), error) {
	b, err := loadBootstrap()
	if err != nil {
		return nil, bootstrap{}, nil, err
	}
	log, err := newLogger(b)
	if err != nil {
		return nil, bootstrap{}, nil, err
	}
	db, err := openDB(b)
	if err != nil {
		return nil, bootstrap{}, nil, err
	}
	snap, closeSnap, err := snapshotStore(ctx, b.Cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, bootstrap{}, nil, err
	}

	var pub events.Publisher
	var closePub func()
	if b.Cfg.Events.NATSURL != "" {
		np, err := events.NewNATSPublisher(b.Cfg.Events.NATSURL, b.Cfg.Events.Subject, log)
		if err != nil {
			log.Warn("events disabled", zap.Error(err))
		} else {
			pub, closePub = np, np.Close
		}
	}

	agg := aggregate.New(aggregate.Deps{
		Options:   aggregatorOptions(b.Cfg),
		Build:     newBuilder(newCfgVal(b.Cfg), log),
		Store:     snap,
		Runs:      db,
		Publisher: pub,
		Log:       log,
	})
	release := func() {
		if closePub != nil {
			closePub()
		}
		_ = closeSnap()
		_ = db.Close()
		_ = log.Sync()
	}
	return agg, b, release, nil
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	agg, b, release, err := oneShot(ctx)
	if err != nil {
		return err
	}
	defer release()

	res, err := agg.Aggregate(ctx, b.Cfg.Profile, settings(agg))
	if err != nil && res.Stats.RunID == "" {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: result not stored: %v\n", err)
	}
	if flagSummary {
		return printJSON(res.Stats)
	}
	return printJSON(res)
}

func runCached(cmd *cobra.Command, _ []string) error {
	agg, _, release, err := oneShot(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	s, err := agg.Cached(cmd.Context())
	if err != nil {
		return err
	}
	if flagLimit > 0 && len(s.Jobs) > flagLimit {
		s.Jobs, s.Matches = s.Jobs[:flagLimit], s.Matches[:flagLimit]
	}
	return printJSON(s)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
