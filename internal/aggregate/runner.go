package aggregate

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/retry"
	"jobmatch-engine/internal/telemetry"
)

type outcome struct {
	task     Task
	jobs     []domain.RawJob
	err      error
	duration time.Duration
}

// runAll executes every task and waits for all of them. Tasks never cancel
// each other; a failed task settles as an outcome carrying its error.
func (a *Aggregator) runAll(ctx context.Context, tasks []Task) []outcome {
	out := make([]outcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			out[i] = a.runTask(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (a *Aggregator) runTask(ctx context.Context, t Task) (o outcome) {
	o.task = t
	start := time.Now()
	log := a.log.With(zap.String("platform", t.Platform()), zap.String("query", t.Query), zap.String("location", t.Location))

	ctx, span := tracer.Start(ctx, "aggregate.task", trace.WithAttributes(
		telemetry.String("platform", t.Platform()),
		telemetry.String("query", t.Query),
		telemetry.String("location", t.Location),
	))
	defer func() {
		o.duration = time.Since(start)
		if o.err != nil {
			span.RecordError(o.err)
			span.SetStatus(codes.Error, o.err.Error())
			log.Warn("task failed", zap.Error(o.err), zap.Duration("took", o.duration))
		} else {
			span.SetAttributes(telemetry.Int("jobs", len(o.jobs)))
			log.Debug("task done", zap.Int("jobs", len(o.jobs)), zap.Duration("took", o.duration))
		}
		span.End()
	}()

	o.jobs, o.err = retry.Do(ctx, retry.Options{
		MaxAttempts: a.opts.MaxAttempts,
		Delay:       a.opts.RetryDelay,
		Backoff:     retry.Exponential,
		Retryable:   errs.Retryable,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			log.Info("retrying task", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		},
	}, func(ctx context.Context) ([]domain.RawJob, error) {
		return fetch(ctx, t)
	})
	return o
}

// fetch makes one adapter call under the adapter's timeout. A panic inside
// an adapter becomes an INTERNAL error for this task only.
func fetch(ctx context.Context, t Task) (jobs []domain.RawJob, err error) {
	if t.Entry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Entry.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = errs.Internal(fmt.Sprintf("%s panicked: %v", t.Platform(), r), fmt.Errorf("%s", debug.Stack()))
		}
	}()

	jobs, err = t.Entry.Adapter.Fetch(ctx, t.Query, t.Location)
	if err == nil && ctx.Err() != nil && len(jobs) == 0 {
		err = errs.Unavailable(t.Platform()+" timed out", ctx.Err())
	}
	return jobs, err
}
