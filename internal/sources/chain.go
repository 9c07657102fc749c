package sources

import (
	"context"

	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
)

// Strategy is one way of extracting postings from a source.
type Strategy struct {
	Name string
	Run  func(ctx context.Context) ([]domain.RawJob, error)
}

// RunChain tries strategies in order and returns the first non-empty result.
// Errors and empty results are logged and fall through to the next strategy;
// when every strategy comes up empty the result is nil.
func RunChain(ctx context.Context, log *zap.Logger, strategies ...Strategy) []domain.RawJob {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return nil
		}
		jobs, err := s.Run(ctx)
		if err != nil {
			log.Warn("strategy failed", zap.String("strategy", s.Name), zap.Error(err))
			continue
		}
		if len(jobs) == 0 {
			log.Debug("strategy empty", zap.String("strategy", s.Name))
			continue
		}
		log.Debug("strategy ok", zap.String("strategy", s.Name), zap.Int("jobs", len(jobs)))
		return jobs
	}
	log.Warn("no strategy produced jobs")
	return nil
}
