package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/domain"
)

type AggregateHandler struct {
	Deps
}

type aggregateRequest struct {
	// Profile overrides the configured profile for this run only.
	Profile *domain.UserProfile `json:"profile,omitempty"`
	// Force skips the refresh cooldown. A run already in flight still wins.
	Force bool `json:"force,omitempty"`
}

type aggregateResponse struct {
	Jobs    []domain.JobListing `json:"jobs"`
	Matches []domain.JobMatch   `json:"matches"`
	Stats   aggregate.Stats     `json:"stats"`
}

// Run aggregates synchronously and returns the fresh result.
func (h AggregateHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := decodeStrict(r, &req, true); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	profile := h.config().Profile
	if req.Profile != nil {
		if err := config.ValidateProfile(*req.Profile); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_profile", err.Error())
			return
		}
		profile = *req.Profile
	}
	settings := domain.AppSettings{}
	if h.Settings != nil {
		settings = h.Settings()
	}

	run := h.Agg.Refresh
	if req.Force {
		run = h.Agg.Aggregate
	}
	res, err := run(r.Context(), profile, settings)
	if err != nil && res.Stats.RunID == "" {
		WriteDomainError(w, r, err)
		return
	}
	if err != nil {
		// the run finished but could not be stored; the result is still good
		h.Log.Warn("aggregate result not persisted", zap.String("run_id", res.Stats.RunID), zap.Error(err))
	}
	WriteJSON(w, http.StatusOK, aggregateResponse{Jobs: res.Jobs, Matches: res.Matches, Stats: res.Stats})
}

func (h AggregateHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Agg.Status())
}

func (h AggregateHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Agg.History(r.Context(), intParam(r, "limit", 20, 500))
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h AggregateHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Agg.Platforms(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"platforms": ps})
}
