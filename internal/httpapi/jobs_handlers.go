package httpapi

import (
	"net/http"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/match"
	"jobmatch-engine/internal/store"
)

type JobsHandler struct {
	Agg    Aggregator
	Lister JobLister
}

type jobsResponse struct {
	Jobs      []domain.JobListing `json:"jobs"`
	Matches   []domain.JobMatch   `json:"matches"`
	RunID     string              `json:"run_id,omitempty"`
	FetchedAt *time.Time          `json:"fetched_at,omitempty"`
}

// List serves stored listings: ?sort=rank|score|date|company|title
// &window=24h|7d|30d|all &platform= &locality= &limit=.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListJobsOpts{
		Sort:     q.Get("sort"),
		Window:   q.Get("window"),
		Platform: strings.ToLower(q.Get("platform")),
		Locality: strings.ToLower(q.Get("locality")),
		Limit:    intParam(r, "limit", 0, 5000),
	}

	if h.Lister != nil {
		jobs, matches, err := h.Lister.ListJobs(r.Context(), opts)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, jobsResponse{Jobs: jobs, Matches: matches})
		return
	}

	s, err := h.Agg.Cached(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	jobs, matches := filterSnapshot(s, opts, time.Now())
	WriteJSON(w, http.StatusOK, jobsResponse{Jobs: jobs, Matches: matches})
}

// Cached returns the last stored aggregation untouched.
func (h JobsHandler) Cached(w http.ResponseWriter, r *http.Request) {
	s, err := h.Agg.Cached(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	resp := jobsResponse{Jobs: s.Jobs, Matches: s.Matches, RunID: s.RunID}
	if !s.FetchedAt.IsZero() {
		resp.FetchedAt = &s.FetchedAt
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Grouped returns job ids bucketed by locality tier.
func (h JobsHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	s, err := h.Agg.Cached(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	groups := match.GroupByLocality(s.Matches)
	if groups == nil {
		groups = []match.Group{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// filterSnapshot applies ListJobsOpts in memory for backends without SQL.
// Only the rank order is supported here.
func filterSnapshot(s domain.Snapshot, o store.ListJobsOpts, now time.Time) ([]domain.JobListing, []domain.JobMatch) {
	var window time.Duration
	switch o.Window {
	case "24h":
		window = 24 * time.Hour
	case "7d":
		window = 7 * 24 * time.Hour
	case "30d":
		window = 30 * 24 * time.Hour
	}

	jobs := []domain.JobListing{}
	matches := []domain.JobMatch{}
	for i, j := range s.Jobs {
		m := s.Matches[i]
		if window > 0 && j.PostedAt.Before(now.Add(-window)) {
			continue
		}
		if o.Platform != "" && j.SourcePlatform != o.Platform {
			continue
		}
		if o.Locality != "" && string(m.Locality) != o.Locality {
			continue
		}
		jobs = append(jobs, j)
		matches = append(matches, m)
		if o.Limit > 0 && len(jobs) == o.Limit {
			break
		}
	}
	return jobs, matches
}
