package domain

import "time"

// Snapshot is the persisted result of the last successful aggregation. Jobs
// and Matches are replaced together; Matches[i] scores Jobs[i].
type Snapshot struct {
	RunID     string           `json:"run_id"`
	FetchedAt time.Time        `json:"fetched_at"`
	Jobs      []JobListing     `json:"jobs"`
	Matches   []JobMatch       `json:"matches"`
	Platforms []PlatformHealth `json:"platforms"`
}

// Empty reports whether nothing has been stored yet.
func (s Snapshot) Empty() bool { return s.RunID == "" && len(s.Jobs) == 0 }

// PlatformHealth summarizes how one adapter fared in a run.
type PlatformHealth struct {
	Platform  string    `json:"platform"`
	Tasks     int       `json:"tasks"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Jobs      int       `json:"jobs"`
	LastError string    `json:"last_error,omitempty"`
	LastRunAt time.Time `json:"last_run_at"`
}

// RunRecord is one row of aggregation history.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Unique     int       `json:"unique"`
	Failed     int       `json:"failed"`
	Platforms  []string  `json:"platforms"`
	Error      string    `json:"error,omitempty"`
}
