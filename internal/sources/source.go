// Package sources holds the adapter contract shared by every job source and
// the plumbing adapters are built from: an HTTP client with per-host rate
// limiting, challenge-page detection, strategy chains and field heuristics.
package sources

import (
	"context"

	"jobmatch-engine/internal/domain"
)

// Adapter fetches postings from one upstream source.
//
// Expected failures (empty results, challenge pages, HTML drift) come back
// as an empty slice. Transport failures on API sources come back as an
// errs.Unavailable error so the caller can retry the whole call.
type Adapter interface {
	Name() string
	RequiresAPIKey() bool
	Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error)
}

// Platform names as they appear on listings and in stats.
const (
	Indeed       = "indeed"
	LinkedIn     = "linkedin"
	CareerJet    = "careerjet"
	Remotive     = "remotive"
	RemoteOK     = "remoteok"
	Arbeitnow    = "arbeitnow"
	Jobicy       = "jobicy"
	JoinRise     = "joinrise"
	Himalayas    = "himalayas"
	TheMuse      = "themuse"
	JSearch      = "jsearch"
	Jooble       = "jooble"
	SearchAPI    = "searchapi"
	Adzuna       = "adzuna"
	GeminiSearch = "gemini_search"
	EmailAlert   = "email_alert"

	// CompanyBoards covers the Greenhouse and Lever boards listed in config.
	CompanyBoards = "company_boards"
)
