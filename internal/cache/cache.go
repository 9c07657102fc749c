// Package cache holds what the remote snapshot backends share.
package cache

import (
	"encoding/json"
	"errors"
	"time"

	"jobmatch-engine/internal/domain"
)

// DefaultKey is where the snapshot lives in a shared backend.
const DefaultKey = "jobmatch:snapshot"

const DefaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("cache: not found")

type Options struct {
	URL string
	Key string
	TTL time.Duration
}

func (o Options) WithDefaults() Options {
	if o.Key == "" {
		o.Key = DefaultKey
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return o
}

func Encode(s domain.Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a stored snapshot. Nil slices come back empty.
func Decode(b []byte) (domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Snapshot{}, err
	}
	if s.Jobs == nil {
		s.Jobs = []domain.JobListing{}
	}
	if s.Matches == nil {
		s.Matches = []domain.JobMatch{}
	}
	return s, nil
}

// Empty is what a backend returns when nothing is stored.
func Empty() domain.Snapshot {
	return domain.Snapshot{Jobs: []domain.JobListing{}, Matches: []domain.JobMatch{}}
}
