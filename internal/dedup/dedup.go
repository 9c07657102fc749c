// Package dedup drops stale listings and listings already seen in the same
// run, either from the same source or re-posted by another one.
package dedup

import (
	"regexp"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
)

// MaxAge is the freshness window. Anything older is dropped outright.
const MaxAge = 60 * 24 * time.Hour

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

func IsFresh(postedAt, now time.Time) bool {
	return isFresh(postedAt, now, MaxAge)
}

func isFresh(postedAt, now time.Time, maxAge time.Duration) bool {
	if postedAt.IsZero() {
		return false
	}
	return now.Sub(postedAt) <= maxAge
}

// SourceKey identifies a posting within one upstream source.
func SourceKey(j domain.JobListing) string {
	return j.SourcePlatform + ":" + j.ExternalID
}

// TitleCompanyKey identifies a posting across sources: lowercase title and
// company with everything but [a-z0-9] removed.
func TitleCompanyKey(j domain.JobListing) string {
	t := nonAlnum.ReplaceAllString(strings.ToLower(j.Title), "")
	c := nonAlnum.ReplaceAllString(strings.ToLower(j.CompanyName), "")
	return t + "::" + c
}

// Deduplicate keeps the first occurrence of every posting, in input order.
// Checks run freshness, then required fields, then source key, then
// title/company key. Running it on its own output changes nothing.
func Deduplicate(jobs []domain.JobListing, now time.Time) []domain.JobListing {
	return DeduplicateWithin(jobs, now, MaxAge)
}

// DeduplicateWithin is Deduplicate with a custom freshness window.
func DeduplicateWithin(jobs []domain.JobListing, now time.Time, maxAge time.Duration) []domain.JobListing {
	bySource := make(map[string]struct{}, len(jobs))
	byTitle := make(map[string]struct{}, len(jobs))
	out := make([]domain.JobListing, 0, len(jobs))

	for _, j := range jobs {
		if !isFresh(j.PostedAt, now, maxAge) {
			continue
		}
		if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.CompanyName) == "" {
			continue
		}

		sk := SourceKey(j)
		if _, ok := bySource[sk]; ok {
			continue
		}
		bySource[sk] = struct{}{}

		tk := TitleCompanyKey(j)
		if _, ok := byTitle[tk]; ok {
			continue
		}
		byTitle[tk] = struct{}{}

		out = append(out, j)
	}
	return out
}
