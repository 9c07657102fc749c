// Package normalize turns adapter output into canonical JobListings.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
)

const (
	MaxDescriptionRunes = 5000
	DefaultCurrency     = "USD"
	minPostedYear       = 2020
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseTimestamp accepts the date shapes job sources actually send: ISO 8601
// variants, RFC 1123 (RSS), long-form dates, and unix epochs in seconds or
// milliseconds.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		if n >= 1_000_000_000_000 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// PostedAt returns the parsed posting time when it is plausible (year 2020 or
// later, no more than a day ahead of now); otherwise now.
func PostedAt(raw string, now time.Time) time.Time {
	t, ok := ParseTimestamp(raw)
	if !ok || t.Year() < minPostedYear || t.After(now.Add(24*time.Hour)) {
		return now
	}
	return t.UTC()
}

// Normalize builds the canonical listing for raw. It fails only when the
// record cannot be identified at all (no platform, or no external id and no
// title to derive one from).
func Normalize(raw domain.RawJob, now time.Time) (domain.JobListing, error) {
	platform := strings.TrimSpace(raw.SourcePlatform)
	if platform == "" {
		return domain.JobListing{}, errs.InvalidInput("job has no source platform", nil)
	}

	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.CompanyName)

	externalID := strings.TrimSpace(raw.ExternalID)
	if externalID == "" {
		if title == "" {
			return domain.JobListing{}, errs.InvalidInput("job has neither external id nor title", nil)
		}
		externalID = "fallback-" + DJB2Base36(title+"|"+company+"|"+raw.Location)
	}

	currency := strings.TrimSpace(raw.SalaryCurrency)
	if currency == "" {
		currency = DefaultCurrency
	}

	meta := raw.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	return domain.JobListing{
		ID:              DeriveID(platform, externalID),
		Title:           title,
		CompanyName:     company,
		CompanyLogoURL:  optional(raw.CompanyLogoURL),
		Description:     truncateRunes(raw.Description, MaxDescriptionRunes),
		Requirements:    nonNil(raw.Requirements),
		SkillsRequired:  uniqueSkills(raw.Skills),
		Location:        optional(raw.Location),
		IsRemote:        raw.IsRemote,
		SalaryMin:       positive(raw.SalaryMin),
		SalaryMax:       positive(raw.SalaryMax),
		SalaryCurrency:  currency,
		JobType:         domain.ParseJobType(raw.JobType),
		ExperienceLevel: domain.ParseExperienceLevel(raw.ExperienceLevel),
		SourcePlatform:  platform,
		SourceURL:       optional(raw.SourceURL),
		ExternalID:      externalID,
		IsActive:        true,
		PostedAt:        PostedAt(raw.PostedAt, now),
		Metadata:        meta,
		CreatedAt:       now,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func uniqueSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
