// Package query derives the ranked search strings sent to job sources from a
// user profile.
package query

import (
	"regexp"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/domainmap"
	"jobmatch-engine/internal/geo"
)

const (
	MaxQueries     = 10
	DefaultQuery   = "software developer"
	maxTopSkills   = 5
	maxDesiredLocs = 2
	maxJobTypes    = 2
)

var levelWords = regexp.MustCompile(`(?i)\b(senior|junior|mid|lead|entry|intern)\b`)

// LevelKeyword maps years of experience to a seniority prefix. Mid-level
// (3 to 5 years) gets none.
func LevelKeyword(years float64) string {
	switch {
	case years <= 2:
		return "junior"
	case years <= 5:
		return ""
	case years <= 10:
		return "senior"
	case years <= 15:
		return "lead"
	default:
		return "director"
	}
}

// Build returns at most ten distinct queries, most specific first. Index 0 is
// the primary query every source receives.
func Build(p domain.UserProfile) []string {
	var qs []string
	push := func(s string) { qs = append(qs, s) }

	level := LevelKeyword(p.ExperienceYears)
	top := p.Skills
	if len(top) > maxTopSkills {
		top = top[:maxTopSkills]
	}
	roles := domainmap.ExpandedRoles(domainmap.Resolve(p.Headline, p.Skills))
	home, hasHome := geo.Parse(p.Location)

	if p.Headline != "" {
		push(p.Headline)
		if level != "" {
			if cleaned := strings.TrimSpace(levelWords.ReplaceAllString(p.Headline, "")); cleaned != "" {
				push(level + " " + cleaned)
			}
		}
	}

	if len(top) >= 2 {
		push(strings.Join(top[:min(3, len(top))], " "))
	}

	if len(roles) > 0 {
		push(roles[0])
	}
	if len(roles) > 1 {
		if level != "" {
			push(level + " " + roles[1])
		} else {
			push(roles[1])
		}
	}

	anchor := p.Headline
	if anchor == "" && len(roles) > 0 {
		anchor = roles[0]
	}
	if anchor == "" {
		anchor = strings.Join(top[:min(2, len(top))], " ")
	}

	if anchor != "" && hasHome {
		if home.Country != "" {
			push(anchor + " " + home.Country)
		}
		if home.City != "" && home.City != home.Country {
			push(anchor + " " + home.City)
		}
	}

	desired := p.DesiredLocations
	if len(desired) > maxDesiredLocs {
		desired = desired[:maxDesiredLocs]
	}
	for _, loc := range desired {
		if loc == "" || anchor == "" {
			continue
		}
		ll := strings.ToLower(loc)
		if hasHome && (ll == home.City || ll == home.Country) {
			continue
		}
		push(anchor + " " + loc)
	}

	typeAnchor := ""
	if len(top) > 0 {
		typeAnchor = top[0]
	} else if len(roles) > 0 {
		typeAnchor = roles[0]
	}
	if typeAnchor != "" {
		types := p.DesiredJobTypes
		if len(types) > maxJobTypes {
			types = types[:maxJobTypes]
		}
		for _, jt := range types {
			switch jt {
			case domain.JobTypeRemote:
				push("remote " + typeAnchor)
			case domain.JobTypeInternship:
				push(typeAnchor + " internship")
			}
		}
	}

	if len(qs) == 0 {
		if len(roles) > 0 {
			push(roles[0])
		} else {
			push(DefaultQuery)
		}
	}

	return dedupe(qs, MaxQueries)
}

func dedupe(in []string, limit int) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, q := range in {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out
}
