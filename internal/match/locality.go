package match

import (
	"regexp"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/geo"
)

// genericRemote matches location strings that carry no geography at all.
var genericRemote = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^remote$`),
	regexp.MustCompile(`(?i)^remote\s*[\-/]\s*remote$`),
	regexp.MustCompile(`(?i)^anywhere$`),
	regexp.MustCompile(`(?i)^worldwide$`),
	regexp.MustCompile(`(?i)^global$`),
	regexp.MustCompile(`(?i)^work\s*from\s*home$`),
	regexp.MustCompile(`(?i)^remote\s*\(remote\)$`),
	regexp.MustCompile(`(?i)^remote\s*[\-/]\s*anywhere$`),
}

func isGenericRemote(loc string) bool {
	for _, re := range genericRemote {
		if re.MatchString(loc) {
			return true
		}
	}
	return false
}

// ClassifyLocality places a job relative to the user: city, national, remote,
// international or unknown. A geographic match always beats the remote flag,
// so a remote role pinned to the user's own city is still "city".
func ClassifyLocality(home string, desired []string, jobLocation string, isRemote bool) domain.Locality {
	loc := strings.TrimSpace(jobLocation)
	if loc == "" {
		if isRemote {
			return domain.LocalityRemote
		}
		return domain.LocalityUnknown
	}
	if isGenericRemote(loc) {
		return domain.LocalityRemote
	}

	job := strings.ToLower(loc)
	hp, hasHome := geo.Parse(home)

	wanted := make([]geo.Place, 0, len(desired))
	for _, d := range desired {
		if p, ok := geo.Parse(d); ok {
			wanted = append(wanted, p)
		}
	}

	if hasHome && geo.Contains(job, hp.City) {
		return domain.LocalityCity
	}
	for _, p := range wanted {
		if geo.Contains(job, p.City) {
			return domain.LocalityCity
		}
	}

	if hasHome && geo.Contains(job, hp.Country) {
		return domain.LocalityNational
	}
	for _, p := range wanted {
		if geo.Contains(job, p.Country) {
			return domain.LocalityNational
		}
	}
	if hasHome {
		for _, part := range hp.Parts[1:] {
			if geo.Contains(job, part) {
				return domain.LocalityNational
			}
		}
	}

	if isRemote {
		return domain.LocalityRemote
	}
	return domain.LocalityInternational
}

var localityLabels = map[domain.Locality]string{
	domain.LocalityCity:          "In Your City",
	domain.LocalityNational:      "In Your Country",
	domain.LocalityRemote:        "Remote",
	domain.LocalityInternational: "International",
	domain.LocalityUnknown:       "",
}

func LocalityLabel(l domain.Locality) string {
	return localityLabels[l]
}

var localityOrder = map[domain.Locality]int{
	domain.LocalityCity:          0,
	domain.LocalityNational:      1,
	domain.LocalityRemote:        2,
	domain.LocalityUnknown:       3,
	domain.LocalityInternational: 4,
}

// LocalityRank orders tiers for display; unrecognised values sort last.
func LocalityRank(l domain.Locality) int {
	if r, ok := localityOrder[l]; ok {
		return r
	}
	return len(localityOrder)
}

type Group struct {
	Locality domain.Locality `json:"locality"`
	Label    string          `json:"label"`
	JobIDs   []string        `json:"job_ids"`
}

// GroupByLocality buckets matches by tier in display order, keeping the
// incoming order inside each bucket. Empty tiers are omitted.
func GroupByLocality(matches []domain.JobMatch) []Group {
	idx := map[domain.Locality]int{}
	var groups []Group
	for _, m := range matches {
		i, ok := idx[m.Locality]
		if !ok {
			i = len(groups)
			idx[m.Locality] = i
			groups = append(groups, Group{Locality: m.Locality, Label: LocalityLabel(m.Locality)})
		}
		groups[i].JobIDs = append(groups[i].JobIDs, m.JobID)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return LocalityRank(groups[a].Locality) < LocalityRank(groups[b].Locality)
	})
	return groups
}
