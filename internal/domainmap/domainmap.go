// Package domainmap maps a profile's headline and skills onto broad
// professional domains. Resolved domains widen search queries and give partial
// credit for related skills when scoring.
package domainmap

import (
	"sort"
	"strings"
)

type Domain struct {
	ID           string
	Name         string
	Triggers     []string // lowercase
	RelatedRoles []string
	Keywords     []string
}

const maxDomains = 3

// Resolve returns up to three domains ordered by trigger hits, best first.
// A trigger scores once for appearing in the headline and once more when any
// skill equals it, contains it, or is contained by it.
func Resolve(headline string, skills []string) []Domain {
	h := strings.ToLower(headline)
	lower := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lower = append(lower, s)
		}
	}

	type scored struct {
		d    Domain
		hits int
	}
	var out []scored
	for _, d := range Domains {
		hits := 0
		for _, t := range d.Triggers {
			if h != "" && strings.Contains(h, t) {
				hits++
			}
			for _, s := range lower {
				if s == t || strings.Contains(s, t) || strings.Contains(t, s) {
					hits++
					break
				}
			}
		}
		if hits > 0 {
			out = append(out, scored{d, hits})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].hits > out[j].hits })
	if len(out) > maxDomains {
		out = out[:maxDomains]
	}
	res := make([]Domain, len(out))
	for i, s := range out {
		res[i] = s.d
	}
	return res
}

// ExpandedRoles flattens the related roles of ds, first spelling wins.
func ExpandedRoles(ds []Domain) []string {
	return collect(ds, func(d Domain) []string { return d.RelatedRoles })
}

// Keywords flattens the scoring keywords of ds, first spelling wins.
func Keywords(ds []Domain) []string {
	return collect(ds, func(d Domain) []string { return d.Keywords })
}

func collect(ds []Domain, pick func(Domain) []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range ds {
		for _, v := range pick(d) {
			k := strings.ToLower(v)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}
