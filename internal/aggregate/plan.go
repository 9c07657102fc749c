package aggregate

import (
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/geo"
	"jobmatch-engine/internal/sources/registry"
)

// Priority orders tasks for the cap: base tasks are never dropped, then
// query expansion goes before location expansion.
type Priority int

const (
	PriorityBase Priority = iota
	PriorityLocation
	PriorityQuery
)

// Task is one adapter call in a run.
type Task struct {
	Entry    registry.Entry
	Query    string
	Location string
	Priority Priority
}

func (t Task) Platform() string { return t.Entry.Name() }

// Locations derives the locations to search from the profile. The first one
// is the primary location; "" means "no location".
func Locations(p domain.UserProfile) []string {
	home, hasHome := geo.Parse(p.Location)

	if len(p.DesiredLocations) > 0 {
		locs := append([]string(nil), p.DesiredLocations[:min(3, len(p.DesiredLocations))]...)
		if hasHome && !mentionsHome(p.DesiredLocations, home) {
			locs = append(locs, p.Location)
		}
		return locs
	}
	if strings.TrimSpace(p.Location) != "" {
		locs := []string{p.Location}
		if hasHome && home.City != home.Country {
			locs = append(locs, home.Country)
		}
		return locs
	}
	return []string{""}
}

func mentionsHome(desired []string, home geo.Place) bool {
	for _, d := range desired {
		l := strings.ToLower(d)
		if strings.Contains(l, home.Country) || strings.Contains(l, home.City) {
			return true
		}
	}
	return false
}

// Plan builds the task list for entries. Every adapter gets the primary
// query at the primary location. Rate-limited adapters get one more task
// (second query at the home country) and nothing else. Searchable adapters
// get queries 1..4 at the primary location; location-aware adapters get the
// primary query at every other location plus the second query at the home
// country. When the list exceeds max, query expansion is dropped first,
// then location expansion, each from the end.
func Plan(entries []registry.Entry, queries, locations []string, homeCountry string, max int) []Task {
	if len(queries) == 0 {
		return nil
	}
	q0 := queries[0]
	loc0 := ""
	if len(locations) > 0 {
		loc0 = locations[0]
	}
	hasQ1 := len(queries) > 1 && homeCountry != ""

	var tasks []Task
	add := func(e registry.Entry, q, loc string, pr Priority) {
		tasks = append(tasks, Task{Entry: e, Query: q, Location: loc, Priority: pr})
	}

	for _, e := range entries {
		add(e, q0, loc0, PriorityBase)

		if e.Caps.RateLimited {
			if hasQ1 {
				add(e, queries[1], homeCountry, PriorityLocation)
			}
			continue
		}
		if e.Caps.Searchable {
			for _, q := range queries[1:min(5, len(queries))] {
				add(e, q, loc0, PriorityQuery)
			}
		}
		if e.Caps.LocationAware {
			for _, loc := range locations[min(1, len(locations)):] {
				if loc != "" {
					add(e, q0, loc, PriorityLocation)
				}
			}
			if hasQ1 {
				add(e, queries[1], homeCountry, PriorityLocation)
			}
		}
	}
	return capTasks(tasks, max)
}

// capTasks keeps at most max tasks, admitting whole priority tiers in order
// and the head of the first tier that does not fit. Kept tasks stay in
// construction order.
func capTasks(tasks []Task, max int) []Task {
	if max <= 0 || len(tasks) <= max {
		return tasks
	}
	keep := make([]bool, len(tasks))
	room := max
	for _, pr := range []Priority{PriorityBase, PriorityLocation, PriorityQuery} {
		for i, t := range tasks {
			if room == 0 {
				break
			}
			if t.Priority == pr {
				keep[i] = true
				room--
			}
		}
	}
	out := make([]Task, 0, max)
	for i, t := range tasks {
		if keep[i] {
			out = append(out, t)
		}
	}
	return out
}
