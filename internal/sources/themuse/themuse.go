// Package themuse reads The Muse public jobs API. It filters by category
// rather than free text, so queries are mapped onto the closest category.
package themuse

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://www.themuse.com"

type Config struct {
	BaseURL string
}

type Scraper struct {
	cfg Config
	c   *sources.Client
}

func New(cfg Config, c *sources.Client) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Scraper{cfg: cfg, c: c}
}

func (s *Scraper) Name() string { return sources.TheMuse }
func (s *Scraper) RequiresAPIKey() bool { return false }

type named struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type response struct {
	Results []struct {
		ID              any     `json:"id"`
		Name            string  `json:"name"`
		Contents        string  `json:"contents"`
		PublicationDate string  `json:"publication_date"`
		Locations       []named `json:"locations"`
		Categories      []named `json:"categories"`
		Levels          []named `json:"levels"`
		Company         named   `json:"company"`
		Refs            struct {
			LandingPage string `json:"landing_page"`
		} `json:"refs"`
	} `json:"results"`
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	params := url.Values{"page": {"0"}}
	if query != "" {
		params.Set("category", Category(query))
	}
	if location != "" {
		params.Set("location", location)
	}
	u := s.cfg.BaseURL + "/api/public/jobs?" + params.Encode()

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("themuse: %w", err)
	}

	out := make([]domain.RawJob, 0, 25)
	for _, j := range sources.FirstN(resp.Results, 25) {
		locs := make([]string, 0, len(j.Locations))
		for _, l := range j.Locations {
			locs = append(locs, l.Name)
		}
		loc := strings.Join(locs, ", ")
		lowLoc := strings.ToLower(loc)
		desc := sources.Truncate(sources.StripHTML(j.Contents), 5000)

		cats := make([]string, 0, len(j.Categories))
		for _, c := range j.Categories {
			cats = append(cats, c.Name)
		}

		out = append(out, domain.RawJob{
			Title:           j.Name,
			CompanyName:     j.Company.Name,
			Description:     desc,
			Skills:          sources.FirstN(sources.ExtractSkills(desc), 15),
			Location:        loc,
			IsRemote:        strings.Contains(lowLoc, "remote") || strings.Contains(lowLoc, "flexible"),
			SalaryCurrency:  "USD",
			JobType:         jobType(j.Levels),
			ExperienceLevel: level(j.Levels, j.Name),
			SourcePlatform:  sources.TheMuse,
			SourceURL:       j.Refs.LandingPage,
			ExternalID:      sources.Str(j.ID),
			PostedAt:        j.PublicationDate,
			Metadata:        map[string]any{"categories": cats},
		})
	}
	return out, nil
}

// Category maps a free-text query onto one of The Muse's categories.
func Category(query string) string {
	l := strings.ToLower(query)
	switch {
	case strings.Contains(l, "data"), strings.Contains(l, "analytics"):
		return "Data and Analytics"
	case strings.Contains(l, "design"), strings.Contains(l, "ui"), strings.Contains(l, "ux"):
		return "Design and UX"
	case strings.Contains(l, "product"), strings.Contains(l, "pm"):
		return "Product"
	case strings.Contains(l, "marketing"):
		return "Marketing and PR"
	case strings.Contains(l, "science"), strings.Contains(l, "research"):
		return "Data Science"
	default:
		return "Software Engineering"
	}
}

func levelNames(levels []named) []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, strings.ToLower(sources.FirstNonEmpty(l.Name, l.ShortName)))
	}
	return out
}

func anyContains(names []string, subs ...string) bool {
	for _, n := range names {
		for _, s := range subs {
			if strings.Contains(n, s) {
				return true
			}
		}
	}
	return false
}

func jobType(levels []named) string {
	names := levelNames(levels)
	switch {
	case anyContains(names, "intern"):
		return "internship"
	case anyContains(names, "part"):
		return "part_time"
	default:
		return "full_time"
	}
}

func level(levels []named, title string) string {
	names := levelNames(levels)
	t := strings.ToLower(title)
	switch {
	case anyContains(names, "intern", "entry", "junior") || strings.Contains(t, "intern") || strings.Contains(t, "junior"):
		return "entry"
	case anyContains(names, "senior") || strings.Contains(t, "senior") || strings.Contains(t, "sr."):
		return "senior"
	case anyContains(names, "management", "director") || strings.Contains(t, "lead"):
		return "lead"
	default:
		return "mid"
	}
}
