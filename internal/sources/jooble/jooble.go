package jooble

import (
	"context"
	"fmt"
	"net/url"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://jooble.org"

type Config struct {
	BaseURL string
	APIKey  string
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

func (s *Scraper) Name() string { return sources.Jooble }
func (s *Scraper) RequiresAPIKey() bool { return true }

type request struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Page     string `json:"page"`
}

type response struct {
	Jobs []struct {
		ID       any    `json:"id"`
		Title    string `json:"title"`
		Location string `json:"location"`
		Snippet  string `json:"snippet"`
		Salary   string `json:"salary"`
		Source   string `json:"source"`
		Type     string `json:"type"`
		Link     string `json:"link"`
		Company  string `json:"company"`
		Updated  string `json:"updated"`
	} `json:"jobs"`
}

// Fetch posts the search; the API key travels in the path.
func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("jooble: missing api key")
	}
	u := s.cfg.BaseURL + "/api/" + url.PathEscape(s.cfg.APIKey)

	var resp response
	if err := s.c.PostJSON(ctx, u, nil, request{Keywords: query, Location: location, Page: "1"}, &resp); err != nil {
		return nil, fmt.Errorf("jooble: %w", err)
	}

	out := make([]domain.RawJob, 0, 50)
	for _, j := range sources.FirstN(resp.Jobs, 50) {
		desc := sources.StripHTML(j.Snippet)
		lo, hi := sources.ParseSalaryNumbers(j.Salary)
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.Company,
			Description:     desc,
			Skills:          sources.ExtractSkills(desc),
			Location:        j.Location,
			IsRemote:        sources.GuessRemote(j.Location, j.Title),
			SalaryMin:       lo,
			SalaryMax:       hi,
			SalaryCurrency:  "USD",
			JobType:         sources.MapEmploymentType(j.Type),
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.Jooble,
			SourceURL:       j.Link,
			ExternalID:      sources.Str(j.ID),
			PostedAt:        j.Updated,
			Metadata:        map[string]any{"source": j.Source},
		})
	}
	return out, nil
}
