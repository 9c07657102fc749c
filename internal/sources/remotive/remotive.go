package remotive

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://remotive.com"

type Config struct {
	BaseURL string
	Limit   int
}

type Scraper struct {
	cfg Config
	c   *sources.Client
}

func New(cfg Config, c *sources.Client) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	return &Scraper{cfg: cfg, c: c}
}

func (s *Scraper) Name() string { return sources.Remotive }
func (s *Scraper) RequiresAPIKey() bool { return false }

type response struct {
	Jobs []struct {
		ID                        any      `json:"id"`
		URL                       string   `json:"url"`
		Title                     string   `json:"title"`
		CompanyName               string   `json:"company_name"`
		CompanyLogo               string   `json:"company_logo"`
		Category                  string   `json:"category"`
		Tags                      []string `json:"tags"`
		JobType                   string   `json:"job_type"`
		PublicationDate           string   `json:"publication_date"`
		CandidateRequiredLocation string   `json:"candidate_required_location"`
		Description               string   `json:"description"`
	} `json:"jobs"`
}

// Fetch ignores location; every Remotive listing is remote.
func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	u := fmt.Sprintf("%s/api/remote-jobs?search=%s&limit=%d", s.cfg.BaseURL, url.QueryEscape(query), s.cfg.Limit)

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("remotive: %w", err)
	}

	out := make([]domain.RawJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			CompanyLogoURL:  j.CompanyLogo,
			Description:     sources.StripHTML(j.Description),
			Skills:          tagSkills(j.Tags),
			Location:        j.CandidateRequiredLocation,
			IsRemote:        true,
			SalaryCurrency:  "USD",
			JobType:         mapJobType(j.JobType),
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.Remotive,
			SourceURL:       j.URL,
			ExternalID:      sources.Str(j.ID),
			PostedAt:        j.PublicationDate,
			Metadata:        map[string]any{"category": j.Category, "tags": j.Tags},
		})
	}
	return out, nil
}

func tagSkills(tags []string) []string {
	var out []string
	for _, t := range tags {
		if n := len(t); n > 1 && n < 30 {
			out = append(out, t)
		}
	}
	return out
}

func mapJobType(t string) string {
	switch t = strings.ToLower(t); t {
	case "full_time", "contract", "part_time", "freelance", "internship":
		return t
	}
	return "full_time"
}
