package arbeitnow

import (
	"context"
	"fmt"
	"net/url"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://www.arbeitnow.com"

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

func (s *Scraper) Name() string { return sources.Arbeitnow }
func (s *Scraper) RequiresAPIKey() bool { return false }

type response struct {
	Data []struct {
		Slug        string   `json:"slug"`
		CompanyName string   `json:"company_name"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Remote      bool     `json:"remote"`
		URL         string   `json:"url"`
		Tags        []string `json:"tags"`
		JobTypes    []string `json:"job_types"`
		Location    string   `json:"location"`
		CreatedAt   any      `json:"created_at"`
	} `json:"data"`
}

func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	u := fmt.Sprintf("%s/api/job-board-api?search=%s", s.cfg.BaseURL, url.QueryEscape(query))

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("arbeitnow: %w", err)
	}

	out := make([]domain.RawJob, 0, 20)
	for _, j := range sources.FirstN(resp.Data, 20) {
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			Description:     sources.StripHTML(j.Description),
			Skills:          j.Tags,
			Location:        j.Location,
			IsRemote:        j.Remote,
			SalaryCurrency:  "EUR",
			JobType:         string(domain.JobTypeFullTime),
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.Arbeitnow,
			SourceURL:       j.URL,
			ExternalID:      j.Slug,
			PostedAt:        sources.Str(j.CreatedAt),
			Metadata:        map[string]any{"tags": j.Tags, "job_types": j.JobTypes},
		})
	}
	return out, nil
}
