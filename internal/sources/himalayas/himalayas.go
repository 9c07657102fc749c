// Package himalayas reads the public himalayas.app remote jobs API.
package himalayas

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://himalayas.app"

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

func (s *Scraper) Name() string { return sources.Himalayas }
func (s *Scraper) RequiresAPIKey() bool { return false }

type response struct {
	Jobs []struct {
		ID             any      `json:"id"`
		Slug           string   `json:"slug"`
		Title          string   `json:"title"`
		CompanyName    string   `json:"companyName"`
		CompanyLogo    string   `json:"companyLogo"`
		Description    string   `json:"description"`
		Categories     []string `json:"categories"`
		Tags           []string `json:"tags"`
		Location       any      `json:"locationRestrictions"`
		Type           string   `json:"employmentType"`
		Seniority      any      `json:"seniority"`
		MinSalary      any      `json:"minSalary"`
		MaxSalary      any      `json:"maxSalary"`
		SalaryCurrency string   `json:"currency"`
		ApplicationURL string   `json:"applicationLink"`
		URL            string   `json:"guid"`
		PubDate        any      `json:"pubDate"`
	} `json:"jobs"`
}

func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	u := fmt.Sprintf("%s/jobs/api?limit=25&q=%s", s.cfg.BaseURL, url.QueryEscape(query))

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("himalayas: %w", err)
	}

	out := make([]domain.RawJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		desc := sources.StripHTML(j.Description)
		ext := sources.FirstNonEmpty(sources.Str(j.ID), j.Slug, j.Title+"-"+j.CompanyName)
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			CompanyLogoURL:  j.CompanyLogo,
			Description:     desc,
			Skills:          skills(j.Categories, j.Tags, desc),
			Location:        joinAny(j.Location),
			IsRemote:        true,
			SalaryMin:       sources.Num(j.MinSalary),
			SalaryMax:       sources.Num(j.MaxSalary),
			SalaryCurrency:  sources.FirstNonEmpty(j.SalaryCurrency, "USD"),
			JobType:         sources.MapEmploymentType(j.Type),
			ExperienceLevel: sources.GuessLevel(j.Title + " " + joinAny(j.Seniority)),
			SourcePlatform:  sources.Himalayas,
			SourceURL:       sources.FirstNonEmpty(j.ApplicationURL, j.URL),
			ExternalID:      ext,
			PostedAt:        sources.Str(j.PubDate),
			Metadata:        map[string]any{"categories": j.Categories, "tags": j.Tags},
		})
	}
	return out, nil
}

// skills keeps short category and tag labels, topping up from the
// description when fewer than three survive.
func skills(categories, tags []string, desc string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range append(append([]string{}, categories...), tags...) {
		if n := len(t); n > 1 && n < 30 && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	if len(out) < 3 {
		for _, sk := range sources.ExtractSkills(desc) {
			if !seen[sk] {
				seen[sk] = true
				out = append(out, sk)
			}
		}
	}
	return sources.FirstN(out, 15)
}

// joinAny flattens a string or list of strings.
func joinAny(v any) string {
	arr, ok := v.([]any)
	if !ok {
		return sources.Str(v)
	}
	parts := make([]string, 0, len(arr))
	for _, e := range arr {
		if s := sources.Str(e); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
