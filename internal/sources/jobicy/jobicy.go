package jobicy

import (
	"context"
	"fmt"
	"net/url"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://jobicy.com"

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

func (s *Scraper) Name() string { return sources.Jobicy }
func (s *Scraper) RequiresAPIKey() bool { return false }

type response struct {
	Jobs []struct {
		ID              any    `json:"id"`
		URL             string `json:"url"`
		JobTitle        string `json:"jobTitle"`
		CompanyName     string `json:"companyName"`
		CompanyLogo     string `json:"companyLogo"`
		JobIndustry     any    `json:"jobIndustry"`
		JobType         any    `json:"jobType"`
		JobGeo          string `json:"jobGeo"`
		JobLevel        string `json:"jobLevel"`
		JobExcerpt      string `json:"jobExcerpt"`
		JobDescription  string `json:"jobDescription"`
		PubDate         string `json:"pubDate"`
		AnnualSalaryMin any    `json:"annualSalaryMin"`
		AnnualSalaryMax any    `json:"annualSalaryMax"`
		SalaryCurrency  string `json:"salaryCurrency"`
	} `json:"jobs"`
}

func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	params := url.Values{"count": {"50"}}
	if query != "" {
		params.Set("tag", query)
	}
	u := s.cfg.BaseURL + "/api/v2/remote-jobs?" + params.Encode()

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("jobicy: %w", err)
	}

	out := make([]domain.RawJob, 0, 25)
	for _, j := range sources.FirstN(resp.Jobs, 25) {
		desc := sources.FirstNonEmpty(j.JobDescription, j.JobExcerpt)
		out = append(out, domain.RawJob{
			Title:           j.JobTitle,
			CompanyName:     j.CompanyName,
			CompanyLogoURL:  j.CompanyLogo,
			Description:     sources.StripHTML(desc),
			Skills:          sources.ExtractSkills(j.JobDescription),
			Location:        sources.FirstNonEmpty(j.JobGeo, "Remote"),
			IsRemote:        true,
			SalaryMin:       sources.Num(j.AnnualSalaryMin),
			SalaryMax:       sources.Num(j.AnnualSalaryMax),
			SalaryCurrency:  sources.FirstNonEmpty(j.SalaryCurrency, "USD"),
			JobType:         sources.MapEmploymentType(firstString(j.JobType)),
			ExperienceLevel: sources.GuessLevelFrom(j.JobLevel, j.JobTitle),
			SourcePlatform:  sources.Jobicy,
			SourceURL:       j.URL,
			ExternalID:      sources.Str(j.ID),
			PostedAt:        j.PubDate,
			Metadata:        map[string]any{"industry": j.JobIndustry},
		})
	}
	return out, nil
}

// jobType arrives as either a string or a list of strings.
func firstString(v any) string {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return ""
		}
		return sources.Str(arr[0])
	}
	return sources.Str(v)
}
