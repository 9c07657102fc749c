package joinrise

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://api.joinrise.io"

type Config struct {
	BaseURL    string
	Department string
}

type Scraper struct {
	cfg Config
	c   *sources.Client
}

func New(cfg Config, c *sources.Client) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Department == "" {
		cfg.Department = "Software Engineering"
	}
	return &Scraper{cfg: cfg, c: c}
}

func (s *Scraper) Name() string { return sources.JoinRise }
func (s *Scraper) RequiresAPIKey() bool { return false }

type response struct {
	Result struct {
		Jobs []struct {
			ID    string `json:"_id"`
			Title string `json:"title"`
			Owner struct {
				CompanyName string `json:"companyName"`
				Photo       string `json:"photo"`
			} `json:"owner"`
			Type            string   `json:"type"`
			Seniority       string   `json:"seniority"`
			Department      string   `json:"department"`
			LocationAddress string   `json:"locationAddress"`
			URL             string   `json:"url"`
			CreatedAt       string   `json:"createdAt"`
			SkillsSuggest   []string `json:"skills_suggest"`
			Breakdown       struct {
				OneSentenceJobSummary string   `json:"oneSentenceJobSummary"`
				Keywords              []string `json:"keywords"`
				WorkModel             string   `json:"workModel"`
				EmploymentType        string   `json:"employmentType"`
				SalaryRangeMinYearly  any      `json:"salaryRangeMinYearly"`
				SalaryRangeMaxYearly  any      `json:"salaryRangeMaxYearly"`
			} `json:"descriptionBreakdown"`
		} `json:"jobs"`
	} `json:"result"`
}

func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	params := url.Values{
		"page":       {"1"},
		"limit":      {"30"},
		"sort":       {"desc"},
		"sortedBy":   {"createdAt"},
		"department": {s.cfg.Department},
	}
	if query != "" {
		params.Set("search", query)
	}
	u := s.cfg.BaseURL + "/api/v1/jobs/public?" + params.Encode()

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("joinrise: %w", err)
	}

	out := make([]domain.RawJob, 0, len(resp.Result.Jobs))
	for _, j := range resp.Result.Jobs {
		b := j.Breakdown
		workModel := strings.ToLower(sources.FirstNonEmpty(b.WorkModel, j.Type))
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.Owner.CompanyName,
			CompanyLogoURL:  j.Owner.Photo,
			Description:     sources.FirstNonEmpty(b.OneSentenceJobSummary, j.Title),
			Requirements:    sources.FirstN(j.SkillsSuggest, 5),
			Skills:          sources.FirstN(b.Keywords, 10),
			Location:        j.LocationAddress,
			IsRemote:        strings.Contains(workModel, "remote"),
			SalaryMin:       sources.Num(b.SalaryRangeMinYearly),
			SalaryMax:       sources.Num(b.SalaryRangeMaxYearly),
			SalaryCurrency:  "USD",
			JobType:         sources.MapEmploymentType(sources.FirstNonEmpty(b.EmploymentType, j.Type)),
			ExperienceLevel: sources.GuessLevel(j.Seniority),
			SourcePlatform:  sources.JoinRise,
			SourceURL:       j.URL,
			ExternalID:      j.ID,
			PostedAt:        j.CreatedAt,
			Metadata:        map[string]any{"department": j.Department, "workModel": b.WorkModel},
		})
	}
	return out, nil
}
