// Package jsearch queries the JSearch aggregator on RapidAPI.
package jsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	rapidHost      = "jsearch.p.rapidapi.com"
)

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

func (s *Scraper) Name() string { return sources.JSearch }
func (s *Scraper) RequiresAPIKey() bool { return true }

type response struct {
	Data []struct {
		JobID          string `json:"job_id"`
		Title          string `json:"job_title"`
		EmployerName   string `json:"employer_name"`
		EmployerLogo   string `json:"employer_logo"`
		Publisher      string `json:"job_publisher"`
		EmploymentType string `json:"job_employment_type"`
		ApplyLink      string `json:"job_apply_link"`
		Description    string `json:"job_description"`
		IsRemote       bool   `json:"job_is_remote"`
		PostedAtUTC    string `json:"job_posted_at_datetime_utc"`
		City           string `json:"job_city"`
		State          string `json:"job_state"`
		Country        string `json:"job_country"`
		MinSalary      any    `json:"job_min_salary"`
		MaxSalary      any    `json:"job_max_salary"`
		SalaryCurrency string `json:"job_salary_currency"`
		Highlights     struct {
			Qualifications []string `json:"Qualifications"`
			Benefits       []string `json:"Benefits"`
		} `json:"job_highlights"`
	} `json:"data"`
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: missing api key")
	}
	q := query
	if location != "" {
		q = query + " in " + location
	}
	u := fmt.Sprintf("%s/search?query=%s&page=1&num_pages=1", s.cfg.BaseURL, url.QueryEscape(q))

	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("X-RapidAPI-Key", s.cfg.APIKey)
	h.Set("X-RapidAPI-Host", rapidHost)

	var resp response
	if err := s.c.GetJSON(ctx, u, h, &resp); err != nil {
		return nil, fmt.Errorf("jsearch: %w", err)
	}

	out := make([]domain.RawJob, 0, len(resp.Data))
	for _, j := range resp.Data {
		var loc []string
		for _, p := range []string{j.City, j.State, j.Country} {
			if p != "" {
				loc = append(loc, p)
			}
		}
		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.EmployerName,
			CompanyLogoURL:  j.EmployerLogo,
			Description:     j.Description,
			Requirements:    j.Highlights.Qualifications,
			Skills:          sources.ExtractSkills(j.Description),
			Location:        strings.Join(loc, ", "),
			IsRemote:        j.IsRemote,
			SalaryMin:       sources.Num(j.MinSalary),
			SalaryMax:       sources.Num(j.MaxSalary),
			SalaryCurrency:  sources.FirstNonEmpty(j.SalaryCurrency, "USD"),
			JobType:         mapJobType(j.EmploymentType),
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.JSearch,
			SourceURL:       j.ApplyLink,
			ExternalID:      j.JobID,
			PostedAt:        j.PostedAtUTC,
			Metadata:        map[string]any{"publisher": j.Publisher, "benefits": j.Highlights.Benefits},
		})
	}
	return out, nil
}

func mapJobType(t string) string {
	switch t {
	case "PARTTIME":
		return "part_time"
	case "CONTRACTOR":
		return "contract"
	case "INTERN":
		return "internship"
	default:
		return "full_time"
	}
}
