package adzuna

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://api.adzuna.com"

type Config struct {
	BaseURL string
	AppID   string
	AppKey  string
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

func (s *Scraper) Name() string { return sources.Adzuna }
func (s *Scraper) RequiresAPIKey() bool { return true }

// countries is checked in order; the first substring hit wins. Adzuna has
// no Pakistan endpoint, so it borrows the GB index.
var countries = []struct{ name, code string }{
	{"australia", "au"}, {"austria", "at"}, {"brazil", "br"}, {"canada", "ca"},
	{"germany", "de"}, {"france", "fr"}, {"uk", "gb"}, {"united kingdom", "gb"},
	{"britain", "gb"}, {"india", "in"}, {"italy", "it"}, {"netherlands", "nl"},
	{"new zealand", "nz"}, {"poland", "pl"}, {"russia", "ru"}, {"singapore", "sg"},
	{"united states", "us"}, {"usa", "us"}, {"us", "us"}, {"south africa", "za"},
	{"pakistan", "gb"},
}

// CountryCode picks the Adzuna country index for a location, defaulting to us.
func CountryCode(location string) string {
	l := strings.ToLower(location)
	for _, c := range countries {
		if strings.Contains(l, c.name) {
			return c.code
		}
	}
	return "us"
}

type response struct {
	Results []struct {
		ID          any    `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Created     string `json:"created"`
		RedirectURL string `json:"redirect_url"`
		SalaryMin   any    `json:"salary_min"`
		SalaryMax   any    `json:"salary_max"`
		Contract    string `json:"contract_type"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Category struct {
			Tag   string `json:"tag"`
			Label string `json:"label"`
		} `json:"category"`
	} `json:"results"`
}

var titleTech = []string{"Python", "Java", "React", "Node", "AWS", "SQL", "Docker", "Kubernetes"}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	if s.cfg.AppID == "" || s.cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: missing app credentials")
	}
	params := url.Values{
		"app_id":           {s.cfg.AppID},
		"app_key":          {s.cfg.AppKey},
		"what":             {query},
		"results_per_page": {"20"},
		"content-type":     {"application/json"},
	}
	country := "us"
	if location != "" {
		country = CountryCode(location)
		params.Set("where", location)
	}
	u := fmt.Sprintf("%s/v1/api/jobs/%s/search/1?%s", s.cfg.BaseURL, country, params.Encode())

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("adzuna: %w", err)
	}

	out := make([]domain.RawJob, 0, len(resp.Results))
	for _, j := range resp.Results {
		var tags []string
		if j.Category.Tag != "" {
			tags = append(tags, j.Category.Tag)
		}
		lt := strings.ToLower(j.Title)
		for _, tech := range titleTech {
			if strings.Contains(lt, strings.ToLower(tech)) {
				tags = append(tags, tech)
			}
		}

		jobType := j.Contract
		if jobType == "" || jobType == "permanent" {
			jobType = string(domain.JobTypeFullTime)
		}

		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.Company.DisplayName,
			Description:     j.Description,
			Skills:          tags,
			Location:        j.Location.DisplayName,
			IsRemote:        sources.GuessRemote(j.Title, j.Description),
			SalaryMin:       sources.Num(j.SalaryMin),
			SalaryMax:       sources.Num(j.SalaryMax),
			SalaryCurrency:  "USD",
			JobType:         jobType,
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.Adzuna,
			SourceURL:       j.RedirectURL,
			ExternalID:      sources.Str(j.ID),
			PostedAt:        j.Created,
			Metadata:        map[string]any{"category": map[string]string{"tag": j.Category.Tag, "label": j.Category.Label}},
		})
	}
	return out, nil
}
