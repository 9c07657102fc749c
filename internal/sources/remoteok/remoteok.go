package remoteok

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://remoteok.com"

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

func (s *Scraper) Name() string { return sources.RemoteOK }
func (s *Scraper) RequiresAPIKey() bool { return false }

type posting struct {
	ID          any      `json:"id"`
	Slug        string   `json:"slug"`
	Date        string   `json:"date"`
	Company     string   `json:"company"`
	CompanyLogo string   `json:"company_logo"`
	Logo        string   `json:"logo"`
	Position    string   `json:"position"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	SalaryMin   any      `json:"salary_min"`
	SalaryMax   any      `json:"salary_max"`
	URL         string   `json:"url"`
	ApplyURL    string   `json:"apply_url"`
}

var tagTerms = set(
	"react", "angular", "vue", "node", "python", "java", "typescript", "javascript",
	"golang", "go", "rust", "ruby", "php", "swift", "kotlin", "flutter", "aws",
	"devops", "frontend", "backend", "fullstack", "ios", "android", "data", "ml",
	"ai", "design", "product", "marketing", "sales", "engineer", "developer",
	"docker", "kubernetes", "cloud", "security", "qa", "testing",
)

var skillTags = set(
	"javascript", "typescript", "python", "java", "go", "rust", "ruby", "php",
	"swift", "kotlin", "react", "angular", "vue", "node", "django", "flask",
	"aws", "azure", "gcp", "docker", "kubernetes", "sql", "mongodb", "postgresql",
	"git", "devops", "graphql", "redis", "elasticsearch", "terraform",
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Tag picks the first tech word of the query, else its first word. The
// API filters by a single tag only.
func Tag(query string) string {
	words := strings.Fields(strings.ToLower(query))
	for _, w := range words {
		if tagTerms[w] {
			return w
		}
	}
	if len(words) > 0 {
		return words[0]
	}
	return ""
}

func (s *Scraper) Fetch(ctx context.Context, query, _ string) ([]domain.RawJob, error) {
	u := s.cfg.BaseURL + "/api"
	if tag := Tag(query); tag != "" {
		u += "?tags=" + url.QueryEscape(tag)
	}

	// The first element is a legal notice, not a posting.
	var items []posting
	if err := s.c.GetJSON(ctx, u, nil, &items); err != nil {
		return nil, fmt.Errorf("remoteok: %w", err)
	}

	var out []domain.RawJob
	for _, p := range items {
		if p.Position == "" {
			continue
		}
		out = append(out, domain.RawJob{
			Title:           p.Position,
			CompanyName:     p.Company,
			CompanyLogoURL:  sources.FirstNonEmpty(p.CompanyLogo, p.Logo),
			Description:     sources.StripHTML(p.Description),
			Skills:          skills(p.Tags),
			Location:        sources.FirstNonEmpty(p.Location, "Remote"),
			IsRemote:        true,
			SalaryMin:       sources.Num(p.SalaryMin),
			SalaryMax:       sources.Num(p.SalaryMax),
			SalaryCurrency:  "USD",
			JobType:         string(domain.JobTypeFullTime),
			ExperienceLevel: sources.GuessLevel(p.Position + " " + strings.Join(p.Tags, " ")),
			SourcePlatform:  sources.RemoteOK,
			SourceURL:       sources.FirstNonEmpty(p.URL, p.ApplyURL),
			ExternalID:      sources.FirstNonEmpty(sources.Str(p.ID), p.Slug),
			PostedAt:        p.Date,
			Metadata:        map[string]any{"tags": p.Tags},
		})
		if len(out) == 50 {
			break
		}
	}
	return out, nil
}

func skills(tags []string) []string {
	var out []string
	for _, t := range tags {
		if skillTags[strings.ToLower(t)] {
			out = append(out, strings.ToUpper(t[:1])+t[1:])
		}
	}
	return out
}
