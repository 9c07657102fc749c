// Package gemini asks the Gemini API for current openings, grounded on Google
// Search when the key's tier allows it and on model knowledge otherwise.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var groundedModels = []string{"gemini-2.0-flash", "gemini-2.5-flash"}

const fallbackModel = "gemini-2.0-flash"

type Config struct {
	BaseURL string
	APIKey  string
	Now     func() time.Time
}

type Scraper struct {
	cfg Config
	c   *sources.Client
	log *zap.Logger
}

func New(cfg Config, c *sources.Client, log *zap.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, c: c, log: log.Named(sources.GeminiSearch)}
}

func (s *Scraper) Name() string { return sources.GeminiSearch }
func (s *Scraper) RequiresAPIKey() bool { return true }

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type request struct {
	Contents         []content        `json:"contents"`
	Tools            []map[string]any `json:"tools,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type response struct {
	Candidates []struct {
		Content           content        `json:"content"`
		GroundingMetadata map[string]any `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	strategies := []sources.Strategy{
		{Name: "grounded", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			return s.grounded(ctx, query, location)
		}},
		{Name: "knowledge", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			return s.knowledge(ctx, query, location)
		}},
	}
	return sources.RunChain(ctx, s.log.With(zap.String("query", query)), strategies...), nil
}

func in(location string) string {
	if location == "" {
		return ""
	}
	return " in " + location
}

func (s *Scraper) grounded(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	prompt := fmt.Sprintf(`Search for 15 current job openings for "%s"%s.

For each job found, provide a JSON object with these fields:
- title: job title
- company_name: company name
- location: city, country
- is_remote: true/false
- job_type: full_time, part_time, contract, internship, or freelance
- salary: salary range if mentioned (e.g. "50000-80000 USD") or empty string
- apply_url: link to apply or empty string
- posted_date: when posted (ISO date or relative like "3 days ago")
- skills: array of required skills/technologies

Return ONLY a JSON array. No markdown, no explanation. Example:
[{"title":"Software Engineer","company_name":"Acme Corp","location":"Lahore, Pakistan","is_remote":false,"job_type":"full_time","salary":"","apply_url":"","posted_date":"2026-02-20","skills":["Python","React"]}]`, query, in(location))

	req := request{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		Tools:            []map[string]any{{"google_search": map[string]any{}}},
		GenerationConfig: generationConfig{Temperature: 0.1, MaxOutputTokens: 8192},
	}

	var lastErr error
	for _, model := range groundedModels {
		jobs, err := s.generate(ctx, model, req, 30*time.Second)
		if err != nil {
			lastErr = err
			// 400/404 means the search tool is not available for this key.
			var se *sources.StatusError
			if errors.As(err, &se) && (se.StatusCode == 400 || se.StatusCode == 404) {
				break
			}
			s.log.Warn("grounded generation failed", zap.String("model", model), zap.Error(err))
			continue
		}
		if len(jobs) > 0 {
			return jobs, nil
		}
	}
	return nil, lastErr
}

func (s *Scraper) knowledge(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	prompt := fmt.Sprintf(`You are a job market expert. List 10 realistic, currently active job openings for "%s"%s.

Use your knowledge of real companies that typically hire for this role in this location. Include well-known local companies, multinational companies with offices there, and startups.

For each job, provide a JSON object with these fields:
- title: specific job title
- company_name: real company name that operates in that location
- location: specific city, country
- is_remote: true/false
- job_type: full_time, part_time, contract, internship, or freelance
- salary: estimated salary range for this role in local currency or empty string
- apply_url: company careers page URL if known, or empty string
- posted_date: "%s"
- skills: array of typically required skills/technologies

Return ONLY a JSON array. No markdown fences, no explanation.`, query, in(location), s.cfg.Now().UTC().Format("2006-01-02"))

	req := request{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.3, MaxOutputTokens: 8192},
	}
	return s.generate(ctx, fallbackModel, req, 25*time.Second)
}

func (s *Scraper) generate(ctx context.Context, model string, req request, timeout time.Duration) ([]domain.RawJob, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.cfg.BaseURL, model, url.QueryEscape(s.cfg.APIKey))
	var resp response
	if err := s.c.PostJSON(ctx, u, nil, req, &resp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				text.WriteString(p.Text)
				text.WriteByte('\n')
			}
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata["groundingChunks"] != nil {
			s.log.Info("grounding chunks without text; the search tool may need a paid tier")
		}
		return nil, nil
	}
	return ParseJobs(text.String(), s.cfg.Now()), nil
}

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingArrRe   = regexp.MustCompile(`,\s*]`)
	trailingObjRe   = regexp.MustCompile(`,\s*}`)
	salvageObjectRe = regexp.MustCompile(`\{[^{}]*"title"\s*:\s*"[^"]+?"[^{}]*"company_name"\s*:\s*"[^"]+?"[^{}]*\}`)
)

type item struct {
	Title       any `json:"title"`
	CompanyName any `json:"company_name"`
	Location    any `json:"location"`
	IsRemote    any `json:"is_remote"`
	JobType     any `json:"job_type"`
	Salary      any `json:"salary"`
	ApplyURL    any `json:"apply_url"`
	PostedDate  any `json:"posted_date"`
	Skills      any `json:"skills"`
}

// ParseJobs pulls a JSON array of postings out of model text. It tolerates
// markdown fences, prose around the array, trailing commas and single
// quotes, and as a last resort salvages individual objects.
func ParseJobs(text string, now time.Time) []domain.RawJob {
	js := text
	if m := fenceRe.FindStringSubmatch(js); m != nil {
		js = strings.TrimSpace(m[1])
	}
	if i, j := strings.Index(js, "["), strings.LastIndex(js, "]"); i >= 0 && j > i {
		js = js[i : j+1]
	}

	var items []item
	if err := json.Unmarshal([]byte(js), &items); err != nil {
		fixed := trailingArrRe.ReplaceAllString(js, "]")
		fixed = trailingObjRe.ReplaceAllString(fixed, "}")
		fixed = strings.ReplaceAll(fixed, "'", `"`)
		if err := json.Unmarshal([]byte(fixed), &items); err != nil {
			items = salvage(text)
		}
	}

	var out []domain.RawJob
	for _, it := range items {
		title, company := sources.Str(it.Title), sources.Str(it.CompanyName)
		if title == "" || company == "" {
			continue
		}
		loc := sources.Str(it.Location)
		salary, _ := it.Salary.(string)
		lo, hi := sources.ParseSalaryNumbers(salary)
		out = append(out, domain.RawJob{
			Title:           title,
			CompanyName:     company,
			Skills:          stringList(it.Skills),
			Location:        loc,
			IsRemote:        strings.EqualFold(sources.Str(it.IsRemote), "true"),
			SalaryMin:       lo,
			SalaryMax:       hi,
			SalaryCurrency:  Currency(salary),
			JobType:         JobType(sources.Str(it.JobType)),
			ExperienceLevel: sources.GuessLevel(title),
			SourcePlatform:  sources.GeminiSearch,
			SourceURL:       sanitizeURL(sources.Str(it.ApplyURL)),
			ExternalID:      "gs-" + normalize.DJB2Base36(title+"-"+company+"-"+loc),
			PostedAt:        postedDate(sources.Str(it.PostedDate), now),
			Metadata:        map[string]any{"source": "google_search_grounding"},
		})
	}
	return out
}

func salvage(text string) []item {
	var out []item
	for _, m := range salvageObjectRe.FindAllString(text, -1) {
		var it item
		if err := json.Unmarshal([]byte(m), &it); err == nil {
			out = append(out, it)
		}
	}
	return out
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Currency reads the currency of a salary label, USD by default.
func Currency(salary string) string {
	if strings.Contains(strings.ToUpper(salary), "RUPEE") {
		return "PKR"
	}
	return sources.DetectCurrency(salary)
}

// JobType folds free-form labels ("Full-time", "contractor") onto job types.
func JobType(t string) string {
	k := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(t))
	switch k {
	case "full_time", "fulltime":
		return "full_time"
	case "part_time", "parttime":
		return "part_time"
	case "contract", "contractor":
		return "contract"
	case "internship", "intern":
		return "internship"
	case "freelance":
		return "freelance"
	default:
		return "full_time"
	}
}

func sanitizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return ""
}

func postedDate(s string, now time.Time) string {
	if t, ok := normalize.ParseTimestamp(s); ok && t.Year() >= 2020 {
		return t.UTC().Format(time.RFC3339)
	}
	return sources.ParseRelativeDate(s, now)
}
