// Package searchapi reads Google Jobs results through searchapi.io.
package searchapi

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const defaultBaseURL = "https://www.searchapi.io"

type Config struct {
	BaseURL string
	APIKey  string
	// Now is overridable for tests.
	Now func() time.Time
}

type Scraper struct {
	cfg Config
	c   *sources.Client
}

func New(cfg Config, c *sources.Client) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scraper{cfg: cfg, c: c}
}

func (s *Scraper) Name() string { return sources.SearchAPI }
func (s *Scraper) RequiresAPIKey() bool { return true }

type highlight struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type response struct {
	Jobs []struct {
		Title       string      `json:"title"`
		CompanyName string      `json:"company_name"`
		Location    string      `json:"location"`
		Via         string      `json:"via"`
		Description string      `json:"description"`
		Thumbnail   string      `json:"thumbnail"`
		Extensions  []string    `json:"extensions"`
		Highlights  []highlight `json:"job_highlights"`
		ApplyLink   string      `json:"apply_link"`
		ApplyLinks  []struct {
			Link string `json:"link"`
		} `json:"apply_links"`
		SharingLink string `json:"sharing_link"`
		Detected    struct {
			PostedAt     string `json:"posted_at"`
			Schedule     string `json:"schedule"`
			Salary       string `json:"salary"`
			WorkFromHome bool   `json:"work_from_home"`
		} `json:"detected_extensions"`
	} `json:"jobs"`
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("searchapi: missing api key")
	}
	params := url.Values{
		"engine":  {"google_jobs"},
		"q":       {query},
		"api_key": {s.cfg.APIKey},
	}
	if location != "" {
		params.Set("location", location)
	}
	u := s.cfg.BaseURL + "/api/v1/search?" + params.Encode()

	var resp response
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("searchapi: %w", err)
	}

	now := s.cfg.Now()
	out := make([]domain.RawJob, 0, 30)
	for _, j := range sources.FirstN(resp.Jobs, 30) {
		quals := section(j.Highlights, "Qualifications")
		desc := sources.StripHTML(j.Description)

		link := j.ApplyLink
		if link == "" && len(j.ApplyLinks) > 0 {
			link = j.ApplyLinks[0].Link
		}
		ext := j.SharingLink
		if ext == "" {
			ext = "searchapi-" + sources.Truncate(j.Title, 30) + "-" + j.CompanyName
		}
		remote := j.Detected.WorkFromHome || sources.GuessRemote(j.Location, j.Title) ||
			strings.Contains(strings.ToLower(j.Location+" "+j.Title), "anywhere")

		out = append(out, domain.RawJob{
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			CompanyLogoURL:  j.Thumbnail,
			Description:     desc,
			Requirements:    quals,
			Skills:          sources.ExtractSkills(desc, strings.Join(quals, " ")),
			Location:        j.Location,
			IsRemote:        remote,
			SalaryMin:       annualize(salaryAt(j.Detected.Salary, 0)),
			SalaryMax:       annualize(salaryAt(j.Detected.Salary, 1)),
			SalaryCurrency:  "USD",
			JobType:         sources.MapEmploymentType(j.Detected.Schedule),
			ExperienceLevel: Level(j.Title, quals),
			SourcePlatform:  sources.SearchAPI,
			SourceURL:       sources.FirstNonEmpty(link, j.SharingLink),
			ExternalID:      ext,
			PostedAt:        sources.ParseRelativeDate(j.Detected.PostedAt, now),
			Metadata: map[string]any{
				"via":              j.Via,
				"extensions":       j.Extensions,
				"responsibilities": section(j.Highlights, "Responsibilities"),
			},
		})
	}
	return out, nil
}

func section(hs []highlight, title string) []string {
	for _, h := range hs {
		if h.Title == title {
			return h.Items
		}
	}
	return nil
}

var amountRe = regexp.MustCompile(`\d+\.?\d*`)

func salaryAt(label string, i int) *float64 {
	clean := strings.NewReplacer(",", "", "$", "").Replace(label)
	nums := amountRe.FindAllString(clean, -1)
	if i >= len(nums) {
		return nil
	}
	v, err := strconv.ParseFloat(nums[i], 64)
	if err != nil {
		return nil
	}
	return sources.Float(v)
}

// annualize treats figures under 500 as hourly rates over a 2080-hour year.
func annualize(v *float64) *float64 {
	if v == nil || *v >= 500 {
		return v
	}
	a := math.Round(*v * 2080)
	return &a
}

var yearsRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)

// Level guesses seniority from the title and qualifications, then from any
// "N years" requirement.
func Level(title string, quals []string) string {
	text := strings.ToLower(title + " " + strings.Join(quals, " "))
	if lvl := sources.GuessLevel(text); lvl != "mid" {
		return lvl
	}
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case n <= 2:
			return "entry"
		case n <= 5:
			return "mid"
		case n <= 10:
			return "senior"
		default:
			return "lead"
		}
	}
	return "mid"
}
