// Package linkedin reads LinkedIn's public, logged-out job search: first the
// guest card endpoint, then the public search page.
package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/sources"
)

const (
	defaultBaseURL = "https://www.linkedin.com"
	maxCards       = 25
)

type Config struct {
	BaseURL  string
	Renderer sources.Renderer
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
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, c: c, log: log.Named(sources.LinkedIn)}
}

func (s *Scraper) Name() string { return sources.LinkedIn }
func (s *Scraper) RequiresAPIKey() bool { return false }

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	guest := url.Values{"keywords": {query}, "start": {"0"}, "sortBy": {"DD"}}
	search := url.Values{"keywords": {query}}
	if location != "" {
		guest.Set("location", location)
		search.Set("location", location)
	}
	guestURL := s.cfg.BaseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search?" + guest.Encode()
	searchURL := s.cfg.BaseURL + "/jobs/search?" + search.Encode()

	strategies := []sources.Strategy{
		{Name: "guest", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			doc, err := s.page(ctx, guestURL, sources.BrowserHeaders(sources.MobileUA),
				sources.Challenge{MinLength: 200, Keywords: []string{"captcha", "challenge"}})
			if err != nil {
				return nil, err
			}
			return parseCards(doc), nil
		}},
		{Name: "search", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			doc, err := s.page(ctx, searchURL, desktopHeaders(),
				sources.Challenge{MinLength: 2000, Keywords: []string{"captcha"}})
			if err != nil {
				return nil, err
			}
			return parseSearchPage(doc), nil
		}},
	}
	if s.cfg.Renderer != nil {
		strategies = append(strategies, sources.Strategy{Name: "browser", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			html, err := s.cfg.Renderer.Render(ctx, searchURL)
			if err != nil {
				return nil, err
			}
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, err
			}
			return parseSearchPage(doc), nil
		}})
	}

	return sources.RunChain(ctx, s.log.With(zap.String("query", query)), strategies...), nil
}

func desktopHeaders() http.Header {
	h := sources.BrowserHeaders(sources.DesktopUA)
	h.Set("Connection", "keep-alive")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	return h
}

func (s *Scraper) page(ctx context.Context, u string, h http.Header, ch sources.Challenge) (*goquery.Document, error) {
	resp, err := s.c.Get(ctx, u, h)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errs.Unavailable(fmt.Sprintf("status %d", resp.StatusCode), nil)
	}
	if sources.LooksLikeChallenge(resp, ch) {
		return nil, errs.Blocked("challenge page", nil)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Text()))
	if err != nil {
		return nil, errs.InvalidInput("parsing html", err)
	}
	return doc, nil
}

func parseSearchPage(doc *goquery.Document) []domain.RawJob {
	var out []domain.RawJob
	for _, p := range sources.JSONLDPostings(doc) {
		if raw, ok := sources.JSONLDToRaw(p, sources.LinkedIn, "USD"); ok {
			out = append(out, raw)
		}
	}
	if len(out) > 0 {
		return out
	}
	return parseCards(doc)
}

var viewRe = regexp.MustCompile(`^https://\w+\.linkedin\.com/jobs/view/([^/?]+)`)

// parseCards reads <li> job cards (base-card / job-search-card markup).
func parseCards(doc *goquery.Document) []domain.RawJob {
	var out []domain.RawJob
	doc.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if li.Find(".base-card, .job-search-card").Length() == 0 && !li.Is(".base-card, .job-search-card") {
			return true
		}
		if job, ok := parseCard(li); ok {
			out = append(out, job)
		}
		return len(out) < maxCards
	})
	return out
}

func parseCard(li *goquery.Selection) (domain.RawJob, bool) {
	title := sources.CleanText(li.Find(".base-search-card__title").First().Text())
	if title == "" {
		title = sources.CleanText(li.Find(".sr-only").First().Text())
	}
	if title == "" {
		return domain.RawJob{}, false
	}

	company := sources.CleanText(li.Find(".base-search-card__subtitle").First().Text())
	if company == "" {
		company = sources.CleanText(li.Find(".hidden-nested-link").First().Text())
	}
	loc := sources.CleanText(li.Find(".job-search-card__location").First().Text())
	if loc == "" {
		loc = sources.CleanText(li.Find(".base-search-card__metadata").First().Text())
	}

	var link, id string
	li.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if m := viewRe.FindStringSubmatch(href); m != nil {
			link = strings.SplitN(href, "?", 2)[0]
			id = m[1]
			return false
		}
		return true
	})

	posted, _ := li.Find("[datetime]").First().Attr("datetime")

	logo, _ := li.Find("img[data-delayed-url]").First().Attr("data-delayed-url")
	if logo == "" {
		li.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			if src, _ := img.Attr("src"); strings.HasPrefix(src, "https://media.licdn") {
				logo = src
				return false
			}
			return true
		})
	}

	return domain.RawJob{
		Title:           title,
		CompanyName:     sources.FirstNonEmpty(company, "Unknown"),
		CompanyLogoURL:  logo,
		Skills:          sources.ExtractSkills(title),
		Location:        loc,
		IsRemote:        sources.GuessRemote(loc, title),
		SalaryCurrency:  "USD",
		JobType:         sources.GuessJobType(title),
		ExperienceLevel: sources.GuessLevel(title),
		SourcePlatform:  sources.LinkedIn,
		SourceURL:       link,
		ExternalID:      id,
		PostedAt:        posted,
		Metadata:        map[string]any{"source": "linkedin_guest"},
	}, true
}
