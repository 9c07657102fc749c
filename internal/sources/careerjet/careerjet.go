// Package careerjet scrapes CareerJet's country sites with colly.
package careerjet

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/sources"
)

const maxCards = 25

type Config struct {
	// BaseURL replaces https://www.<country domain> when set.
	BaseURL string
	Timeout time.Duration
	Now     func() time.Time
}

type Scraper struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, log: log.Named(sources.CareerJet)}
}

func (s *Scraper) Name() string { return sources.CareerJet }
func (s *Scraper) RequiresAPIKey() bool { return false }

var countryDomains = []struct{ name, host string }{
	{"pakistan", "careerjet.pk"}, {"india", "careerjet.co.in"}, {"uk", "careerjet.co.uk"},
	{"united kingdom", "careerjet.co.uk"}, {"canada", "careerjet.ca"}, {"australia", "careerjet.com.au"},
	{"germany", "careerjet.de"}, {"france", "careerjet.fr"}, {"italy", "careerjet.it"},
	{"netherlands", "careerjet.nl"}, {"spain", "careerjet.es"}, {"brazil", "careerjet.com.br"},
	{"mexico", "careerjet.com.mx"}, {"japan", "careerjet.jp"}, {"singapore", "careerjet.com.sg"},
	{"south africa", "careerjet.co.za"}, {"nigeria", "careerjet.com.ng"}, {"egypt", "careerjet.com.eg"},
	{"saudi arabia", "careerjet.com.sa"}, {"uae", "careerjet.ae"}, {"united arab emirates", "careerjet.ae"},
	{"qatar", "careerjet.com.qa"}, {"malaysia", "careerjet.com.my"}, {"philippines", "careerjet.ph"},
	{"indonesia", "careerjet.co.id"}, {"turkey", "careerjet.com.tr"}, {"ireland", "careerjet.ie"},
	{"sweden", "careerjet.se"}, {"new zealand", "careerjet.co.nz"}, {"china", "careerjet.cn"},
	{"hong kong", "careerjet.hk"}, {"usa", "careerjet.com"}, {"united states", "careerjet.com"},
	{"us", "careerjet.com"},
}

// Domain picks the CareerJet site for a location, careerjet.com by default.
func Domain(location string) string {
	l := strings.ToLower(location)
	if l == "" {
		return "careerjet.com"
	}
	for _, c := range countryDomains {
		if strings.Contains(l, c.name) {
			return c.host
		}
	}
	return "careerjet.com"
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	host := Domain(location)
	base := "https://www." + host
	if s.cfg.BaseURL != "" {
		base = strings.TrimRight(s.cfg.BaseURL, "/")
	}

	params := url.Values{"s": {query}, "sort": {"date"}, "radius": {"50"}}
	if city := strings.TrimSpace(strings.Split(location, ",")[0]); city != "" {
		params.Set("l", city)
	}
	searchURL := base + "/search/jobs?" + params.Encode()
	log := s.log.With(zap.String("domain", host), zap.String("query", query))

	c := colly.NewCollector(colly.UserAgent(sources.MobileUA))
	c.WithTransport(ctxTransport{ctx: ctx, base: http.DefaultTransport})
	c.SetRequestTimeout(s.cfg.Timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept-Encoding", "identity")
	})

	now := s.cfg.Now()
	blocked := false
	c.OnResponse(func(r *colly.Response) {
		if len(r.Body) < 2000 || strings.Contains(strings.ToLower(string(r.Body)), "captcha") {
			blocked = true
		}
	})

	var jobs []domain.RawJob
	c.OnHTML(`article[class*="job"]`, func(e *colly.HTMLElement) {
		if blocked || len(jobs) >= maxCards {
			return
		}
		if j, ok := parseCard(e.DOM, base, host, now); ok {
			jobs = append(jobs, j)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		if blocked || len(jobs) > 0 {
			return
		}
		jobs = parseFallback(e.DOM, base, host, now)
	})
	c.OnError(func(r *colly.Response, err error) {
		log.Warn("careerjet request failed", zap.Int("status", r.StatusCode), zap.Error(err))
	})

	if err := c.Visit(searchURL); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("careerjet visit failed", zap.Error(err))
		return nil, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if blocked {
		log.Warn("careerjet returned an empty or challenge page")
		return nil, nil
	}
	return jobs, nil
}

// ctxTransport binds every collector request to the fetch context, so a task
// timeout or cancellation stops the visit.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// parseFallback handles layouts without <article> cards: first div cards,
// then bare /job/ links.
func parseFallback(body *goquery.Selection, base, host string, now time.Time) []domain.RawJob {
	var out []domain.RawJob
	body.Find(`div[class*="job"]`).EachWithBreak(func(_ int, d *goquery.Selection) bool {
		// Only innermost job containers; wrappers like "jobs-list" hold many.
		if d.Find(`div[class*="job"]`).Length() > 0 {
			return true
		}
		if j, ok := parseCard(d, base, host, now); ok {
			out = append(out, j)
		}
		return len(out) < maxCards
	})
	if len(out) > 0 {
		return out
	}

	body.Find(`a[href^="/job"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		title := sources.CleanText(a.Text())
		if len(title) < 3 {
			return true
		}
		card := a.Parent()
		company := firstText(card, `[class*="company"]`, `[class*="employer"]`)
		loc := firstText(card, `[class*="location"]`, `[class*="place"]`)
		href, _ := a.Attr("href")
		out = append(out, build(title, company, loc, base+href, "", nil, nil, host, now))
		return len(out) < maxCards
	})
	return out
}

func parseCard(card *goquery.Selection, base, host string, now time.Time) (domain.RawJob, bool) {
	head := card.Find("h2, h3, h4").First()
	link := head.Find("a[href]").First()
	if link.Length() == 0 {
		link = card.Find("a[href]").First()
	}
	title := ""
	if t, ok := link.Attr("title"); ok {
		title = sources.CleanText(t)
	}
	if title == "" {
		title = sources.CleanText(head.Text())
	}
	if title == "" {
		title = sources.CleanText(link.Text())
	}
	if len([]rune(title)) < 3 {
		return domain.RawJob{}, false
	}

	href, _ := link.Attr("href")
	if href == "" {
		href, _ = card.Attr("data-url")
	}
	jobURL := ""
	switch {
	case strings.HasPrefix(href, "/"):
		jobURL = base + href
	case strings.HasPrefix(href, "http"):
		jobURL = href
	}

	company := firstText(card, `[class*="company"]`, `[class*="employer"]`)
	loc := firstText(card, `[class*="location"]`, `[class*="place"]`, `[class*="city"]`)
	posted := firstText(card, `[class*="date"]`, `[class*="posted"]`, `time`, `.badge`)
	var lo, hi *float64
	if sal := firstText(card, `[class*="salary"]`, `[class*="pay"]`); sal != "" {
		lo, hi = sources.ParseSalaryNumbers(sal)
	}
	return build(title, company, loc, jobURL, posted, lo, hi, host, now), true
}

func firstText(card *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := sources.CleanText(card.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func build(title, company, loc, jobURL, posted string, lo, hi *float64, host string, now time.Time) domain.RawJob {
	return domain.RawJob{
		Title:           title,
		CompanyName:     sources.FirstNonEmpty(company, "Unknown"),
		Skills:          sources.ExtractSkills(title),
		Location:        loc,
		IsRemote:        sources.GuessRemote(loc, title),
		SalaryMin:       lo,
		SalaryMax:       hi,
		SalaryCurrency:  "USD",
		JobType:         sources.GuessJobType(title),
		ExperienceLevel: sources.GuessLevel(title),
		SourcePlatform:  sources.CareerJet,
		SourceURL:       jobURL,
		ExternalID:      "cj-" + normalize.DJB2Base36(title+company),
		PostedAt:        sources.ParseRelativeDate(posted, now),
		Metadata:        map[string]any{"source": "careerjet", "domain": host},
	}
}
