// Package indeed scrapes Indeed's country sites. It has no API, so Fetch
// walks a chain of strategies (RSS feed, desktop search page, mobile page,
// and optionally a headless browser) and keeps the first that yields jobs.
package indeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/sources"
)

type Config struct {
	// BaseURL replaces https://<domain>.indeed.com when set.
	BaseURL string
	// Renderer enables the headless-browser strategy.
	Renderer sources.Renderer
	Now      func() time.Time
}

type Scraper struct {
	cfg Config
	c   *sources.Client
	log *zap.Logger
}

func New(cfg Config, c *sources.Client, log *zap.Logger) *Scraper {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, c: c, log: log.Named(sources.Indeed)}
}

func (s *Scraper) Name() string { return sources.Indeed }
func (s *Scraper) RequiresAPIKey() bool { return false }

// countryDomains is scanned in order; the first substring hit wins.
var countryDomains = []struct{ name, sub string }{
	{"pakistan", "pk"}, {"india", "in"}, {"uk", "uk"}, {"united kingdom", "uk"}, {"britain", "uk"},
	{"canada", "ca"}, {"australia", "au"}, {"germany", "de"}, {"france", "fr"}, {"italy", "it"},
	{"netherlands", "nl"}, {"spain", "es"}, {"brazil", "br"}, {"mexico", "mx"}, {"japan", "jp"},
	{"singapore", "sg"}, {"south africa", "za"}, {"nigeria", "ng"}, {"kenya", "ke"},
	{"egypt", "eg"}, {"saudi arabia", "sa"}, {"uae", "ae"}, {"united arab emirates", "ae"},
	{"qatar", "qa"}, {"malaysia", "my"}, {"philippines", "ph"}, {"indonesia", "id"},
	{"thailand", "th"}, {"vietnam", "vn"}, {"poland", "pl"}, {"turkey", "tr"},
	{"ireland", "ie"}, {"sweden", "se"}, {"norway", "no"}, {"denmark", "dk"}, {"finland", "fi"},
	{"switzerland", "ch"}, {"austria", "at"}, {"belgium", "be"}, {"portugal", "pt"},
	{"argentina", "ar"}, {"chile", "cl"}, {"colombia", "co"}, {"peru", "pe"},
	{"new zealand", "nz"}, {"china", "cn"}, {"south korea", "kr"}, {"taiwan", "tw"},
	{"hong kong", "hk"}, {"romania", "ro"}, {"czech", "cz"}, {"hungary", "hu"}, {"greece", "gr"},
	{"usa", "www"}, {"united states", "www"}, {"us", "www"},
}

// Domain returns the Indeed subdomain serving location ("pk", "uk"...),
// or "www" for the US site.
func Domain(location string) string {
	l := strings.ToLower(location)
	if l == "" {
		return "www"
	}
	for _, c := range countryDomains {
		if strings.Contains(l, c.name) {
			return c.sub
		}
	}
	return "www"
}

var currencies = map[string]string{
	"pk": "PKR", "in": "INR", "uk": "GBP", "ca": "CAD", "au": "AUD",
	"de": "EUR", "fr": "EUR", "it": "EUR", "nl": "EUR", "es": "EUR", "be": "EUR",
	"sg": "SGD", "za": "ZAR", "ae": "AED", "sa": "SAR", "jp": "JPY",
	"br": "BRL", "mx": "MXN", "www": "USD",
}

// Currency is the local currency of an Indeed subdomain, USD if unknown.
func Currency(sub string) string {
	if c, ok := currencies[sub]; ok {
		return c
	}
	return "USD"
}

func (s *Scraper) host(sub string) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/")
	}
	return "https://" + sub + ".indeed.com"
}

func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	sub := Domain(location)
	base := s.host(sub)

	params := url.Values{"q": {query}, "sort": {"date"}, "fromage": {"60"}}
	if location != "" {
		params.Set("l", location)
	}
	desktop := url.Values{"limit": {"25"}}
	for k, v := range params {
		desktop[k] = v
	}

	strategies := []sources.Strategy{
		{Name: "rss", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			return s.fetchRSS(ctx, base+"/rss?"+params.Encode(), sub)
		}},
		{Name: "desktop", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			return s.fetchPage(ctx, base+"/jobs?"+desktop.Encode(), sub, 5000, s.parseDesktop)
		}},
		{Name: "mobile", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			return s.fetchPage(ctx, base+"/m/jobs?"+params.Encode(), sub, 3000, s.parseMobile)
		}},
	}
	if s.cfg.Renderer != nil {
		strategies = append(strategies, sources.Strategy{Name: "browser", Run: func(ctx context.Context) ([]domain.RawJob, error) {
			html, err := s.cfg.Renderer.Render(ctx, base+"/jobs?"+desktop.Encode())
			if err != nil {
				return nil, err
			}
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return nil, err
			}
			return s.parseDesktop(html, doc, sub), nil
		}})
	}

	jobs := sources.RunChain(ctx, s.log.With(zap.String("domain", sub), zap.String("query", query)), strategies...)
	return jobs, nil
}

func (s *Scraper) fetchRSS(ctx context.Context, u, sub string) ([]domain.RawJob, error) {
	h := sources.BrowserHeaders(sources.MobileUA)
	h.Set("Accept", "application/rss+xml,application/xml,text/xml,*/*;q=0.1")

	resp, err := s.c.Get(ctx, u, h)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errs.Unavailable(fmt.Sprintf("rss status %d", resp.StatusCode), nil)
	}
	if !sources.LooksLikeRSS(resp.Text()) {
		return nil, errs.Blocked("rss response is not xml", nil)
	}
	items, err := sources.ParseRSS(resp.Body)
	if err != nil {
		return nil, errs.InvalidInput("parsing rss", err)
	}
	return parseRSSItems(items, sub), nil
}

type pageParser func(html string, doc *goquery.Document, sub string) []domain.RawJob

func (s *Scraper) fetchPage(ctx context.Context, u, sub string, minLen int, parse pageParser) ([]domain.RawJob, error) {
	resp, err := s.c.Get(ctx, u, sources.BrowserHeaders(sources.MobileUA))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errs.Unavailable(fmt.Sprintf("page status %d", resp.StatusCode), nil)
	}
	if sources.LooksLikeChallenge(resp, sources.Challenge{MinLength: minLen, Keywords: sources.DefaultChallengeKeywords}) {
		return nil, errs.Blocked("challenge page", nil)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Text()))
	if err != nil {
		return nil, errs.InvalidInput("parsing html", err)
	}
	return parse(resp.Text(), doc, sub), nil
}
