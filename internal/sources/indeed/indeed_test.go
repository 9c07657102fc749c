package indeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/sources"
)

var pad = strings.Repeat("<!-- filler -->", 500)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Indeed</title>
<item>
  <title>Flutter Developer - Tech Karachi</title>
  <link>https://pk.indeed.com/viewjob?jk=a1b2c3d4&amp;from=rss</link>
  <description><![CDATA[Karachi, Sindh - Build apps with <b>Flutter</b>. Salary: PKR 150,000 - 250,000 a month]]></description>
  <pubDate>Mon, 12 Oct 2026 09:00:00 GMT</pubDate>
</item>
<item><title></title></item>
</channel></rss>`

const mosaicPage = `<html><body><script>
window.mosaic.providerData["mosaic-provider-jobcards"]={"metaData":{"mosaicProviderJobCardsModel":{"results":[
{"title":"Go Engineer","company":"Acme","jobkey":"ff01","formattedLocation":"Remote",
 "extractedSalary":{"min":4000,"max":6000},"jobTypes":["Contract"],"formattedRelativeTime":"2 days ago",
 "snippet":"<li>Go &amp; gRPC</li>"},
{"title":"","company":"Ghost","jobkey":"ff02"}]}}};</script>` + "%s</body></html>"

const mobilePage = `<html><body>
<div class="job"><a href="/m/viewjob?jk=abc123&amp;from=serp"><h2 class="job-title">Android Developer</h2></a>
<span class="companyName">Droid Co</span><div class="location">Lahore, Pakistan</div></div>
%s</body></html>`

func newScraper(t *testing.T, h http.Handler) *Scraper {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return New(Config{BaseURL: srv.URL, Now: func() time.Time { return now }}, sources.NewClient(5*time.Second, nil), nil)
}

func TestDomainAndCurrency(t *testing.T) {
	assert.Equal(t, "pk", Domain("Karachi, Pakistan"))
	assert.Equal(t, "uk", Domain("London, United Kingdom"))
	assert.Equal(t, "ae", Domain("Dubai, UAE"))
	assert.Equal(t, "www", Domain("Austin, USA"))
	assert.Equal(t, "www", Domain(""))
	assert.Equal(t, "www", Domain("Atlantis"))

	assert.Equal(t, "PKR", Currency("pk"))
	assert.Equal(t, "EUR", Currency("nl"))
	assert.Equal(t, "USD", Currency("ng"))
}

func TestFetchPrefersRSS(t *testing.T) {
	s := newScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			assert.Equal(t, "flutter", r.URL.Query().Get("q"))
			assert.Equal(t, "Karachi, Pakistan", r.URL.Query().Get("l"))
			assert.Equal(t, "60", r.URL.Query().Get("fromage"))
			_, _ = w.Write([]byte(rssFeed))
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))

	jobs, err := s.Fetch(context.Background(), "flutter", "Karachi, Pakistan")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Flutter Developer", j.Title)
	assert.Equal(t, "Tech Karachi", j.CompanyName)
	assert.Equal(t, "a1b2c3d4", j.ExternalID)
	assert.Equal(t, "Karachi, Sindh", j.Location)
	assert.Equal(t, "PKR", j.SalaryCurrency)
	require.NotNil(t, j.SalaryMin)
	require.NotNil(t, j.SalaryMax)
	assert.Equal(t, 150000.0, *j.SalaryMin)
	assert.Equal(t, 250000.0, *j.SalaryMax)
	assert.Contains(t, j.Skills, "Flutter")
	assert.Equal(t, "indeed_rss", j.Metadata["source"])
	assert.Equal(t, "pk", j.Metadata["domain"])
}

func TestFetchFallsBackToMosaic(t *testing.T) {
	s := newScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			_, _ = w.Write([]byte("<html>please enable javascript</html>"))
		case "/jobs":
			assert.Equal(t, "25", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(strings.Replace(mosaicPage, "%s", pad, 1)))
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))

	jobs, err := s.Fetch(context.Background(), "go", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "ff01", j.ExternalID)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=ff01", j.SourceURL)
	assert.Equal(t, "Go & gRPC", j.Description)
	assert.True(t, j.IsRemote)
	assert.Equal(t, "contract", j.JobType)
	assert.Equal(t, "2026-10-17T12:00:00Z", j.PostedAt)
	require.NotNil(t, j.SalaryMax)
	assert.Equal(t, 6000.0, *j.SalaryMax)
	assert.Equal(t, "indeed_mosaic", j.Metadata["source"])
}

func TestFetchFallsBackToMobile(t *testing.T) {
	s := newScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.WriteHeader(http.StatusForbidden)
		case "/jobs":
			_, _ = w.Write([]byte("<html>short</html>"))
		case "/m/jobs":
			_, _ = w.Write([]byte(strings.Replace(mobilePage, "%s", pad, 1)))
		}
	}))

	jobs, err := s.Fetch(context.Background(), "android", "Lahore, Pakistan")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "abc123", jobs[0].ExternalID)
	assert.Equal(t, "Android Developer", jobs[0].Title)
	assert.Equal(t, "Droid Co", jobs[0].CompanyName)
	assert.Equal(t, "Lahore, Pakistan", jobs[0].Location)
	assert.Equal(t, "https://pk.indeed.com/viewjob?jk=abc123", jobs[0].SourceURL)
}

func TestFetchAllStrategiesFail(t *testing.T) {
	s := newScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	jobs, err := s.Fetch(context.Background(), "go", "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

type fakeRenderer struct{ html string }

func (f fakeRenderer) Render(context.Context, string) (string, error) { return f.html, nil }

func TestFetchBrowserStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	html := `<div class="job_seen_beacon"><h2 class="jobTitle"><a data-jk="9f9f"><span title="Senior Go Developer">Senior Go Developer</span></a></h2>
<span data-testid="company-name">Gopher Works</span><div data-testid="text-location">Remote in Karachi</div></div>`
	s := New(Config{BaseURL: srv.URL, Renderer: fakeRenderer{html: html}}, sources.NewClient(5*time.Second, nil), nil)

	jobs, err := s.Fetch(context.Background(), "go", "Pakistan")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "9f9f", jobs[0].ExternalID)
	assert.Equal(t, "Senior Go Developer", jobs[0].Title)
	assert.Equal(t, "senior", jobs[0].ExperienceLevel)
	assert.True(t, jobs[0].IsRemote)
}

func TestParseJSONLD(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<script type="application/ld+json">
{"@type":"ItemList","itemListElement":[{"item":{"@type":"JobPosting","title":"QA Engineer",
"hiringOrganization":{"name":"Testers","logo":"https://logo"},"identifier":{"value":"ld-1"},
"jobLocation":{"address":{"addressLocality":"Islamabad","addressCountry":"PK"}},
"employmentType":["PART_TIME"],"datePosted":"2026-10-01"}}]}</script>`))
	require.NoError(t, err)

	jobs := parseJSONLD(doc, "pk")
	require.Len(t, jobs, 1)
	assert.Equal(t, "ld-1", jobs[0].ExternalID)
	assert.Equal(t, "Islamabad, PK", jobs[0].Location)
	assert.Equal(t, "part_time", jobs[0].JobType)
	assert.Equal(t, "PKR", jobs[0].SalaryCurrency)
	assert.Equal(t, "indeed_jsonld", jobs[0].Metadata["source"])
	assert.Equal(t, "pk", jobs[0].Metadata["domain"])
}
