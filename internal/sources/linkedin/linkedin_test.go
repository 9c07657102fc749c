package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/sources"
)

const guestCards = `
<li>
  <div class="base-card relative job-search-card" data-entity-urn="urn:li:jobPosting:3812345678">
    <a class="base-card__full-link" href="https://pk.linkedin.com/jobs/view/senior-flutter-developer-at-appnest-3812345678?refId=abc">
      <span class="sr-only">Senior Flutter Developer</span>
    </a>
    <img class="artdeco-entity-image" data-delayed-url="https://media.licdn.com/dms/image/logo.png" />
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">
        Senior Flutter Developer
      </h3>
      <h4 class="base-search-card__subtitle">
        <a class="hidden-nested-link" href="https://pk.linkedin.com/company/appnest">AppNest &amp; Co</a>
      </h4>
      <div class="base-search-card__metadata">
        <span class="job-search-card__location">Karachi, Sindh, Pakistan</span>
        <time class="job-search-card__listdate" datetime="2026-10-15">4 days ago</time>
      </div>
    </div>
  </div>
</li>
<li><div class="base-card"><h3 class="base-search-card__title"> </h3></div></li>
<li><span>not a card</span></li>
`

func newScraper(t *testing.T, h http.HandlerFunc) *Scraper {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil), nil)
}

func TestFetchGuestCards(t *testing.T) {
	s := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs-guest/jobs/api/seeMoreJobPostings/search", r.URL.Path)
		assert.Equal(t, "DD", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "Karachi", r.URL.Query().Get("location"))
		assert.Equal(t, sources.MobileUA, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(guestCards))
	})

	jobs, err := s.Fetch(context.Background(), "flutter", "Karachi")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Senior Flutter Developer", j.Title)
	assert.Equal(t, "AppNest & Co", j.CompanyName)
	assert.Equal(t, "Karachi, Sindh, Pakistan", j.Location)
	assert.Equal(t, "senior-flutter-developer-at-appnest-3812345678", j.ExternalID)
	assert.Equal(t, "https://pk.linkedin.com/jobs/view/senior-flutter-developer-at-appnest-3812345678", j.SourceURL)
	assert.Equal(t, "2026-10-15", j.PostedAt)
	assert.Equal(t, "https://media.licdn.com/dms/image/logo.png", j.CompanyLogoURL)
	assert.Equal(t, "senior", j.ExperienceLevel)
	assert.Equal(t, []string{"Flutter"}, j.Skills)
	assert.Equal(t, "linkedin_guest", j.Metadata["source"])
}

func TestFetchFallsBackToSearchJSONLD(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@type":"JobPosting","title":"Data Engineer",
"hiringOrganization":{"name":"Lakehouse","logo":{"url":"https://logo"}},"identifier":{"value":"li-77"},
"jobLocationType":"TELECOMMUTE","baseSalary":{"currency":"EUR","value":{"minValue":"60000","maxValue":80000}},
"description":"<p>Python &amp; SQL</p>","datePosted":"2026-10-10"}</script></head><body>` +
		strings.Repeat("<p>content</p>", 200) + `</body></html>`

	s := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs-guest/jobs/api/seeMoreJobPostings/search":
			_, _ = w.Write([]byte("<html>Please complete this security challenge to continue browsing.</html>"))
		case "/jobs/search":
			assert.Equal(t, "navigate", r.Header.Get("Sec-Fetch-Mode"))
			assert.Equal(t, sources.DesktopUA, r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(page))
		}
	})

	jobs, err := s.Fetch(context.Background(), "data engineer", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "li-77", j.ExternalID)
	assert.True(t, j.IsRemote)
	assert.Equal(t, "EUR", j.SalaryCurrency)
	require.NotNil(t, j.SalaryMin)
	assert.Equal(t, 60000.0, *j.SalaryMin)
	assert.Equal(t, "https://logo", j.CompanyLogoURL)
	assert.Equal(t, "Python & SQL", j.Description)
	assert.Equal(t, "linkedin_jsonld", j.Metadata["source"])
}

func TestFetchBlockedEverywhere(t *testing.T) {
	s := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	jobs, err := s.Fetch(context.Background(), "go", "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
