package careerjet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/sources"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

const articles = `<html><body><ul class="jobs">
<li><article class="job clicky" data-url="/jobad/pk1">
  <header><h2><a href="/jobad/pk1" title="Junior Python Developer">Junior Python Developer</a></h2></header>
  <p class="company"><a>Indus Soft</a></p>
  <ul class="location"><li>Karachi</li></ul>
  <ul class="salary"><li>PKR 80,000 - 120,000 per month</li></ul>
  <footer><ul class="tags"><li><span class="badge">3 days ago</span></li></ul></footer>
</article></li>
<li><article class="job"><header><h2><a href="/jobad/x">QA</a></h2></header></article></li>
</ul>%s</body></html>`

const divCards = `<html><body><div class="jobs-list">
<div class="job-item"><h3><a href="https://elsewhere.example/job/1">React Native Engineer</a></h3>
<span class="employer">Mobile Hub</span><span class="place">Remote</span></div>
</div>%s</body></html>`

func pad() string { return strings.Repeat("<!-- filler -->", 200) }

func serve(t *testing.T, body string, check func(*http.Request)) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Now: func() time.Time { return now }}, nil)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "careerjet.pk", Domain("Lahore, Pakistan"))
	assert.Equal(t, "careerjet.co.in", Domain("Pune, India"))
	assert.Equal(t, "careerjet.ae", Domain("Dubai, United Arab Emirates"))
	assert.Equal(t, "careerjet.com", Domain(""))
}

func TestFetchArticles(t *testing.T) {
	s := serve(t, strings.Replace(articles, "%s", pad(), 1), func(r *http.Request) {
		assert.Equal(t, "/search/jobs", r.URL.Path)
		assert.Equal(t, "python", r.URL.Query().Get("s"))
		assert.Equal(t, "Karachi", r.URL.Query().Get("l"))
		assert.Equal(t, sources.MobileUA, r.Header.Get("User-Agent"))
	})

	jobs, err := s.Fetch(context.Background(), "python", "Karachi, Pakistan")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Junior Python Developer", j.Title)
	assert.Equal(t, "Indus Soft", j.CompanyName)
	assert.Equal(t, "Karachi", j.Location)
	assert.Equal(t, "cj-"+normalize.DJB2Base36("Junior Python DeveloperIndus Soft"), j.ExternalID)
	assert.True(t, strings.HasSuffix(j.SourceURL, "/jobad/pk1"))
	assert.Equal(t, "2026-10-16T12:00:00Z", j.PostedAt)
	assert.Equal(t, "entry", j.ExperienceLevel)
	require.NotNil(t, j.SalaryMin)
	assert.Equal(t, 80000.0, *j.SalaryMin)
	assert.Equal(t, "careerjet.pk", j.Metadata["domain"])
}

func TestFetchDivFallback(t *testing.T) {
	s := serve(t, strings.Replace(divCards, "%s", pad(), 1), nil)

	jobs, err := s.Fetch(context.Background(), "react native", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "React Native Engineer", jobs[0].Title)
	assert.Equal(t, "Mobile Hub", jobs[0].CompanyName)
	assert.Equal(t, "https://elsewhere.example/job/1", jobs[0].SourceURL)
	assert.True(t, jobs[0].IsRemote)
}

func TestFetchChallengePage(t *testing.T) {
	s := serve(t, "<html><body>complete the captcha</body></html>", nil)
	jobs, err := s.Fetch(context.Background(), "go", "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFetchCanceledContext(t *testing.T) {
	var hits atomic.Int32
	s := serve(t, strings.Replace(articles, "%s", pad(), 1), func(*http.Request) { hits.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs, err := s.Fetch(ctx, "python", "Karachi, Pakistan")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, jobs)
	assert.Zero(t, hits.Load())
}

func TestFetchStopsAtDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	s := New(Config{BaseURL: srv.URL, Timeout: time.Minute}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := s.Fetch(ctx, "go", "")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
