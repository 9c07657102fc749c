package remotive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/sources"
)

const fixture = `{"jobs":[{"id":12345,"url":"https://remotive.com/remote-jobs/software-dev/go-12345",
"title":"Senior Go Engineer","company_name":"Acme","company_logo":"https://logo/acme.png",
"category":"Software Development","tags":["go","kubernetes","a"],"job_type":"contract",
"publication_date":"2026-10-01T10:00:00","candidate_required_location":"Worldwide",
"description":"<p>Build <b>APIs</b></p>"}]}`

func TestFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/remote-jobs", r.URL.Path)
		gotQuery = r.URL.Query().Get("search")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil))
	jobs, err := s.Fetch(context.Background(), "go developer", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "go developer", gotQuery)
	j := jobs[0]
	assert.Equal(t, "12345", j.ExternalID)
	assert.Equal(t, "Build APIs", j.Description)
	assert.Equal(t, []string{"go", "kubernetes"}, j.Skills)
	assert.Equal(t, "contract", j.JobType)
	assert.Equal(t, "senior", j.ExperienceLevel)
	assert.True(t, j.IsRemote)
	assert.Equal(t, sources.Remotive, j.SourcePlatform)
}

func TestFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil))
	_, err := s.Fetch(context.Background(), "go", "")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTypeUnavailable))
}
