package remoteok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/sources"
)

func TestTag(t *testing.T) {
	assert.Equal(t, "react", Tag("Senior React Developer"))
	assert.Equal(t, "barista", Tag("Barista Lead"))
	assert.Equal(t, "", Tag("  "))
}

func TestFetchSkipsLegalNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("tags"))
		assert.Equal(t, sources.AppUA, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[
			{"legal":"API terms"},
			{"id":"998","slug":"go-dev-998","position":"Golang Engineer","company":"Gopher Inc",
			 "tags":["golang","go","docker","remote"],"salary_min":90000,"salary_max":0,
			 "date":"2026-10-10T00:00:00+00:00","url":"https://remoteok.com/remote-jobs/998",
			 "description":"<div>Write Go</div>"}
		]`))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil))
	jobs, err := s.Fetch(context.Background(), "golang backend", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "998", j.ExternalID)
	assert.Equal(t, "Remote", j.Location)
	assert.Equal(t, []string{"Go", "Docker"}, j.Skills)
	require.NotNil(t, j.SalaryMin)
	assert.Equal(t, 90000.0, *j.SalaryMin)
	assert.Nil(t, j.SalaryMax)
}
