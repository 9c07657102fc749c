package joinrise

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

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/jobs/public", r.URL.Path)
		assert.Equal(t, "Software Engineering", q.Get("department"))
		assert.Equal(t, "flutter", q.Get("search"))
		_, _ = w.Write([]byte(`{"result":{"jobs":[{"_id":"6650a1","title":"Flutter Engineer",
			"owner":{"companyName":"Rise","photo":"https://cdn/rise.png"},"seniority":"Entry Level",
			"locationAddress":"Lahore, Pakistan","url":"https://joinrise.co/j/6650a1","createdAt":"2026-10-05T12:00:00.000Z",
			"skills_suggest":["a","b","c","d","e","f"],
			"descriptionBreakdown":{"oneSentenceJobSummary":"Ship mobile apps.","keywords":["Flutter","Dart"],
			"workModel":"Remote","employmentType":"Contract","salaryRangeMinYearly":30000}}]}}`))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil))
	jobs, err := s.Fetch(context.Background(), "flutter", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "6650a1", j.ExternalID)
	assert.Equal(t, "Ship mobile apps.", j.Description)
	assert.Len(t, j.Requirements, 5)
	assert.Equal(t, []string{"Flutter", "Dart"}, j.Skills)
	assert.True(t, j.IsRemote)
	assert.Equal(t, "contract", j.JobType)
	assert.Equal(t, "entry", j.ExperienceLevel)
	assert.Nil(t, j.SalaryMax)
}
