package arbeitnow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/sources"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/job-board-api", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"slug":"backend-berlin-1","company_name":"Berliner GmbH",
			"title":"Junior Backend Developer","description":"<p>PHP &amp; Go</p>","remote":false,
			"url":"https://www.arbeitnow.com/view/backend-berlin-1","tags":["PHP","Go"],
			"location":"Berlin","created_at":1760000000}]}`))
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL}, sources.NewClient(5*time.Second, nil))
	jobs, err := s.Fetch(context.Background(), "backend", "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "backend-berlin-1", j.ExternalID)
	assert.Equal(t, "PHP & Go", j.Description)
	assert.Equal(t, "EUR", j.SalaryCurrency)
	assert.Equal(t, "entry", j.ExperienceLevel)
	assert.False(t, j.IsRemote)

	ts, ok := normalize.ParseTimestamp(j.PostedAt)
	require.True(t, ok)
	assert.Equal(t, int64(1760000000), ts.Unix())
}
