package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
)

func TestLevelKeyword(t *testing.T) {
	cases := []struct {
		years float64
		want  string
	}{
		{0, "junior"}, {2, "junior"}, {3, ""}, {5, ""},
		{6, "senior"}, {10, "senior"}, {12, "lead"}, {15, "lead"}, {20, "director"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LevelKeyword(c.years), "years=%v", c.years)
	}
}

func TestBuildFullProfile(t *testing.T) {
	p := domain.UserProfile{
		Headline:         "Senior Flutter Developer",
		Location:         "Karachi, Pakistan",
		Skills:           []string{"Flutter", "Dart", "Firebase", "Kotlin"},
		ExperienceYears:  7,
		DesiredLocations: []string{"Pakistan", "Dubai"},
		DesiredJobTypes:  []domain.JobType{domain.JobTypeRemote},
	}
	qs := Build(p)

	require.NotEmpty(t, qs)
	assert.Equal(t, "Senior Flutter Developer", qs[0])
	assert.Equal(t, "senior Flutter Developer", qs[1])
	assert.Equal(t, "Flutter Dart Firebase", qs[2])
	assert.Equal(t, "Mobile Developer", qs[3])
	assert.Equal(t, "senior Software Developer", qs[4])
	assert.Equal(t, "Senior Flutter Developer pakistan", qs[5])
	assert.Equal(t, "Senior Flutter Developer karachi", qs[6])
	// "Pakistan" is the home country, so only Dubai gets its own query
	assert.Equal(t, "Senior Flutter Developer Dubai", qs[7])
	assert.Equal(t, "remote Flutter", qs[8])
	assert.Len(t, qs, 9)
}

func TestBuildFallbacks(t *testing.T) {
	assert.Equal(t, []string{DefaultQuery}, Build(domain.UserProfile{ExperienceYears: 4}))

	qs := Build(domain.UserProfile{Skills: []string{"Kubernetes"}, ExperienceYears: 4})
	require.NotEmpty(t, qs)
	assert.Equal(t, "DevOps Engineer", qs[0])
}

func TestBuildCapsAndDedupes(t *testing.T) {
	p := domain.UserProfile{
		Headline:         "Data Scientist",
		Location:         "Berlin, Germany",
		Skills:           []string{"Python", "Pandas", "NumPy", "SQL", "Spark"},
		ExperienceYears:  1,
		DesiredLocations: []string{"Munich", "Hamburg", "Paris"},
		DesiredJobTypes:  []domain.JobType{domain.JobTypeRemote, domain.JobTypeInternship},
	}
	qs := Build(p)
	assert.LessOrEqual(t, len(qs), MaxQueries)

	seen := map[string]bool{}
	for _, q := range qs {
		assert.False(t, seen[q], "duplicate %q", q)
		seen[q] = true
	}
}
