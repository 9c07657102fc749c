package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDeriveIDKnownValues(t *testing.T) {
	assert.Equal(t, "remotive-29ebdef76c7113b3", DeriveID("remotive", "12345"))
	assert.Equal(t, "indeed-495d9fa46524fd9a", DeriveID("indeed", "a1b2c3"))
	// non-ASCII input hashes UTF-16 code units
	assert.Equal(t, "linkedin-7c29037e00c34c16", DeriveID("linkedin", "Zürich-€"))
}

func TestDJB2Base36(t *testing.T) {
	assert.Equal(t, "a6cev", DJB2Base36("Go DeveloperAcme"))
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := domain.RawJob{
		Title:          "  Go Developer ",
		CompanyName:    "Acme",
		SourcePlatform: "remotive",
		ExternalID:     "12345",
		PostedAt:       "2025-05-20T10:00:00Z",
	}
	a, err := Normalize(raw, now)
	require.NoError(t, err)
	b, err := Normalize(raw, now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, DeriveID(a.SourcePlatform, a.ExternalID), a.ID)
	assert.Equal(t, "Go Developer", a.Title)
}

func TestNormalizeDefaults(t *testing.T) {
	l, err := Normalize(domain.RawJob{
		Title:           "Engineer",
		CompanyName:     "Acme",
		SourcePlatform:  "jobicy",
		ExternalID:      "9",
		JobType:         "gig",
		ExperienceLevel: "wizard",
		Description:     strings.Repeat("é", 6000),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, domain.JobTypeFullTime, l.JobType)
	assert.Equal(t, domain.LevelMid, l.ExperienceLevel)
	assert.Equal(t, "USD", l.SalaryCurrency)
	assert.Equal(t, MaxDescriptionRunes, len([]rune(l.Description)))
	assert.Nil(t, l.Location)
	assert.Nil(t, l.SourceURL)
	assert.True(t, l.IsActive)
	assert.NotNil(t, l.Metadata)
	assert.Equal(t, now, l.PostedAt)
}

func TestPostedAtValidation(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-05-01", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"Thu, 29 May 2025 08:00:00 GMT", time.Date(2025, 5, 29, 8, 0, 0, 0, time.UTC)},
		{"1748000000", time.Unix(1748000000, 0).UTC()},
		{"not a date", now},
		{"2019-12-31", now},
		{"2025-06-03T00:00:00Z", now},
		{"", now},
	}
	for _, c := range cases {
		assert.True(t, c.want.Equal(PostedAt(c.in, now)), c.in)
	}
}

func TestNormalizeFallbackID(t *testing.T) {
	raw := domain.RawJob{Title: "Designer", CompanyName: "Studio", SourcePlatform: "careerjet"}
	a, err := Normalize(raw, now)
	require.NoError(t, err)
	b, _ := Normalize(raw, now)
	assert.Equal(t, a.ID, b.ID)
	assert.True(t, strings.HasPrefix(a.ExternalID, "fallback-"))

	_, err = Normalize(domain.RawJob{SourcePlatform: "careerjet"}, now)
	assert.True(t, errs.Is(err, errs.ErrTypeInvalidInput))
}

func TestNormalizeSkillsDeduped(t *testing.T) {
	l, err := Normalize(domain.RawJob{
		Title: "x", CompanyName: "y", SourcePlatform: "p", ExternalID: "1",
		Skills: []string{"Go", "go", " ", "Docker"},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Docker"}, l.SkillsRequired)
}
