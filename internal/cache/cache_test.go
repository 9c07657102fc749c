package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
)

func TestDecodeFillsEmptySlices(t *testing.T) {
	s, err := Decode([]byte(`{"run_id":"r1"}`))
	require.NoError(t, err)
	assert.Equal(t, "r1", s.RunID)
	assert.NotNil(t, s.Jobs)
	assert.NotNil(t, s.Matches)
}

func TestEncodeDecodeKeepsPairing(t *testing.T) {
	in := domain.Snapshot{
		RunID:     "r2",
		FetchedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Jobs:      []domain.JobListing{{ID: "a", Title: "Go Developer"}},
		Matches:   []domain.JobMatch{{JobID: "a", MatchScore: 77}},
	}
	b, err := Encode(in)
	require.NoError(t, err)
	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in.RunID, out.RunID)
	assert.Equal(t, "a", out.Matches[0].JobID)
	assert.Equal(t, 77, out.Matches[0].MatchScore)
}

func TestWithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	assert.Equal(t, DefaultKey, o.Key)
	assert.Equal(t, DefaultTTL, o.TTL)
	assert.Equal(t, "k", Options{Key: "k"}.WithDefaults().Key)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
