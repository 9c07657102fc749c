package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmatch-engine/internal/domain"
)

func TestEnsureUserConfigWritesDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Aggregation.MaxTasks)
	assert.Equal(t, 1500*time.Millisecond, cfg.Aggregation.RetryDelay)
	assert.Equal(t, 45*time.Second, cfg.Sources.Timeouts["indeed"])

	_, v := NormalizeAndValidate(cfg)
	assert.Empty(t, v.Errors)

	// second call leaves the file alone
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o644))
	_, err = EnsureUserConfig(dir)
	require.NoError(t, err)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("aggregation:\n  concurrency: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Aggregation.Concurrency)
	assert.Equal(t, 2, cfg.Aggregation.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
}

func TestNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"default", func(*Config) {}, 0},
		{"bad port", func(c *Config) { c.App.Port = 70000 }, 1},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, 1},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, 1},
		{"bad cron", func(c *Config) { c.Schedule.Enabled = true; c.Schedule.Spec = "every tuesday" }, 1},
		{"bad job type", func(c *Config) { c.Profile.DesiredJobTypes = []domain.JobType{"gig"} }, 1},
		{"board without slug", func(c *Config) { c.Sources.Boards.Lever = []Board{{Name: "Acme"}} }, 1},
		{"email without user", func(c *Config) { c.Email.Enabled = true; c.Email.IMAPHost = "imap.gmail.com" }, 1},
		{"salary range inverted", func(c *Config) {
			lo, hi := 90000.0, 50000.0
			c.Profile.DesiredSalaryMin, c.Profile.DesiredSalaryMax = &lo, &hi
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Profile.Headline = "Go Developer"
			cfg.Profile.Location = "Lahore, Pakistan"
			tt.mutate(&cfg)
			_, v := NormalizeAndValidate(cfg)
			assert.Len(t, v.Errors, tt.errs, v.Errors)
		})
	}
}

func TestNormalizeTrimsLists(t *testing.T) {
	cfg := Default()
	cfg.Profile.Headline = "x"
	cfg.Profile.Location = "Karachi"
	cfg.Sources.Disabled = []string{" Indeed", "indeed", "", "LinkedIn"}
	out, _ := NormalizeAndValidate(cfg)
	assert.Equal(t, []string{"indeed", "linkedin"}, out.Sources.Disabled)
}

func TestSaveAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.Profile.Headline = "Data Analyst"
	cfg.Profile.Location = "Berlin, Germany"
	require.NoError(t, SaveAtomic(path, cfg))

	cfg.App.Port = 9100
	require.NoError(t, SaveAtomic(path, cfg))
	assert.FileExists(t, path+".bak")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, got.App.Port)
	assert.Equal(t, "Data Analyst", got.Profile.Headline)
	assert.Equal(t, 5*time.Minute, got.Aggregation.RefreshCooldown)

	cfg.App.Port = 0
	assert.Error(t, SaveAtomic(path, cfg))
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("JOBMATCH_PORT", "8080")
	t.Setenv("JOBMATCH_CACHE_BACKEND", "redis")
	t.Setenv("JOBMATCH_DISABLED_SOURCES", "indeed,linkedin")
	cfg := Default()
	OverlayEnv(&cfg)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, []string{"indeed", "linkedin"}, cfg.Sources.Disabled)
}

func TestValidateProfileRejectsBlankEntries(t *testing.T) {
	assert.NoError(t, ValidateProfile(domain.UserProfile{Skills: []string{"Go"}, DesiredLocations: []string{"Berlin"}}))
	assert.Error(t, ValidateProfile(domain.UserProfile{Skills: []string{"Go", "   "}}))
	assert.Error(t, ValidateProfile(domain.UserProfile{DesiredLocations: []string{"\t"}}))
}

func TestNormalizeDropsBlankSkills(t *testing.T) {
	cfg := Default()
	cfg.Profile.Skills = []string{" ", "Go", "  go "}
	out, v := NormalizeAndValidate(cfg)
	assert.Empty(t, v.Errors)
	assert.Equal(t, []string{"Go"}, out.Profile.Skills)
}
