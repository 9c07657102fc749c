// Package registry builds the ordered list of adapters for one run.
package registry

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
	"jobmatch-engine/internal/sources/adzuna"
	"jobmatch-engine/internal/sources/arbeitnow"
	"jobmatch-engine/internal/sources/boards"
	"jobmatch-engine/internal/sources/careerjet"
	"jobmatch-engine/internal/sources/emailalert"
	"jobmatch-engine/internal/sources/gemini"
	"jobmatch-engine/internal/sources/himalayas"
	"jobmatch-engine/internal/sources/indeed"
	"jobmatch-engine/internal/sources/jobicy"
	"jobmatch-engine/internal/sources/joinrise"
	"jobmatch-engine/internal/sources/jooble"
	"jobmatch-engine/internal/sources/jsearch"
	"jobmatch-engine/internal/sources/linkedin"
	"jobmatch-engine/internal/sources/remoteok"
	"jobmatch-engine/internal/sources/remotive"
	"jobmatch-engine/internal/sources/searchapi"
	"jobmatch-engine/internal/sources/themuse"
)

// Capabilities decide which extra tasks an adapter gets in the fetch plan.
type Capabilities struct {
	// Searchable adapters honor free-text queries, so query variants pay off.
	Searchable bool
	// LocationAware adapters filter by location, so location variants pay off.
	LocationAware bool
	// RateLimited adapters get at most one extra task.
	RateLimited bool
}

var capabilities = map[string]Capabilities{
	sources.Indeed:        {Searchable: true, LocationAware: true},
	sources.LinkedIn:      {Searchable: true, LocationAware: true},
	sources.CareerJet:     {Searchable: true, LocationAware: true},
	sources.Remotive:      {Searchable: true},
	sources.RemoteOK:      {Searchable: true},
	sources.Arbeitnow:     {Searchable: true},
	sources.Jobicy:        {Searchable: true},
	sources.JoinRise:      {Searchable: true},
	sources.Himalayas:     {Searchable: true},
	sources.TheMuse:       {Searchable: true, LocationAware: true},
	sources.JSearch:       {Searchable: true, LocationAware: true},
	sources.Jooble:        {Searchable: true, LocationAware: true},
	sources.SearchAPI:     {Searchable: true, LocationAware: true},
	sources.Adzuna:        {Searchable: true, LocationAware: true},
	sources.GeminiSearch:  {LocationAware: true, RateLimited: true},
	sources.EmailAlert:    {},
	sources.CompanyBoards: {Searchable: true, LocationAware: true},
}

var timeouts = map[string]time.Duration{
	sources.Indeed:        45 * time.Second,
	sources.LinkedIn:      45 * time.Second,
	sources.CareerJet:     30 * time.Second,
	sources.GeminiSearch:  60 * time.Second,
	sources.EmailAlert:    60 * time.Second,
	sources.CompanyBoards: 40 * time.Second,
}

const defaultTimeout = 25 * time.Second

func CapabilitiesOf(name string) Capabilities { return capabilities[name] }

// Entry is one adapter ready to run.
type Entry struct {
	Adapter sources.Adapter
	Caps    Capabilities
	Timeout time.Duration
}

func (e Entry) Name() string { return e.Adapter.Name() }

type Options struct {
	Client   *sources.Client
	Settings domain.AppSettings
	// Disabled adapters are skipped by name.
	Disabled []string
	// Timeouts override the per-adapter defaults.
	Timeouts map[string]time.Duration
	// Renderer, when set, adds a headless-browser strategy to indeed and linkedin.
	Renderer sources.Renderer
	// Email, when set, adds the job-alert mailbox as a source.
	Email *emailalert.Config
	// Boards lists company ATS boards; the source is skipped when empty.
	Boards boards.Config
	Log   *zap.Logger
}

// Build returns the adapters in their fixed order: keyless sources first,
// then the keyed ones whose credentials are present.
func Build(opts Options) []Entry {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := opts.Settings
	c := opts.Client

	candidates := []struct {
		name  string
		ok    bool
		build func() sources.Adapter
	}{
		{sources.Indeed, true, func() sources.Adapter {
			return indeed.New(indeed.Config{Renderer: opts.Renderer}, c, log)
		}},
		{sources.LinkedIn, true, func() sources.Adapter {
			return linkedin.New(linkedin.Config{Renderer: opts.Renderer}, c, log)
		}},
		{sources.CareerJet, true, func() sources.Adapter {
			return careerjet.New(careerjet.Config{Timeout: timeoutFor(sources.CareerJet, opts.Timeouts)}, log)
		}},
		{sources.Remotive, true, func() sources.Adapter { return remotive.New(remotive.Config{}, c) }},
		{sources.RemoteOK, true, func() sources.Adapter { return remoteok.New(remoteok.Config{}, c) }},
		{sources.Arbeitnow, true, func() sources.Adapter { return arbeitnow.New(arbeitnow.Config{}, c) }},
		{sources.Jobicy, true, func() sources.Adapter { return jobicy.New(jobicy.Config{}, c) }},
		{sources.JoinRise, true, func() sources.Adapter { return joinrise.New(joinrise.Config{}, c) }},
		{sources.Himalayas, true, func() sources.Adapter { return himalayas.New(himalayas.Config{}, c) }},
		{sources.TheMuse, true, func() sources.Adapter { return themuse.New(themuse.Config{}, c) }},
		{sources.JSearch, s.RapidAPIKey != "", func() sources.Adapter {
			return jsearch.New(jsearch.Config{APIKey: s.RapidAPIKey}, c)
		}},
		{sources.Jooble, s.JoobleAPIKey != "", func() sources.Adapter {
			return jooble.New(jooble.Config{APIKey: s.JoobleAPIKey}, c)
		}},
		{sources.SearchAPI, s.SearchAPIKey != "", func() sources.Adapter {
			return searchapi.New(searchapi.Config{APIKey: s.SearchAPIKey}, c)
		}},
		{sources.Adzuna, s.AdzunaAppID != "" && s.AdzunaAppKey != "", func() sources.Adapter {
			return adzuna.New(adzuna.Config{AppID: s.AdzunaAppID, AppKey: s.AdzunaAppKey}, c)
		}},
		{sources.GeminiSearch, s.GeminiAPIKey != "", func() sources.Adapter {
			return gemini.New(gemini.Config{APIKey: s.GeminiAPIKey}, c, log)
		}},
		{sources.EmailAlert, opts.Email != nil, func() sources.Adapter {
			return emailalert.New(*opts.Email, log)
		}},
		{sources.CompanyBoards, opts.Boards.Enabled(), func() sources.Adapter {
			return boards.New(opts.Boards, c, log)
		}},
	}

	disabled := make(map[string]bool, len(opts.Disabled))
	for _, d := range opts.Disabled {
		disabled[strings.ToLower(strings.TrimSpace(d))] = true
	}

	var out []Entry
	for _, cand := range candidates {
		if disabled[cand.name] {
			log.Debug("source disabled by config", zap.String("platform", cand.name))
			continue
		}
		if !cand.ok {
			log.Debug("source missing credentials", zap.String("platform", cand.name))
			continue
		}
		out = append(out, Entry{
			Adapter: cand.build(),
			Caps:    capabilities[cand.name],
			Timeout: timeoutFor(cand.name, opts.Timeouts),
		})
	}
	return out
}

func timeoutFor(name string, overrides map[string]time.Duration) time.Duration {
	if d, ok := overrides[name]; ok && d > 0 {
		return d
	}
	if d, ok := timeouts[name]; ok {
		return d
	}
	return defaultTimeout
}
