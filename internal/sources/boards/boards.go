// Package boards reads the public job boards companies host on Greenhouse
// and Lever. Boards are listed in config; the query only filters titles.
package boards

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/geo"
	"jobmatch-engine/internal/sources"
)

const (
	defaultGreenhouseURL = "https://boards-api.greenhouse.io"
	defaultLeverURL      = "https://api.lever.co"
	workers              = 8
)

type Company struct {
	Slug string // boards.greenhouse.io/<slug>, jobs.lever.co/<slug>
	Name string // display name; the slug when empty
}

type Config struct {
	Greenhouse    []Company
	Lever         []Company
	GreenhouseURL string
	LeverURL      string

	// PerBoardTimeout bounds one board fetch. Default 10s.
	PerBoardTimeout time.Duration
}

// Enabled reports whether any board is configured.
func (c Config) Enabled() bool { return len(c.Greenhouse)+len(c.Lever) > 0 }

type Scraper struct {
	cfg Config
	c   *sources.Client
	log *zap.Logger
}

func New(cfg Config, c *sources.Client, log *zap.Logger) *Scraper {
	if cfg.GreenhouseURL == "" {
		cfg.GreenhouseURL = defaultGreenhouseURL
	}
	if cfg.LeverURL == "" {
		cfg.LeverURL = defaultLeverURL
	}
	if cfg.PerBoardTimeout <= 0 {
		cfg.PerBoardTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, c: c, log: log.Named(sources.CompanyBoards)}
}

func (s *Scraper) Name() string         { return sources.CompanyBoards }
func (s *Scraper) RequiresAPIKey() bool { return false }

type board struct {
	kind string
	co   Company
}

// Fetch reads every configured board and keeps postings whose title shares
// a word with query and, when location is set, that are remote or in it.
// A failing board is logged and skipped.
func (s *Scraper) Fetch(ctx context.Context, query, location string) ([]domain.RawJob, error) {
	var all []board
	for _, co := range s.cfg.Greenhouse {
		all = append(all, board{"greenhouse", co})
	}
	for _, co := range s.cfg.Lever {
		all = append(all, board{"lever", co})
	}

	var (
		mu  sync.Mutex
		out []domain.RawJob
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, b := range all {
		b.co.Slug = strings.TrimSpace(b.co.Slug)
		if b.co.Slug == "" {
			continue
		}
		if b.co.Name == "" {
			b.co.Name = b.co.Slug
		}
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, s.cfg.PerBoardTimeout)
			defer cancel()

			var (
				jobs []domain.RawJob
				err  error
			)
			switch b.kind {
			case "greenhouse":
				jobs, err = s.greenhouse(cctx, b.co)
			default:
				jobs, err = s.lever(cctx, b.co)
			}
			if err != nil {
				s.log.Warn("board failed", zap.String("ats", b.kind), zap.String("slug", b.co.Slug), zap.Error(err))
				return nil
			}
			mu.Lock()
			out = append(out, jobs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Filter(out, query, location), nil
}

// Filter keeps jobs matching query and location. Query words shorter than
// three letters are ignored; an empty query keeps everything.
func Filter(jobs []domain.RawJob, query, location string) []domain.RawJob {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 && !stopWords[w] {
			words = append(words, w)
		}
	}
	place, hasPlace := geo.Parse(location)

	out := make([]domain.RawJob, 0, len(jobs))
	for _, j := range jobs {
		if len(words) > 0 && !anyWord(strings.ToLower(j.Title), words) {
			continue
		}
		if hasPlace && !j.IsRemote && !geo.Contains(j.Location, place.City) && !geo.Contains(j.Location, place.Country) {
			continue
		}
		out = append(out, j)
	}
	return out
}

var stopWords = map[string]bool{
	"senior": true, "junior": true, "mid": true, "level": true, "lead": true,
	"the": true, "and": true, "for": true, "with": true,
}

func anyWord(title string, words []string) bool {
	for _, w := range words {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

func externalID(kind, slug, id string) string {
	return fmt.Sprintf("%s:%s:%s", kind, slug, id)
}
