// Package emailalert turns job-alert emails sitting in an IMAP mailbox into
// postings. Only LinkedIn alerts are parsed; other messages are skipped.
package emailalert

import (
	"context"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/sources"
)

type Config struct {
	Dial       Dialer
	SubjectAny []string
	MaxEmails  int
	// LookbackDays bounds the IMAP search; older alerts are never read.
	LookbackDays int
	MarkSeen     bool
	Now          func() time.Time
}

type Scraper struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scraper {
	if cfg.MaxEmails <= 0 {
		cfg.MaxEmails = 200
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 60
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{cfg: cfg, log: log.Named(sources.EmailAlert)}
}

func (s *Scraper) Name() string { return sources.EmailAlert }
func (s *Scraper) RequiresAPIKey() bool { return true }

// Fetch reads unseen alerts. The query and location are ignored: the alerts
// were already filtered by whoever subscribed to them.
func (s *Scraper) Fetch(ctx context.Context, _, _ string) ([]domain.RawJob, error) {
	mb, err := s.cfg.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := mb.Close(); err != nil {
			s.log.Debug("closing mailbox", zap.Error(err))
		}
	}()

	now := s.cfg.Now()
	msgs, err := mb.Unseen(ctx, now.AddDate(0, 0, -s.cfg.LookbackDays), s.cfg.MaxEmails)
	if err != nil {
		return nil, err
	}

	var (
		out  []domain.RawJob
		seen []imap.UID
	)
	for _, m := range msgs {
		p := parseMessage(m)
		if len(s.cfg.SubjectAny) > 0 && !containsAnyFold(p.Subject, s.cfg.SubjectAny) {
			continue
		}
		body := p.HTML
		if body == "" {
			body = p.Text
		}
		if !IsLinkedInAlert(p.From, p.Subject, body) {
			continue
		}
		jobs, err := ParseLinkedInAlert(body)
		if err != nil {
			s.log.Warn("parsing alert", zap.String("subject", p.Subject), zap.Error(err))
			continue
		}
		for _, j := range jobs {
			out = append(out, toRaw(j, p, now))
		}
		seen = append(seen, m.UID)
	}

	s.log.Info("alerts read", zap.Int("messages", len(msgs)), zap.Int("alerts", len(seen)), zap.Int("jobs", len(out)))
	if s.cfg.MarkSeen {
		if err := mb.MarkSeen(seen); err != nil {
			s.log.Warn("marking alerts seen", zap.Error(err))
		}
	}
	return out, nil
}

func toRaw(j AlertJob, p parsed, now time.Time) domain.RawJob {
	id := "li-" + j.JobID
	if j.JobID == "" {
		id = "ea-" + normalize.DJB2Base36(j.URL)
	}
	posted := p.Date
	if posted.IsZero() {
		posted = now
	}
	lo, hi := sources.ParseSalaryNumbers(j.Salary)
	return domain.RawJob{
		Title:           j.Title,
		CompanyName:     j.Company,
		CompanyLogoURL:  j.LogoURL,
		Location:        j.Location,
		IsRemote:        sources.GuessRemote(j.Location, j.Title),
		SalaryMin:       lo,
		SalaryMax:       hi,
		SalaryCurrency:  sources.DetectCurrency(j.Salary),
		JobType:         sources.GuessJobType(j.Title),
		ExperienceLevel: sources.GuessLevel(j.Title),
		Skills:          sources.ExtractSkills(j.Title),
		SourcePlatform:  sources.EmailAlert,
		SourceURL:       j.URL,
		ExternalID:      id,
		PostedAt:        posted.UTC().Format(time.RFC3339),
		Metadata:        map[string]any{"source": "linkedin_alert_email", "subject": p.Subject},
	}
}

func containsAnyFold(s string, subs []string) bool {
	l := strings.ToLower(s)
	for _, sub := range subs {
		if sub = strings.ToLower(strings.TrimSpace(sub)); sub != "" && strings.Contains(l, sub) {
			return true
		}
	}
	return false
}
