package boards

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"` // title
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"` // ms epoch
	DescriptionPlain string `json:"descriptionPlain"`
	WorkplaceType    string `json:"workplaceType"`
	Categories       struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	SalaryRange *struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"salaryRange"`
}

func (s *Scraper) lever(ctx context.Context, co Company) ([]domain.RawJob, error) {
	u := fmt.Sprintf("%s/v0/postings/%s?mode=json", s.cfg.LeverURL, url.PathEscape(co.Slug))

	var postings []leverPosting
	if err := s.c.GetJSON(ctx, u, nil, &postings); err != nil {
		return nil, err
	}

	out := make([]domain.RawJob, 0, len(postings))
	for _, p := range postings {
		j := domain.RawJob{
			Title:           sources.CleanText(p.Text),
			CompanyName:     co.Name,
			Description:     sources.CleanText(p.DescriptionPlain),
			Skills:          sources.ExtractSkills(p.Text, p.DescriptionPlain),
			Location:        p.Categories.Location,
			IsRemote:        p.WorkplaceType == "remote" || sources.GuessRemote(p.Text, p.Categories.Location),
			JobType:         sources.MapEmploymentType(p.Categories.Commitment),
			ExperienceLevel: sources.GuessLevel(p.Text),
			SourcePlatform:  sources.CompanyBoards,
			SourceURL:       p.HostedURL,
			ExternalID:      externalID("lever", co.Slug, p.ID),
			Metadata:        map[string]any{"ats": "lever", "board": co.Slug, "team": p.Categories.Team},
		}
		if p.CreatedAt > 0 {
			j.PostedAt = time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339)
		}
		if sr := p.SalaryRange; sr != nil {
			j.SalaryMin = sources.Float(sr.Min)
			j.SalaryMax = sources.Float(sr.Max)
			j.SalaryCurrency = sr.Currency
		}
		out = append(out, j)
	}
	return out, nil
}
