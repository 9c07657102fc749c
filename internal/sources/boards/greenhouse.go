package boards

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

type greenhouseResponse struct {
	Jobs []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		AbsoluteURL string `json:"absolute_url"`
		UpdatedAt   string `json:"updated_at"`
		Content     string `json:"content"` // entity-escaped HTML
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
		Departments []struct {
			Name string `json:"name"`
		} `json:"departments"`
	} `json:"jobs"`
}

func (s *Scraper) greenhouse(ctx context.Context, co Company) ([]domain.RawJob, error) {
	u := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", s.cfg.GreenhouseURL, url.PathEscape(co.Slug))

	var resp greenhouseResponse
	if err := s.c.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.RawJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		desc := sources.StripHTML(html.UnescapeString(j.Content))
		var dept string
		if len(j.Departments) > 0 {
			dept = j.Departments[0].Name
		}
		out = append(out, domain.RawJob{
			Title:           sources.CleanText(j.Title),
			CompanyName:     co.Name,
			Description:     desc,
			Skills:          sources.ExtractSkills(j.Title, desc),
			Location:        j.Location.Name,
			IsRemote:        sources.GuessRemote(j.Title, j.Location.Name),
			JobType:         sources.GuessJobType(j.Title),
			ExperienceLevel: sources.GuessLevel(j.Title),
			SourcePlatform:  sources.CompanyBoards,
			SourceURL:       j.AbsoluteURL,
			ExternalID:      externalID("greenhouse", co.Slug, fmt.Sprint(j.ID)),
			PostedAt:        j.UpdatedAt,
			Metadata:        map[string]any{"ats": "greenhouse", "board": co.Slug, "department": dept},
		})
	}
	return out, nil
}
