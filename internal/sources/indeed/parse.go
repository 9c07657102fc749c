package indeed

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/sources"
)

const maxCards = 25

var (
	titleSplitRe = regexp.MustCompile(`\s+[-–—]\s+`)
	jobKeyRe     = regexp.MustCompile(`(?i)jk=([a-f0-9]+)`)
	descLocRe    = regexp.MustCompile(`^\s*(?:<[^>]+>)*\s*([A-Z][a-zA-Z\s]+(?:,\s*[A-Z][a-zA-Z\s]+){0,2})\s*[-–—]`)
	boldLocRe    = regexp.MustCompile(`(?i)<b>\s*Location:\s*</b>\s*([^<]+)`)
	mosaicRe     = regexp.MustCompile(`(?s)window\.mosaic\.providerData\["mosaic-provider-jobcards"\]\s*=\s*(\{.*?\});\s*</script>`)
)

func viewURL(sub, jk string) string {
	return "https://" + sub + ".indeed.com/viewjob?jk=" + jk
}

func meta(source, sub string) map[string]any {
	return map[string]any{"source": source, "domain": sub}
}

// parseRSSItems reads feed items whose titles look like "Title - Company".
func parseRSSItems(items []sources.RSSItem, sub string) []domain.RawJob {
	var out []domain.RawJob
	for _, it := range sources.FirstN(items, maxCards) {
		if it.Title == "" {
			continue
		}
		parts := titleSplitRe.Split(it.Title, -1)
		title := strings.TrimSpace(parts[0])
		company := ""
		if len(parts) > 1 {
			company = strings.TrimSpace(parts[len(parts)-1])
		}
		company = sources.FirstNonEmpty(company, it.Source, "Unknown")

		loc := descriptionLocation(it.Description)
		desc := sources.Truncate(sources.StripHTML(it.Description), 2000)
		lo, hi := sources.ParseSalaryText(desc)

		jk := ""
		if m := jobKeyRe.FindStringSubmatch(it.Link); m != nil {
			jk = m[1]
		}
		link := it.Link
		if link == "" && jk != "" {
			link = viewURL(sub, jk)
		}

		out = append(out, domain.RawJob{
			Title:           title,
			CompanyName:     company,
			Description:     desc,
			Skills:          sources.ExtractSkills(desc, title),
			Location:        loc,
			IsRemote:        sources.GuessRemote(loc, title),
			SalaryMin:       lo,
			SalaryMax:       hi,
			SalaryCurrency:  Currency(sub),
			JobType:         sources.GuessJobType(title),
			ExperienceLevel: sources.GuessLevel(title),
			SourcePlatform:  sources.Indeed,
			SourceURL:       link,
			ExternalID:      jk,
			PostedAt:        it.PubDate,
			Metadata:        meta("indeed_rss", sub),
		})
	}
	return out
}

// descriptionLocation finds "Karachi, Sindh, Pakistan - ..." at the start of
// a feed description, or a bold "Location:" label.
func descriptionLocation(desc string) string {
	if m := descLocRe.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := boldLocRe.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseDesktop tries the embedded mosaic job-card blob, then JSON-LD, then
// the rendered cards.
func (s *Scraper) parseDesktop(html string, doc *goquery.Document, sub string) []domain.RawJob {
	if jobs := s.parseMosaic(html, sub); len(jobs) > 0 {
		return jobs
	}
	if jobs := parseJSONLD(doc, sub); len(jobs) > 0 {
		return jobs
	}
	return parseCards(doc, sub)
}

type mosaicCard struct {
	Title           string `json:"title"`
	DisplayTitle    string `json:"displayTitle"`
	Company         string `json:"company"`
	CompanyBranding struct {
		LogoURL string `json:"logoUrl"`
	} `json:"companyBrandingAttributes"`
	Snippet           string   `json:"snippet"`
	FormattedLocation string   `json:"formattedLocation"`
	JobLocationCity   string   `json:"jobLocationCity"`
	RemoteLocation    bool     `json:"remoteLocation"`
	JobTypes          []string `json:"jobTypes"`
	JobKey            string   `json:"jobkey"`
	RelativeTime      string   `json:"formattedRelativeTime"`
	ExtractedSalary   *struct {
		Min any `json:"min"`
		Max any `json:"max"`
	} `json:"extractedSalary"`
	SalarySnippet *struct {
		Text string `json:"text"`
	} `json:"salarySnippet"`
}

type mosaicBlob struct {
	MetaData struct {
		Model struct {
			Results []mosaicCard `json:"results"`
		} `json:"mosaicProviderJobCardsModel"`
	} `json:"metaData"`
}

func (s *Scraper) parseMosaic(html, sub string) []domain.RawJob {
	m := mosaicRe.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	var blob mosaicBlob
	if err := json.Unmarshal([]byte(m[1]), &blob); err != nil {
		s.log.Debug("mosaic blob did not decode")
		return nil
	}

	now := s.cfg.Now()
	var out []domain.RawJob
	for _, c := range blob.MetaData.Model.Results {
		if c.Title == "" || c.Company == "" {
			continue
		}
		var lo, hi *float64
		switch {
		case c.ExtractedSalary != nil:
			lo, hi = sources.Num(c.ExtractedSalary.Min), sources.Num(c.ExtractedSalary.Max)
		case c.SalarySnippet != nil:
			lo, hi = sources.ParseSalaryNumbers(c.SalarySnippet.Text)
		}
		loc := sources.FirstNonEmpty(c.FormattedLocation, c.JobLocationCity)
		desc := sources.StripHTML(c.Snippet)
		out = append(out, domain.RawJob{
			Title:           sources.FirstNonEmpty(c.Title, c.DisplayTitle),
			CompanyName:     c.Company,
			CompanyLogoURL:  c.CompanyBranding.LogoURL,
			Description:     desc,
			Skills:          sources.ExtractSkills(desc, c.Title),
			Location:        loc,
			IsRemote:        c.RemoteLocation || sources.GuessRemote(loc, c.Title),
			SalaryMin:       lo,
			SalaryMax:       hi,
			SalaryCurrency:  Currency(sub),
			JobType:         sources.MapEmploymentType(strings.Join(c.JobTypes, " ")),
			ExperienceLevel: sources.GuessLevel(c.Title),
			SourcePlatform:  sources.Indeed,
			SourceURL:       viewURL(sub, c.JobKey),
			ExternalID:      c.JobKey,
			PostedAt:        sources.ParseRelativeDate(c.RelativeTime, now),
			Metadata:        meta("indeed_mosaic", sub),
		})
	}
	return out
}

func parseJSONLD(doc *goquery.Document, sub string) []domain.RawJob {
	var out []domain.RawJob
	for _, p := range sources.JSONLDPostings(doc) {
		raw, ok := sources.JSONLDToRaw(p, sources.Indeed, Currency(sub))
		if !ok {
			continue
		}
		raw.Metadata["domain"] = sub
		out = append(out, raw)
	}
	return out
}

// parseCards reads the server-rendered result cards keyed by data-jk.
func parseCards(doc *goquery.Document, sub string) []domain.RawJob {
	var out []domain.RawJob
	seen := map[string]bool{}
	doc.Find("[data-jk]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		jk, _ := sel.Attr("data-jk")
		if jk == "" || seen[jk] {
			return true
		}
		card := enclosing(sel, `[data-testid="company-name"]`)
		title := cardTitle(sel, card)
		company := sources.CleanText(card.Find(`[data-testid="company-name"]`).First().Text())
		if title == "" || company == "" {
			return true
		}
		seen[jk] = true
		loc := sources.CleanText(card.Find(`[data-testid="text-location"]`).First().Text())
		out = append(out, cardJob(sub, jk, title, company, loc, "indeed_html"))
		return len(out) < maxCards
	})
	return out
}

func cardTitle(sel, card *goquery.Selection) string {
	t := card.Find(".jobTitle").First()
	if sel.HasClass("jobTitle") || sel.ParentsFiltered(".jobTitle").Length() > 0 {
		t = sel
	}
	if v, ok := t.Find("span[title]").Attr("title"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return sources.CleanText(t.Text())
}

// parseMobile reads the /m/ listing: anchors to /m/viewjob?jk=... with
// title, company and location elements nearby.
func (s *Scraper) parseMobile(_ string, doc *goquery.Document, sub string) []domain.RawJob {
	var out []domain.RawJob
	seen := map[string]bool{}
	doc.Find(`a[href*="/m/viewjob?jk="]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		jk := u.Query().Get("jk")
		if jk == "" || seen[jk] {
			return true
		}
		card := enclosing(a, `[class*="company"]`)
		title := sources.CleanText(card.Find(`[class*="title"]`).First().Text())
		if title == "" {
			title = sources.CleanText(a.Text())
		}
		if title == "" {
			return true
		}
		seen[jk] = true
		company := sources.CleanText(card.Find(`[class*="company"]`).First().Text())
		loc := sources.CleanText(card.Find(`[class*="location"]`).First().Text())
		out = append(out, cardJob(sub, jk, title, company, loc, "indeed_html"))
		return len(out) < maxCards
	})
	return out
}

// enclosing climbs from sel to the nearest ancestor that contains marker.
func enclosing(sel *goquery.Selection, marker string) *goquery.Selection {
	cur := sel
	for i := 0; i < 8; i++ {
		if cur.Find(marker).Length() > 0 {
			return cur
		}
		p := cur.Parent()
		if p.Length() == 0 {
			break
		}
		cur = p
	}
	return sel
}

func cardJob(sub, jk, title, company, loc, source string) domain.RawJob {
	return domain.RawJob{
		Title:           title,
		CompanyName:     sources.FirstNonEmpty(company, "Unknown"),
		Skills:          sources.ExtractSkills(title),
		Location:        loc,
		IsRemote:        sources.GuessRemote(loc, title),
		SalaryCurrency:  Currency(sub),
		JobType:         string(domain.JobTypeFullTime),
		ExperienceLevel: sources.GuessLevel(title),
		SourcePlatform:  sources.Indeed,
		SourceURL:       viewURL(sub, jk),
		ExternalID:      jk,
		Metadata:        meta(source, sub),
	}
}
