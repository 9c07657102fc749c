package sources

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/domain"
)

// JSONLDPostings collects every schema.org JobPosting embedded in the page,
// whether it stands alone, sits in an array, or is wrapped in an ItemList.
func JSONLDPostings(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &v); err != nil {
			return
		}
		out = append(out, collectPostings(v)...)
	})
	return out
}

func collectPostings(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, e := range t {
			if m, ok := e.(map[string]any); ok && typeIs(m, "JobPosting") {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if typeIs(t, "JobPosting") {
			return []map[string]any{t}
		}
		if typeIs(t, "ItemList") {
			var out []map[string]any
			items, _ := t["itemListElement"].([]any)
			for _, e := range items {
				el, ok := e.(map[string]any)
				if !ok {
					continue
				}
				if inner, ok := el["item"].(map[string]any); ok {
					el = inner
				}
				if typeIs(el, "JobPosting") {
					out = append(out, el)
				}
			}
			return out
		}
		if g, ok := t["@graph"]; ok {
			return collectPostings(g)
		}
	}
	return nil
}

func typeIs(m map[string]any, want string) bool {
	return Str(m["@type"]) == want
}

// JSONLDToRaw maps one JobPosting onto a RawJob for platform. Postings
// without a title or name are skipped (ok=false).
func JSONLDToRaw(p map[string]any, platform, defaultCurrency string) (domain.RawJob, bool) {
	title := FirstNonEmpty(Str(p["title"]), Str(p["name"]))
	if title == "" {
		return domain.RawJob{}, false
	}
	desc := StripHTML(Str(p["description"]))

	org, _ := p["hiringOrganization"].(map[string]any)
	logo := ""
	switch l := org["logo"].(type) {
	case string:
		logo = l
	case map[string]any:
		logo = Str(l["url"])
	}

	var lo, hi *float64
	currency := defaultCurrency
	if sal, ok := p["baseSalary"].(map[string]any); ok {
		currency = FirstNonEmpty(Str(sal["currency"]), defaultCurrency)
		if v, ok := sal["value"].(map[string]any); ok {
			lo = Num(v["minValue"])
			hi = Num(v["maxValue"])
			if lo == nil {
				lo = Num(v["value"])
			}
		}
	}

	ext := ""
	switch id := p["identifier"].(type) {
	case map[string]any:
		ext = Str(id["value"])
	default:
		ext = Str(id)
	}

	empType := p["employmentType"]
	if arr, ok := empType.([]any); ok && len(arr) > 0 {
		empType = arr[0]
	}

	return domain.RawJob{
		Title:           title,
		CompanyName:     Str(org["name"]),
		CompanyLogoURL:  logo,
		Description:     Truncate(desc, 3000),
		Skills:          ExtractSkills(title, desc),
		Location:        JSONLDLocation(p["jobLocation"]),
		IsRemote:        Str(p["jobLocationType"]) == "TELECOMMUTE",
		SalaryMin:       lo,
		SalaryMax:       hi,
		SalaryCurrency:  currency,
		JobType:         MapEmploymentType(Str(empType)),
		ExperienceLevel: GuessLevel(title),
		SourcePlatform:  platform,
		SourceURL:       Str(p["url"]),
		ExternalID:      ext,
		PostedAt:        Str(p["datePosted"]),
		Metadata:        map[string]any{"source": platform + "_jsonld"},
	}, true
}

// JSONLDLocation flattens jobLocation, which may be a string, a Place, or a
// list of Places.
func JSONLDLocation(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, e := range t {
			m, _ := e.(map[string]any)
			addr, _ := m["address"].(map[string]any)
			if s := FirstNonEmpty(Str(addr["addressLocality"]), Str(m["name"])); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		a, ok := t["address"].(map[string]any)
		if !ok {
			a = t
		}
		var parts []string
		for _, k := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			s := Str(a[k])
			if c, ok := a[k].(map[string]any); ok {
				s = Str(c["name"])
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Str renders loosely-typed JSON scalars as strings.
func Str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Num reads a positive number from a JSON number or numeric string.
func Num(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return Float(t)
	case string:
		return parseAmount(strings.TrimSpace(t))
	}
	return nil
}
