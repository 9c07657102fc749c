package emailalert

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/sources"
)

// AlertJob is one posting pulled out of a job-alert email.
type AlertJob struct {
	Title    string
	Company  string
	Location string
	Salary   string
	URL      string
	LogoURL  string
	JobID    string
}

var (
	jobIDRe  = regexp.MustCompile(`/jobs/view/(\d+)`)
	salaryRe = regexp.MustCompile(`(?i)(?:[$€£₹]|PKR|Rs\.?)\s?\d[\d,.]*\s*[KM]?(?:\s*[-–]\s*(?:[$€£₹]|PKR|Rs\.?)?\s?\d[\d,.]*\s*[KM]?)?(?:\s*/\s*(?:year|yr|month|mo|hour|hr))?`)
)

// IsLinkedInAlert reports whether a message is a LinkedIn job alert.
func IsLinkedInAlert(from, subject, body string) bool {
	if strings.Contains(strings.ToLower(from), "jobalerts-noreply") {
		return true
	}
	s := strings.ToLower(subject)
	if !strings.Contains(s, "job alert") && !strings.Contains(s, "linkedin") {
		return false
	}
	b := strings.ToLower(body)
	return strings.Contains(b, "linkedin.com/comm/jobs/view") || strings.Contains(b, "linkedin.com/jobs/view")
}

// ParseLinkedInAlert extracts postings from the HTML body of a LinkedIn job
// alert. Several anchors usually point at the same job (logo, title, card
// body); they are merged by job id.
func ParseLinkedInAlert(htmlBody string) ([]AlertJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	byKey := map[string]*AlertJob{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		jobURL := unwrapURL(strings.TrimSpace(a.AttrOr("href", "")))
		lu := strings.ToLower(jobURL)
		if !strings.Contains(lu, "linkedin.com") || !strings.Contains(lu, "/jobs/view/") {
			return
		}

		key := jobURL
		id := ""
		if m := jobIDRe.FindStringSubmatch(jobURL); m != nil {
			id = m[1]
			key = id
		}
		j, ok := byKey[key]
		if !ok {
			j = &AlertJob{URL: canonical(jobURL, id), JobID: id}
			byKey[key] = j
			order = append(order, key)
		}

		if cand := cleanTitle(a.Text()); betterTitle(cand, j.Title) {
			j.Title = cand
		}
		if j.LogoURL == "" {
			if src, ok := a.Find("img[src]").Attr("src"); ok && strings.HasPrefix(src, "http") {
				j.LogoURL = src
			}
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Parent()
		}
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := sources.CleanText(p.Text())
			if t == "" {
				return
			}
			if j.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				j.Company = strings.TrimSpace(parts[0])
				j.Location = strings.TrimSpace(parts[1])
				return
			}
			if cand := cleanTitle(t); betterTitle(cand, j.Title) {
				j.Title = cand
			}
		})
		if j.Salary == "" {
			j.Salary = strings.TrimSpace(salaryRe.FindString(sources.CleanText(card.Text())))
		}
	})

	out := make([]AlertJob, 0, len(order))
	for _, k := range order {
		if j := byKey[k]; j.Title != "" {
			out = append(out, *j)
		}
	}
	return out, nil
}

// unwrapURL follows tracking wrappers that carry the target in a url= or
// q= parameter.
func unwrapURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	for _, p := range []string{"url", "q"} {
		if raw := u.Query().Get(p); raw != "" {
			if inner, err := url.Parse(raw); err == nil && inner.Host != "" {
				return inner.String()
			}
		}
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

func canonical(jobURL, id string) string {
	if id != "" {
		return "https://www.linkedin.com/jobs/view/" + id
	}
	return jobURL
}

func cleanTitle(s string) string {
	s = sources.CleanText(s)
	for _, junk := range []string{"Actively recruiting", "Easy Apply", "Promoted"} {
		s = strings.TrimSpace(strings.ReplaceAll(s, junk, ""))
	}
	l := strings.ToLower(s)
	for _, bad := range []string{"alumni", "connections", "applicants", "school"} {
		if strings.Contains(l, bad) {
			return ""
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// betterTitle replaces the current title only when the candidate scores
// clearly higher, so anchors seen later do not flip-flop the value.
func betterTitle(candidate, current string) bool {
	if candidate == "" {
		return false
	}
	if current == "" {
		return titleScore(candidate) >= 5
	}
	return titleScore(candidate) >= titleScore(current)+3
}

var titleWords = []string{
	"engineer", "developer", "software", "backend", "frontend", "full stack", "devops", "data",
	"designer", "scientist", "analyst", "architect", "manager", "director", "lead", "intern",
	"accountant", "marketing", "sales", "teacher", "nurse", "consultant", "specialist", "officer",
}

func titleScore(s string) int {
	l := strings.ToLower(s)
	if strings.Contains(l, "unsubscribe") || strings.Contains(l, "manage") && strings.Contains(l, "alert") {
		return -50
	}
	if strings.Contains(l, "http") || strings.Contains(l, "www.") {
		return -30
	}

	score := 0
	if salaryRe.MatchString(s) {
		score -= 8
	}
	for _, cta := range []string{"apply", "view job", "see job", "see all", "sign in"} {
		if strings.Contains(l, cta) {
			score -= 6
		}
	}
	if strings.Contains(s, " · ") || strings.Contains(s, "|") {
		score -= 3
	}
	for _, w := range titleWords {
		if strings.Contains(l, w) {
			score += 4
			break
		}
	}
	for _, w := range []string{"sr", "senior", "jr", "junior", "principal", "staff", "lead", "ii", "iii"} {
		if containsWord(l, w) {
			score += 2
		}
	}
	switch n := len([]rune(s)); {
	case n >= 6 && n <= 80:
		score += 2
	case n < 4 || n > 140:
		score -= 6
	}
	if strings.HasSuffix(s, ".") || strings.Contains(l, "you will") || strings.Contains(l, "we are") {
		score -= 4
	}
	return score
}

func containsWord(hay, word string) bool {
	for _, f := range strings.FieldsFunc(hay, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}
