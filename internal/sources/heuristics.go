package sources

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GuessLevel infers an experience level from a job title.
func GuessLevel(title string) string {
	l := strings.ToLower(title)
	switch {
	case containsAny(l, "intern", "junior", "entry", "jr.", "graduate"):
		return "entry"
	case containsAny(l, "senior", "sr.", "staff", "principal"):
		return "senior"
	case containsAny(l, "lead", "director", "head of", "manager"):
		return "lead"
	case containsAny(l, "vp", "chief", "cto", "executive"):
		return "executive"
	default:
		return "mid"
	}
}

// GuessLevelFrom prefers an upstream seniority label and falls back to the
// title when the label is empty or says nothing beyond "mid".
func GuessLevelFrom(label, title string) string {
	if lvl := GuessLevel(label); label != "" && lvl != "mid" {
		return lvl
	}
	return GuessLevel(title)
}

// GuessJobType infers a job type from a job title.
func GuessJobType(title string) string {
	l := strings.ToLower(title)
	switch {
	case strings.Contains(l, "intern"):
		return "internship"
	case containsAny(l, "part time", "part-time"):
		return "part_time"
	case containsAny(l, "contract", "freelance"):
		return "contract"
	default:
		return "full_time"
	}
}

// MapEmploymentType maps upstream employment-type labels (FULL_TIME,
// "Part-time", CONTRACTOR, TEMPORARY, INTERN...) to a job type.
func MapEmploymentType(s string) string {
	u := strings.ToUpper(s)
	switch {
	case strings.Contains(u, "FULL"):
		return "full_time"
	case strings.Contains(u, "PART"):
		return "part_time"
	case strings.Contains(u, "CONTRACT"), strings.Contains(u, "TEMP"), strings.Contains(u, "FREELANCE"):
		return "contract"
	case strings.Contains(u, "INTERN"):
		return "internship"
	default:
		return "full_time"
	}
}

// GuessRemote is true when any text mentions remote work.
func GuessRemote(texts ...string) bool {
	l := strings.ToLower(strings.Join(texts, " "))
	return containsAny(l, "remote", "work from home", "wfh")
}

// SkillVocabulary is the list of terms ExtractSkills looks for.
var SkillVocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C#", "C++", "Go", "Rust", "Swift", "Kotlin",
	"React", "Angular", "Vue", "Node.js", "Next.js", "Django", "Flask", "Spring", "Express", "Laravel",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "SQL", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"Git", "CI/CD", "REST", "GraphQL", "Machine Learning", "AI", "Terraform", "Linux",
	"React Native", "Flutter", "iOS", "Android", "DevOps", "Figma", "HTML", "CSS",
	"PHP", "Ruby", ".NET", "Scala", "Power BI",
}

// ExtractSkills returns vocabulary terms that appear in the texts as whole
// words, in vocabulary order.
func ExtractSkills(texts ...string) []string {
	l := strings.ToLower(strings.Join(texts, " "))
	var out []string
	for _, s := range SkillVocabulary {
		if containsTerm(l, strings.ToLower(s)) {
			out = append(out, s)
		}
	}
	return out
}

// containsTerm finds term in s where it is not glued to other letters or
// digits, so "go" does not fire on "google" and "java" not on "javascript".
func containsTerm(s, term string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if (i == 0 || !isWordByte(s[i-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// StripHTML removes tags, decodes entities and collapses whitespace.
func StripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return CleanText(s)
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

var relRe = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(minute|min|hour|hr|day|week|month)`)

// ParseRelativeDate turns "3 days ago", "30+ days", "2 hours ago" into an
// RFC 3339 timestamp relative to now. Anything else yields now.
func ParseRelativeDate(s string, now time.Time) string {
	m := relRe.FindStringSubmatch(s)
	if m == nil {
		l := strings.ToLower(s)
		if strings.Contains(l, "yesterday") {
			return now.AddDate(0, 0, -1).UTC().Format(time.RFC3339)
		}
		return now.UTC().Format(time.RFC3339)
	}
	n, _ := strconv.Atoi(m[1])
	t := now
	switch u := strings.ToLower(m[2]); {
	case strings.HasPrefix(u, "min"):
		t = now.Add(-time.Duration(n) * time.Minute)
	case strings.HasPrefix(u, "h"):
		t = now.Add(-time.Duration(n) * time.Hour)
	case strings.HasPrefix(u, "day"):
		t = now.AddDate(0, 0, -n)
	case strings.HasPrefix(u, "week"):
		t = now.AddDate(0, 0, -7*n)
	case strings.HasPrefix(u, "month"):
		t = now.AddDate(0, -n, 0)
	}
	return t.UTC().Format(time.RFC3339)
}

var (
	salaryRangeRe  = regexp.MustCompile(`(?i)(?:[$£€₹]|PKR|INR|USD|GBP|EUR)\s*([\d,]+(?:\.\d+)?)\s*(?:-|–|—|to)+\s*(?:[$£€₹]|PKR|INR|USD|GBP|EUR)?\s*([\d,]+(?:\.\d+)?)`)
	salarySingleRe = regexp.MustCompile(`(?i)(?:[$£€₹]|PKR|INR|USD|GBP|EUR)\s*([\d,]+)`)
	numberRe       = regexp.MustCompile(`\d+(?:\.\d+)?`)
	kSuffixRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k\b`)
)

// ParseSalaryText pulls a currency-marked range ("$50,000 - $80,000",
// "PKR 100,000 to 200,000") or single amount out of free text.
func ParseSalaryText(text string) (lo, hi *float64) {
	if m := salaryRangeRe.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1]), parseAmount(m[2])
	}
	if m := salarySingleRe.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1]), nil
	}
	return nil, nil
}

// ParseSalaryNumbers reads the first one or two numbers from a salary label
// such as "$80k - $100k a year" or "50000-70000". A trailing k multiplies by
// a thousand.
func ParseSalaryNumbers(text string) (lo, hi *float64) {
	t := strings.ReplaceAll(text, ",", "")
	t = kSuffixRe.ReplaceAllStringFunc(t, func(s string) string {
		v, err := strconv.ParseFloat(kSuffixRe.FindStringSubmatch(s)[1], 64)
		if err != nil {
			return s
		}
		return strconv.FormatFloat(v*1000, 'f', -1, 64)
	})
	nums := numberRe.FindAllString(t, 2)
	if len(nums) > 0 {
		lo = parseAmount(nums[0])
	}
	if len(nums) > 1 {
		hi = parseAmount(nums[1])
	}
	return lo, hi
}

func parseAmount(s string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// Float returns a pointer to v when v is positive.
func Float(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

var currencyHints = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`(?i)\bPKR\b|\bRs\.?\s`), "PKR"},
	{regexp.MustCompile(`(?i)\bINR\b|₹`), "INR"},
	{regexp.MustCompile(`(?i)\bAED\b`), "AED"},
	{regexp.MustCompile(`(?i)\bSAR\b`), "SAR"},
	{regexp.MustCompile(`(?i)\bGBP\b|£`), "GBP"},
	{regexp.MustCompile(`(?i)\bEUR\b|€`), "EUR"},
	{regexp.MustCompile(`(?i)\bCAD\b|C\$`), "CAD"},
	{regexp.MustCompile(`(?i)\bAUD\b|A\$`), "AUD"},
}

// DetectCurrency guesses an ISO code from salary text, defaulting to USD.
func DetectCurrency(text string) string {
	for _, h := range currencyHints {
		if h.re.MatchString(text) {
			return h.code
		}
	}
	return "USD"
}

func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// FirstN returns at most n leading elements.
func FirstN[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}
