// Package match scores listings against a user profile and classifies how
// close each one is to the user.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/skills"
)

const (
	weightSkills     = 0.40
	weightJobType    = 0.15
	weightLocation   = 0.15
	weightExperience = 0.15
	weightSalary     = 0.15

	domainCredit = 0.4
)

// Breakdown holds the five sub-scores, each in [0,100].
type Breakdown struct {
	Skills     float64
	JobType    float64
	Location   float64
	Experience float64
	Salary     float64
}

func (b Breakdown) Total() int {
	t := b.Skills*weightSkills +
		b.JobType*weightJobType +
		b.Location*weightLocation +
		b.Experience*weightExperience +
		b.Salary*weightSalary
	return clamp(int(math.Round(t)), 0, 100)
}

// Scorer holds the per-run context: the profile and the keywords of the
// user's resolved domains.
type Scorer struct {
	Profile        domain.UserProfile
	DomainKeywords []string
}

func NewScorer(p domain.UserProfile, domainKeywords []string) *Scorer {
	return &Scorer{Profile: p, DomainKeywords: domainKeywords}
}

func (s *Scorer) Breakdown(job domain.JobListing) (Breakdown, []string) {
	sk, matched := scoreSkills(s.Profile.Skills, job.SkillsRequired, s.DomainKeywords)
	return Breakdown{
		Skills:     sk,
		JobType:    scoreJobType(s.Profile.DesiredJobTypes, job.JobType),
		Location:   scoreLocation(s.Profile.DesiredLocations, job.LocationString(), job.IsRemote),
		Experience: scoreExperience(s.Profile.ExperienceYears, job.ExperienceLevel),
		Salary:     scoreSalary(s.Profile.DesiredSalaryMin, s.Profile.DesiredSalaryMax, job.SalaryMin, job.SalaryMax),
	}, matched
}

// Score computes the match record for job.
func (s *Scorer) Score(job domain.JobListing) domain.JobMatch {
	b, matched := s.Breakdown(job)
	loc := ClassifyLocality(s.Profile.Location, s.Profile.DesiredLocations, job.LocationString(), job.IsRemote)

	var reasons []string
	if len(matched) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d matching skills", len(matched)))
	}
	if b.JobType == 100 {
		reasons = append(reasons, "Preferred job type")
	}
	switch {
	case loc == domain.LocalityCity:
		reasons = append(reasons, "Near you")
	case loc == domain.LocalityNational:
		reasons = append(reasons, "In your country")
	case loc == domain.LocalityRemote:
		reasons = append(reasons, "Remote position")
	case b.Location >= 80:
		reasons = append(reasons, "Good location match")
	}
	if b.Experience == 100 {
		reasons = append(reasons, "Experience level fits")
	}
	if b.Salary == 100 {
		reasons = append(reasons, "Salary in range")
	}

	if matched == nil {
		matched = []string{}
	}
	if reasons == nil {
		reasons = []string{}
	}
	return domain.JobMatch{
		JobID:         job.ID,
		MatchScore:    b.Total(),
		MatchedSkills: matched,
		MatchReasons:  reasons,
		Locality:      loc,
	}
}

// Rank scores every job and returns jobs and matches in display order:
// locality tier first, then score descending. Ties keep input order.
func (s *Scorer) Rank(jobs []domain.JobListing) ([]domain.JobListing, []domain.JobMatch) {
	type pair struct {
		job domain.JobListing
		m   domain.JobMatch
	}
	ps := make([]pair, len(jobs))
	for i, j := range jobs {
		ps[i] = pair{j, s.Score(j)}
	}
	sort.SliceStable(ps, func(a, b int) bool {
		ra, rb := LocalityRank(ps[a].m.Locality), LocalityRank(ps[b].m.Locality)
		if ra != rb {
			return ra < rb
		}
		return ps[a].m.MatchScore > ps[b].m.MatchScore
	})

	outJobs := make([]domain.JobListing, len(ps))
	outMatches := make([]domain.JobMatch, len(ps))
	for i, p := range ps {
		outJobs[i] = p.job
		outMatches[i] = p.m
	}
	return outJobs, outMatches
}

func scoreSkills(user, required, domainKeywords []string) (float64, []string) {
	if len(required) == 0 {
		return 70, nil
	}
	matched, missing := skills.FindMatches(user, required)

	overlaps := 0
	if len(domainKeywords) > 0 && len(missing) > 0 {
		kws := make([]string, len(domainKeywords))
		for i, k := range domainKeywords {
			kws[i] = strings.ToLower(k)
		}
		for _, m := range missing {
			ml := strings.ToLower(m)
			for _, k := range kws {
				if strings.Contains(ml, k) || strings.Contains(k, ml) {
					overlaps++
					break
				}
			}
		}
	}

	effective := float64(len(matched)) + float64(overlaps)*domainCredit
	return math.Min(100, effective/float64(len(required))*100), matched
}

func scoreJobType(desired []domain.JobType, jt domain.JobType) float64 {
	if len(desired) == 0 {
		return 70
	}
	for _, d := range desired {
		if d == jt {
			return 100
		}
	}
	return 30
}

func scoreLocation(desired []string, jobLocation string, isRemote bool) float64 {
	if len(desired) == 0 {
		return 70
	}
	if isRemote {
		for _, l := range desired {
			if strings.Contains(strings.ToLower(l), "remote") {
				return 100
			}
		}
		return 80
	}
	if jobLocation == "" {
		return 50
	}
	job := strings.ToLower(jobLocation)
	for _, l := range desired {
		ll := strings.ToLower(l)
		if strings.Contains(job, ll) || strings.Contains(ll, job) {
			return 100
		}
	}
	return 30
}

var levelYears = map[domain.ExperienceLevel][2]float64{
	domain.LevelEntry:     {0, 2},
	domain.LevelMid:       {2, 5},
	domain.LevelSenior:    {5, 10},
	domain.LevelLead:      {8, 15},
	domain.LevelExecutive: {12, 30},
}

func scoreExperience(years float64, level domain.ExperienceLevel) float64 {
	r, ok := levelYears[level]
	if !ok {
		r = levelYears[domain.LevelMid]
	}
	switch {
	case years >= r[0] && years <= r[1]:
		return 100
	case years < r[0]:
		return math.Max(30, 100-(r[0]-years)*20)
	default:
		return math.Max(50, 100-(years-r[1])*10)
	}
}

func scoreSalary(userMin, userMax, jobMin, jobMax *float64) float64 {
	uMin, uMax := val(userMin), val(userMax)
	jMin, jMax := val(jobMin), val(jobMax)
	if uMin == 0 && uMax == 0 {
		return 70
	}
	if jMin == 0 && jMax == 0 {
		return 60
	}
	if jMax == 0 {
		jMax = jMin * 1.3
	}
	if uMax == 0 {
		uMax = uMin * 1.5
	}

	if jMax >= uMin && jMin <= uMax {
		return 100
	}
	if jMax < uMin {
		return math.Max(20, 100-(uMin-jMax)/uMin*100)
	}
	return 70
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
