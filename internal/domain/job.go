package domain

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
	JobTypeRemote     JobType = "remote"
)

// ParseJobType returns the matching JobType, falling back to full_time.
func ParseJobType(s string) JobType {
	switch t := JobType(s); t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance, JobTypeRemote:
		return t
	default:
		return JobTypeFullTime
	}
}

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// ParseExperienceLevel returns the matching level, falling back to mid.
func ParseExperienceLevel(s string) ExperienceLevel {
	switch l := ExperienceLevel(s); l {
	case LevelEntry, LevelMid, LevelSenior, LevelLead, LevelExecutive:
		return l
	default:
		return LevelMid
	}
}

type Locality string

const (
	LocalityCity          Locality = "city"
	LocalityNational      Locality = "national"
	LocalityRemote        Locality = "remote"
	LocalityInternational Locality = "international"
	LocalityUnknown       Locality = "unknown"
)

// RawJob is what an adapter hands back before normalization. Optional values
// stay optional; enum-like fields are free text until the normalizer coerces them.
type RawJob struct {
	Title           string
	CompanyName     string
	CompanyLogoURL  string
	Description     string
	Requirements    []string
	Skills          []string
	Location        string
	IsRemote        bool
	SalaryMin       *float64
	SalaryMax       *float64
	SalaryCurrency  string
	JobType         string
	ExperienceLevel string
	SourcePlatform  string
	SourceURL       string
	ExternalID      string
	PostedAt        string
	Metadata        map[string]any
}

type JobListing struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	CompanyName     string          `json:"company_name"`
	CompanyLogoURL  *string         `json:"company_logo_url"`
	Description     string          `json:"description"`
	Requirements    []string        `json:"requirements"`
	SkillsRequired  []string        `json:"skills_required"`
	Location        *string         `json:"location"`
	IsRemote        bool            `json:"is_remote"`
	SalaryMin       *float64        `json:"salary_min"`
	SalaryMax       *float64        `json:"salary_max"`
	SalaryCurrency  string          `json:"salary_currency"`
	JobType         JobType         `json:"job_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	SourcePlatform  string          `json:"source_platform"`
	SourceURL       *string         `json:"source_url"`
	ExternalID      string          `json:"external_id"`
	IsActive        bool            `json:"is_active"`
	PostedAt        time.Time       `json:"posted_at"`
	Metadata        map[string]any  `json:"metadata"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LocationString returns the listing location or "".
func (j JobListing) LocationString() string {
	if j.Location == nil {
		return ""
	}
	return *j.Location
}

type JobMatch struct {
	JobID         string   `json:"job_id"`
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MatchReasons  []string `json:"match_reasons"`
	Locality      Locality `json:"locality"`
}
