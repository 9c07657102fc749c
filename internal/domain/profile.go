package domain

import "time"

// UserProfile is the subset of the user's profile the aggregator reads.
type UserProfile struct {
	FullName         string    `yaml:"full_name" json:"full_name"`
	Headline         string    `yaml:"headline" json:"headline"`
	Location         string    `yaml:"location" json:"location"`
	Skills           []string  `yaml:"skills" json:"skills" validate:"dive,required,notblank"`
	ExperienceYears  float64   `yaml:"experience_years" json:"experience_years" validate:"gte=0,lte=60"`
	DesiredSalaryMin *float64  `yaml:"desired_salary_min" json:"desired_salary_min" validate:"omitempty,gte=0"`
	DesiredSalaryMax *float64  `yaml:"desired_salary_max" json:"desired_salary_max" validate:"omitempty,gte=0"`
	DesiredJobTypes  []JobType `yaml:"desired_job_types" json:"desired_job_types" validate:"dive,oneof=full_time part_time contract internship freelance remote"`
	DesiredLocations []string  `yaml:"desired_locations" json:"desired_locations" validate:"dive,required,notblank"`
}

// AppSettings carries optional third-party credentials. A blank key disables
// the adapter that needs it.
type AppSettings struct {
	GeminiAPIKey   string     `json:"gemini_api_key,omitempty"`
	RapidAPIKey    string     `json:"rapidapi_key,omitempty"`
	JoobleAPIKey   string     `json:"jooble_api_key,omitempty"`
	SearchAPIKey   string     `json:"searchapi_key,omitempty"`
	AdzunaAppID    string     `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey   string     `json:"adzuna_app_key,omitempty"`
	LastJobRefresh *time.Time `json:"last_job_refresh,omitempty"`
}
