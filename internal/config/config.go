package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/domain"
)

type Config struct {
	App         App                `yaml:"app" json:"app"`
	Aggregation Aggregation        `yaml:"aggregation" json:"aggregation"`
	Sources     Sources            `yaml:"sources" json:"sources"`
	Profile     domain.UserProfile `yaml:"profile" json:"profile"`
	Cache       Cache              `yaml:"cache" json:"cache"`
	Events      Events             `yaml:"events" json:"events"`
	Telemetry   Telemetry          `yaml:"telemetry" json:"telemetry"`
	Schedule    Schedule           `yaml:"schedule" json:"schedule"`
	Email       Email              `yaml:"email" json:"email"`
}

type App struct {
	Port     int    `yaml:"port" json:"port" validate:"gte=1,lte=65535"`
	DataDir  string `yaml:"data_dir" json:"data_dir"`
	LogLevel string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Dev      bool   `yaml:"dev" json:"dev"`
}

type Aggregation struct {
	MaxTasks        int           `yaml:"max_tasks" json:"max_tasks" validate:"gte=1,lte=500"`
	MaxAttempts     int           `yaml:"max_attempts" json:"max_attempts" validate:"gte=1,lte=10"`
	RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay" validate:"gte=0"`
	Concurrency     int           `yaml:"concurrency" json:"concurrency" validate:"gte=1,lte=200"`
	FreshnessDays   int           `yaml:"freshness_days" json:"freshness_days" validate:"gte=1"`
	RefreshCooldown time.Duration `yaml:"refresh_cooldown" json:"refresh_cooldown" validate:"gte=0"`
}

type Sources struct {
	// Disabled names adapters that are never built, keyed or not.
	Disabled          []string                 `yaml:"disabled" json:"disabled"`
	Timeouts          map[string]time.Duration `yaml:"timeouts" json:"timeouts"`
	RequestsPerSecond float64                  `yaml:"requests_per_second" json:"requests_per_second" validate:"gte=0"`
	Burst             int                      `yaml:"burst" json:"burst" validate:"gte=0"`
	Browser           Browser                  `yaml:"browser" json:"browser"`
	Boards            Boards                   `yaml:"boards" json:"boards"`
}

// Boards lists company job boards read through their public ATS APIs.
type Boards struct {
	Greenhouse []Board `yaml:"greenhouse" json:"greenhouse" validate:"dive"`
	Lever      []Board `yaml:"lever" json:"lever" validate:"dive"`
}

type Board struct {
	Slug string `yaml:"slug" json:"slug" validate:"required"`
	Name string `yaml:"name" json:"name"`
}

type Browser struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type Cache struct {
	Backend     string        `yaml:"backend" json:"backend" validate:"oneof=sqlite redis postgres"`
	RedisURL    string        `yaml:"redis_url" json:"redis_url" validate:"required_if=Backend redis"`
	PostgresURL string        `yaml:"postgres_url" json:"postgres_url" validate:"required_if=Backend postgres"`
	TTL         time.Duration `yaml:"ttl" json:"ttl"`
}

type Events struct {
	NATSURL string `yaml:"nats_url" json:"nats_url"`
	Subject string `yaml:"subject" json:"subject"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name" json:"service_name"`
	Insecure     bool   `yaml:"insecure" json:"insecure"`
}

type Schedule struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Spec    string `yaml:"spec" json:"spec"`
}

type Email struct {
	Enabled          bool     `yaml:"enabled" json:"enabled"`
	IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
	IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
	Username         string   `yaml:"username" json:"username"`
	Mailbox          string   `yaml:"mailbox" json:"mailbox"`
	SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
	MaxEmails        int      `yaml:"max_emails" json:"max_emails"`
	MarkSeen         bool     `yaml:"mark_seen" json:"mark_seen"`
}

// Default returns the configuration used when a field is missing from the
// user's file.
func Default() Config {
	return Config{
		App: App{Port: 38471, LogLevel: "info"},
		Aggregation: Aggregation{
			MaxTasks:        50,
			MaxAttempts:     2,
			RetryDelay:      1500 * time.Millisecond,
			Concurrency:     12,
			FreshnessDays:   60,
			RefreshCooldown: 5 * time.Minute,
		},
		Sources: Sources{
			RequestsPerSecond: 2,
			Burst:             2,
			Browser:           Browser{Timeout: 30 * time.Second},
		},
		Cache:     Cache{Backend: "sqlite", TTL: 24 * time.Hour},
		Events:    Events{Subject: "jobmatch.runs"},
		Telemetry: Telemetry{ServiceName: "jobmatch-engine"},
		Schedule:  Schedule{Spec: "@every 6h"},
		Email:     Email{IMAPPort: 993, Mailbox: "INBOX", MaxEmails: 200},
	}
}

// Load reads path over Default, so a partial file keeps the defaults for
// everything it leaves out.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
