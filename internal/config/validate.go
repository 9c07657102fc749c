package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/robfig/cron/v3"

	"jobmatch-engine/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// NormalizeAndValidate returns a copy of cfg with lists trimmed and
// deduplicated, together with the problems found. Struct tags are checked
// first; the rules below cover what tags cannot express.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Sources.Disabled = lowerAll(trimList(out.Sources.Disabled))
	out.Profile.Skills = trimList(out.Profile.Skills)
	out.Profile.DesiredLocations = trimList(out.Profile.DesiredLocations)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				res.addErr("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
		} else {
			res.addErr("%v", err)
		}
	}

	if p := out.Profile; p.DesiredSalaryMin != nil && p.DesiredSalaryMax != nil && *p.DesiredSalaryMin > *p.DesiredSalaryMax {
		res.addErr("profile.desired_salary_min is greater than desired_salary_max")
	}
	if strings.TrimSpace(out.Profile.Headline) == "" && len(out.Profile.Skills) == 0 {
		res.addWarn("profile has neither headline nor skills; searches fall back to a generic query.")
	}
	if strings.TrimSpace(out.Profile.Location) == "" && len(out.Profile.DesiredLocations) == 0 {
		res.addWarn("profile has no location; every source is queried without one.")
	}

	if out.Aggregation.Concurrency > out.Aggregation.MaxTasks {
		res.addWarn("aggregation.concurrency (%d) exceeds max_tasks (%d).", out.Aggregation.Concurrency, out.Aggregation.MaxTasks)
	}
	if out.Sources.RequestsPerSecond == 0 {
		res.addWarn("sources.requests_per_second is 0; per-host rate limiting is off.")
	}

	if out.Schedule.Enabled {
		if _, err := cron.ParseStandard(out.Schedule.Spec); err != nil {
			res.addErr("schedule.spec %q: %v", out.Schedule.Spec, err)
		}
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen LinkedIn alert is read.")
		}
	}

	return out, res
}

// ValidateProfile checks a profile on its own, for callers that accept one
// outside the config file.
func ValidateProfile(p domain.UserProfile) error {
	return validate.Struct(p)
}

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

func lowerAll(xs []string) []string {
	for i := range xs {
		xs[i] = strings.ToLower(xs[i])
	}
	return xs
}
