// Package secrets resolves API keys and the IMAP password, from the OS
// keychain first and the environment second.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/errs"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "jobmatch"

const (
	GeminiAPIKey = "gemini_api_key"
	RapidAPIKey  = "rapidapi_key"
	JoobleAPIKey = "jooble_api_key"
	SearchAPIKey = "searchapi_key"
	AdzunaAppID  = "adzuna_app_id"
	AdzunaAppKey = "adzuna_app_key"
	IMAPPassword = "imap_password"
)

// Names lists every secret the engine reads.
var Names = []string{GeminiAPIKey, RapidAPIKey, JoobleAPIKey, SearchAPIKey, AdzunaAppID, AdzunaAppKey, IMAPPassword}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// EnvVar is the environment fallback for name: GEMINI_API_KEY and so on.
func EnvVar(name string) string { return strings.ToUpper(name) }

// Get returns the secret or "" when it is set nowhere.
func Get(name string) string {
	if pw, err := keyring.Get(KeyringService, name); err == nil && strings.TrimSpace(pw) != "" {
		return strings.TrimSpace(pw)
	}
	return strings.TrimSpace(os.Getenv(EnvVar(name)))
}

func Set(name, value string) error {
	if !known(name) {
		return errs.InvalidInput("unknown secret "+name, nil)
	}
	if strings.TrimSpace(value) == "" {
		return errs.InvalidInput("secret value is empty", nil)
	}
	if err := keyring.Set(KeyringService, name, strings.TrimSpace(value)); err != nil {
		return errs.Internal("keyring set", err)
	}
	return nil
}

func Delete(name string) error {
	if !known(name) {
		return errs.InvalidInput("unknown secret "+name, nil)
	}
	if err := keyring.Delete(KeyringService, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errs.NotFound("secret "+name+" is not set", err)
		}
		return errs.Internal("keyring delete", err)
	}
	return nil
}

// Status reports which secrets are set, without their values.
func Status() map[string]bool {
	out := make(map[string]bool, len(Names))
	for _, n := range Names {
		out[n] = Get(n) != ""
	}
	return out
}

// Settings assembles the credential half of AppSettings.
func Settings() domain.AppSettings {
	return domain.AppSettings{
		GeminiAPIKey: Get(GeminiAPIKey),
		RapidAPIKey:  Get(RapidAPIKey),
		JoobleAPIKey: Get(JoobleAPIKey),
		SearchAPIKey: Get(SearchAPIKey),
		AdzunaAppID:  Get(AdzunaAppID),
		AdzunaAppKey: Get(AdzunaAppKey),
	}
}
