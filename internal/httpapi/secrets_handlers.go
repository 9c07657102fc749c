package httpapi

import (
	"net/http"
	"strings"

	"jobmatch-engine/internal/secrets"
)

type SecretsHandler struct {
	Secrets SecretStore
}

type setSecretReq struct {
	Value string `json:"value"`
}

// Status reports which secrets are set. Values never leave the keychain.
func (h SecretsHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"secrets": h.Secrets.Status()})
}

// SetByPath expects PUT /secrets/{name} with {"value": "..."}.
func (h SecretsHandler) SetByPath(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/secrets/")
	var req setSecretReq
	if err := decodeStrict(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if err := h.Secrets.Set(name, req.Value); err != nil {
		WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/secrets/")
	if err := h.Secrets.Delete(name); err != nil {
		WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// KeyringSecrets adapts the secrets package to SecretStore.
type KeyringSecrets struct{}

func (KeyringSecrets) Set(name, value string) error { return secrets.Set(name, value) }
func (KeyringSecrets) Delete(name string) error      { return secrets.Delete(name) }
func (KeyringSecrets) Status() map[string]bool       { return secrets.Status() }
