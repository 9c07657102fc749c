package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux returns the raw mux so main() can still attach /shutdown.
func NewMux(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{Agg: d.Agg}.Health,
	}))

	// Jobs
	jh := JobsHandler{Agg: d.Agg, Lister: d.Lister}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/cached", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Cached,
	}))
	mux.HandleFunc("/jobs/grouped", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Grouped,
	}))

	// Aggregation
	ah := AggregateHandler{Deps: d}
	mux.HandleFunc("/aggregate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Run,
	}))
	mux.HandleFunc("/aggregate/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Status,
	}))
	mux.HandleFunc("/aggregate/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Runs,
	}))
	mux.HandleFunc("/platforms", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Platforms,
	}))

	// Config
	ch := ConfigHandler{Deps: d}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sh := SecretsHandler{Secrets: d.Secrets}
	mux.HandleFunc("/secrets", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))
	mux.HandleFunc("/secrets/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut:    sh.SetByPath,
		http.MethodDelete: sh.DeleteByPath,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// Handler wraps the mux in the standard middleware stack.
func Handler(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return Chain(NewMux(d), Trace, RequestID, Recover(log.Named("http")), AccessLog(log.Named("http")), Cors)
}
