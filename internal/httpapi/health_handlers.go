package httpapi

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	Agg Aggregator
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	}
	if h.Agg != nil {
		out["aggregating"] = h.Agg.Status().Running
	}
	WriteJSON(w, http.StatusOK, out)
}
