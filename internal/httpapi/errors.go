package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"jobmatch-engine/internal/aggregate"
	"jobmatch-engine/internal/errs"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

var statusByType = map[errs.ErrorType]int{
	errs.ErrTypeNotFound:     http.StatusNotFound,
	errs.ErrTypeInvalidInput: http.StatusBadRequest,
	errs.ErrTypeRateLimit:    http.StatusTooManyRequests,
	errs.ErrTypeUnavailable:  http.StatusServiceUnavailable,
	errs.ErrTypeBlocked:      http.StatusBadGateway,
	errs.ErrTypeDisabled:     http.StatusConflict,
	errs.ErrTypeConflict:     http.StatusConflict,
	errs.ErrTypeInternal:     http.StatusInternalServerError,
}

// WriteDomainError maps an errs type to a status code. Internal details
// stay in the log; the client gets the message only.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	t := errs.TypeOf(err)
	status, ok := statusByType[t]
	if !ok {
		status = http.StatusInternalServerError
		t = errs.ErrTypeInternal
	}
	if wait, ok := aggregate.RetryAfter(err); ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	}

	msg := err.Error()
	var de *errs.DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	WriteError(w, r, status, string(t), msg)
}
