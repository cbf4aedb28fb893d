package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/store"
)

var errHistoryDisabled = eris.New("search history is disabled")

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

// writeError maps err to a status code. Unexpected errors are logged and
// reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody{
		Error:     err.Error(),
		Kind:      string(outreach.KindOf(err)),
		RequestID: middleware.GetReqID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("api: request failed",
			zap.String("request_id", body.RequestID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func statusOf(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, new(*requestError)):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errHistoryDisabled):
		return http.StatusServiceUnavailable
	}
	switch outreach.KindOf(err) {
	case outreach.KindInvalidInput:
		return http.StatusBadRequest
	case outreach.KindWebSearchRequired, outreach.KindConfig:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// requestError is a malformed request: bad JSON or query parameters.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
