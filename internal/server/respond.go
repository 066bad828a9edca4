package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"garagepro/internal/domain"
	"garagepro/internal/reports"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs    domain.ValidationErrors
		notFound *domain.NotFoundError
		target   *domain.ShareTargetError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, e := range verrs {
			if _, ok := fields[e.Field]; !ok {
				fields[e.Field] = e.Message
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fields})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.As(err, &target):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  target.Error(),
			Fields: map[string]string{"phone": "Phone number must have at least 10 digits"},
		})
	case errors.Is(err, domain.ErrTransitionNotAllowed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, reports.ErrUnknownPeriod), errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Request error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
