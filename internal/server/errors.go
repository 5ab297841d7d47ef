package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resutrack/internal/classifier"
	"github.com/jonathan/resutrack/internal/storage"
	"github.com/jonathan/resutrack/internal/tracker"
	"github.com/jonathan/resutrack/internal/validation"
)

// ErrBadRequest indicates a request body that could not be decoded
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badReq   *ErrBadRequest
		invalid  *validation.ValidationError
		classErr *classifier.ClassificationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &badReq), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrClassificationInFlight), errors.Is(err, tracker.ErrClassificationStale):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrNoClassifier):
		return http.StatusServiceUnavailable
	case classifier.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &classErr):
		return http.StatusBadGateway
	default:
		// includes storage.StorageWriteError
		return http.StatusInternalServerError
	}
}

// errorBody builds the JSON body for err. entry, when non-nil, is the
// state the store holds after the failed call.
func errorBody(err error, entry any) map[string]any {
	body := map[string]any{"error": err.Error()}

	var invalid *validation.ValidationError
	if errors.As(err, &invalid) {
		body["fields"] = invalid.Messages()
	}
	var writeErr *storage.StorageWriteError
	if errors.As(err, &writeErr) {
		body["saved"] = false
	}
	if entry != nil {
		body["entry"] = entry
	}
	return body
}

// fail writes err with its mapped status
func (s *Server) fail(w http.ResponseWriter, err error, entry any) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	s.jsonResponse(w, status, errorBody(err, entry))
}
