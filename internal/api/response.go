package api

import (
	"errors"
	"net/http"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.WithError(err).Warn("Failed to encode response")
		}
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *gigerr.NotFoundError
	var alreadyExists *gigerr.AlreadyExistsError
	var validation *gigerr.ValidationError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &alreadyExists):
		status = http.StatusConflict
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	default:
		log.WithError(err).Error("Request failed")
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
