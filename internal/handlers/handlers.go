package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/sessions"
)

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	_, err := SendJSON(w, status, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, mines.ErrInvalidIndex),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrGameAlreadyOver),
		errors.Is(err, repository.ErrAlreadyRecorded):
		return http.StatusConflict
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrBadTicket):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (g GameHandler) sendError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		g.log.WithError(err).Error("request failed")
		w.WriteHeader(status)
		return
	}
	sendJSONOrLog(w, g.log, status, wrapError(err))
}
