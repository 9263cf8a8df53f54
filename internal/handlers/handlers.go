package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/lobby"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/records"
)

var ErrUnauthorized = errors.New("missing or foreign session token")

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log *logrus.Logger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]any {
	payload := map[string]any{
		"error": err.Error(),
	}
	var cerr *lobby.CommandError
	if errors.As(err, &cerr) {
		payload["line"] = cerr.Line
	}
	return payload
}

// statusFor maps domain errors to HTTP statuses; anything unknown is a 500.
func statusFor(err error) int {
	var (
		cerr *lobby.CommandError
		merr schema.MultiError
	)
	switch {
	case errors.Is(err, mines.ErrGameAlreadyOver):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, records.ErrUnknownDifficulty),
		errors.As(err, &cerr),
		errors.As(err, &merr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, log *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("unable to handle request")
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, werr := SendJSON(w, wrapError(err)); werr != nil {
		log.WithError(werr).Error("unable to send error")
	}
}
