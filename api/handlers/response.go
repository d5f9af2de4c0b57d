package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/config"
	"github.com/linesmerrill/court-records-api/domainerrors"
	"github.com/linesmerrill/court-records-api/models"
)

var statusByCode = map[domainerrors.Code]int{
	domainerrors.CodeNotFound:     http.StatusNotFound,
	domainerrors.CodeValidation:   http.StatusBadRequest,
	domainerrors.CodeUnauthorized: http.StatusUnauthorized,
	domainerrors.CodeForbidden:    http.StatusForbidden,
	domainerrors.CodeConflict:     http.StatusConflict,
	domainerrors.CodeInternal:     http.StatusInternalServerError,
}

// writeError renders err through config.ErrorStatus with the status its code maps to
func writeError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := string(code)
	var derr *domainerrors.Error
	if errors.As(err, &derr) && derr.Message != "" {
		message = derr.Message
	}
	config.ErrorStatus(message, status, w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeAttachment serves v as a downloadable JSON file
func writeAttachment(w http.ResponseWriter, filename string, v interface{}) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, v)
}

// decode reads a JSON body into v and validates its struct tags
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "failed to decode request body")
	}
	if err := models.GetValidator().Struct(v); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, models.FormatValidationError(err))
	}
	return nil
}

// actorOf returns the authenticated caller, or the zero actor which the workflow rejects
func actorOf(r *http.Request) models.Actor {
	actor, _ := auth.ActorFrom(r.Context())
	return actor
}
