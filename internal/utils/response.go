package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
)

const internalErrorMessage = "internal server error"

// WriteJSONResponse writes the success/failed envelope.
func WriteJSONResponse(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	resp := models.APIResponse{Status: models.StatusSuccess, Message: message, Data: data}
	if !success {
		resp.Status = models.StatusFailed
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteSuccess always emits the data key, null included.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Status string      `json:"status"`
		Data   interface{} `json:"data"`
	}{Status: models.StatusSuccess, Data: data})
}

// WriteError turns err into the failed envelope. AppErrors keep their status
// and message and are logged at Warn; anything else is logged at Error and
// reported as a generic 500.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ae, ok := apperr.As(err); ok && ae.Status > 0 && ae.Status < http.StatusInternalServerError {
		attrs := []any{"status", ae.Status, "message", ae.Message}
		if ae.Cause != nil {
			attrs = append(attrs, "cause", ae.Cause)
		}
		logger.Warn("request rejected", attrs...)
		WriteJSONResponse(w, ae.Status, false, ae.Message, nil)
		return
	}
	logger.Error("unexpected failure", "err", err)
	WriteJSONResponse(w, http.StatusInternalServerError, false, internalErrorMessage, nil)
}
