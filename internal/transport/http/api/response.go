package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/permerror"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// PermissionDenied writes a translated upstream denial for JSON
// consumers. The structured error rides in Data so the caller can feed
// it to the dialog unchanged.
func PermissionDenied(w http.ResponseWriter, translated *permerror.PermissionError, requestID string) {
	WriteJSON(w, http.StatusForbidden, Envelope{
		Success:   false,
		Data:      translated,
		Error:     &Error{Code: "permission_denied", Message: translated.DisplayMessage()},
		RequestID: requestID,
	})
}
