package web

// errors.go provides unified error response handling for the web layer.
//
// Technical details are logged server-side with the request id. Clients get
// the mapped user message, its action hint and its code, formatted for the
// kind of request (HTMX partial, JSON or full page).
//
// The error flow:
//  1. A handler gets an error from the service (unknown table, busy limiter, ...)
//  2. It calls respondError(w, r, err, statusFor(err))
//  3. core.MapError turns the error into a UserMessage
//  4. The technical error is logged with path, status and code
//  5. HTMX requests also get a showNotification trigger with the message

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/uikit/internal/core"
	"github.com/JonMunkholm/uikit/internal/logging"
	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/ui"
	"github.com/JonMunkholm/uikit/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
// Code is machine-readable; Message and Action are meant for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user message in the format the
// client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	switch {
	case isHTMX(r):
		n := newNotifier(r.Context())
		n.Notify(userMsg.Message, ui.LevelError)
		n.apply(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_ = templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_ = templates.Layout("Error", templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code)).Render(r.Context(), w)
	}
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrUnknownTable), errors.Is(err, core.ErrUnknownForm):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyPreviews):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeError writes message as a mapped JSON error. Used where no service
// error exists, such as bad parameters.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"path", r.URL.Path,
		"status", status,
		"reason", message,
	)
	msg := core.MapError(errors.New(message))
	if msg.Code == "ERR000" {
		msg = core.UserMessage{Message: message, Code: "REQ000"}
	}
	respondErrorJSON(w, msg, status)
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode", "error", err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client prefers JSON. API routes default to
// JSON.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
