package web

// errors.go turns errors into responses.
//
// Every error goes through core.MapError so clients see a message, a
// suggested action and a code, while the log keeps the technical error
// next to the request id. API routes and clients asking for JSON get an
// ErrorResponse; browsers get an HTML error page.

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/logging"
	page "github.com/JonMunkholm/confprogram/internal/render"
)

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	HTTPStatus int `json:"-"`

	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatus)
	return nil
}

// respondError logs err and writes the user-facing version of it.
// A status of 0 picks one from the error code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)
	if status == 0 {
		status = statusFor(msg.Code)
	}

	logger := logging.WithFields(r.Context(),
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request error", "error", err.Error())
	} else {
		logger.Warn("request error", "error", err.Error())
	}

	if wantsJSON(r) {
		resp := &ErrorResponse{
			HTTPStatus: status,
			Error:      msg.Message,
			Message:    msg.Message,
			Action:     msg.Action,
			Code:       msg.Code,
		}
		if rerr := render.Render(w, r, resp); rerr != nil {
			logger.Error("write error response", "error", rerr)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	alert := page.ErrorAlert(msg.Message, msg.Action, msg.Code)
	if rerr := page.ErrorPage(http.StatusText(status), alert).Render(r.Context(), w); rerr != nil {
		logger.Error("write error page", "error", rerr)
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(code string) int {
	switch {
	case strings.HasPrefix(code, "VAL"):
		return http.StatusUnprocessableEntity
	case code == "FILE001":
		return http.StatusRequestEntityTooLarge
	case code == "FILE002":
		return http.StatusUnsupportedMediaType
	case code == "FILE006":
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "FILE"):
		return http.StatusBadRequest
	case code == "UPL003":
		return http.StatusServiceUnavailable
	case code == "UPL004":
		return http.StatusBadRequest
	case code == "UPL005":
		return http.StatusGatewayTimeout
	case code == "RATE001":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON reports whether the client should get a JSON error.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
