// Package response writes JSON bodies for routes served outside huma: the
// router's fallback handlers and panic recovery. Errors use the same shape as
// huma operation errors.
package response

import (
	"encoding/json/v2"
	"net/http"

	domainerrors "github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/logger"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v with the given status using json/v2.
func JSON(w http.ResponseWriter, status int, v any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, v); err != nil && log != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes err as an ErrorBody. Domain errors keep their code, status
// and details; anything else becomes a 500 without leaking its message.
func Error(w http.ResponseWriter, err error, log *logger.Logger) {
	var de *domainerrors.Error
	if !domainerrors.As(err, &de) {
		if log != nil {
			log.Error("unhandled error", "error", err)
		}
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Code:    string(domainerrors.CodeInternal),
			Message: "internal server error",
		}, log)
		return
	}

	JSON(w, de.HTTPStatus(), ErrorBody{
		Code:    string(de.Code),
		Message: de.Message,
		Details: de.Details,
	}, log)
}

// NotFound writes a NOT_FOUND error for an unknown route.
func NotFound(w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	Error(w, domainerrors.NotFoundf("no route for %s %s", r.Method, r.URL.Path), log)
}

// MethodNotAllowed writes a 405 for a known route with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	JSON(w, http.StatusMethodNotAllowed, ErrorBody{
		Code:    string(domainerrors.CodeValidation),
		Message: r.Method + " is not allowed on " + r.URL.Path,
	}, log)
}
