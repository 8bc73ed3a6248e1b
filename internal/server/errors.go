package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an error to its HTTP status and code.
func statusFor(err error) (int, errs.Code) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, errs.ErrCodeInvalidInput
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errs.ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, errs.ErrCodeTimeout
	}

	code := errs.GetCode(err)
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidOption, errs.ErrCodeInvalidPattern,
		errs.ErrCodeInvalidPath, errs.ErrCodeUnsupported:
		return http.StatusBadRequest, code
	case errs.ErrCodeInvalidDataset, errs.ErrCodeNoBinaryColumns:
		return http.StatusUnprocessableEntity, code
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case "":
		return http.StatusInternalServerError, errs.ErrCodeInternal
	default:
		return http.StatusInternalServerError, code
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if code == errs.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
