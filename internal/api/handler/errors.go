package handler

import (
	"errors"
	"net/http"

	"denuncia/backend/internal/attachment"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes written in the "error" field of failed responses.
const (
	CodeNotFound       = "not_found"
	CodeForbidden      = "forbidden"
	CodeUnauthorized   = "unauthorized"
	CodeBadRequest     = "bad_request"
	CodeUploadDisabled = "uploads_disabled"
	CodeInternal       = "internal"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := h.errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) errorResponse(err error) (int, ErrorBody) {
	switch policy.Classify(err) {
	case policy.KindNotFound:
		return http.StatusNotFound, ErrorBody{Error: CodeNotFound, Message: err.Error()}
	case policy.KindForbidden:
		return http.StatusForbidden, ErrorBody{Error: CodeForbidden, Message: err.Error()}
	}

	var rej *policy.RejectedError
	if errors.As(err, &rej) {
		switch {
		case policy.Classify(err) == policy.KindFlood:
			return http.StatusForbidden, ErrorBody{Error: rej.Reason, Message: rej.Message}
		case rej.Reason == policy.ReasonSameStatus || rej.Reason == policy.ReasonTerminal:
			return http.StatusConflict, ErrorBody{Error: rej.Reason, Message: rej.Message}
		default:
			return http.StatusUnprocessableEntity, ErrorBody{Error: rej.Reason, Message: rej.Message}
		}
	}

	switch {
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorBody{Error: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, attachment.ErrDisabled):
		return http.StatusServiceUnavailable, ErrorBody{Error: CodeUploadDisabled, Message: err.Error()}
	}
	return http.StatusInternalServerError, ErrorBody{Error: CodeInternal, Message: "internal error"}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: CodeBadRequest, Message: err.Error()})
}
