package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/profiler/internal/apperr"
)

// Response is the envelope every API endpoint returns.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeOK         = "OK"
	codeBadRequest = "BAD_REQUEST"
	codeRateLimit  = "RATE_LIMITED"
	codeInternal   = "INTERNAL_ERROR"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: codeOK, Message: "success", Data: data})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{Code: codeBadRequest, Message: message})
}

var statusByCode = map[apperr.Code]int{
	apperr.CodeInvalidIdentity:    http.StatusBadRequest,
	apperr.CodeOutOfSequence:      http.StatusConflict,
	apperr.CodeInvalidAnswer:      http.StatusUnprocessableEntity,
	apperr.CodeUnauthorized:       http.StatusUnauthorized,
	apperr.CodeNotFound:           http.StatusNotFound,
	apperr.CodePersistenceFailure: http.StatusServiceUnavailable,
	apperr.CodeConfiguration:      http.StatusInternalServerError,
}

// StatusFor maps err to an HTTP status.
func StatusFor(err error) int {
	if s, ok := statusByCode[apperr.CodeOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// fail writes err. Internal details of uncoded errors stay in the log.
func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	code := string(apperr.CodeOf(err))
	message := err.Error()

	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Message != "" {
		message = ae.Message
	}
	if code == "" {
		code, message = codeInternal, "internal server error"
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}
