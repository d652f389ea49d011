// Package controller holds helpers shared by the user and admin handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/ieltsprep/internal/apperror"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/rs/zerolog/log"
)

// RespondError maps err onto its status code and writes a dto.ErrorResponse.
// Server-side failures are logged with the request id; their causes are not
// echoed to the client.
func RespondError(c *gin.Context, op string, err error) {
	status := apperror.HTTPStatus(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("request_id", middleware.RequestIDFrom(c)).Int("status", status).Msg(op)

	resp := dto.ErrorResponse{Message: err.Error(), Details: apperror.Details(err)}
	switch status {
	case http.StatusServiceUnavailable:
		resp = dto.ErrorResponse{Message: "A backing service is unavailable, please retry later"}
	case http.StatusInternalServerError:
		resp = dto.ErrorResponse{Message: "Internal server error"}
	}
	c.AbortWithStatusJSON(status, resp)
}

// RespondBindError reports a request body or query that failed binding.
func RespondBindError(c *gin.Context, op string, err error) {
	log.Warn().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg(op + ": failed to bind request")
	details := []string{err.Error()}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details = details[:0]
		for _, fe := range verrs {
			details = append(details, fe.Namespace()+": failed '"+fe.Tag()+"' validation")
		}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request", Details: details})
}

// UintParam parses a positive numeric path parameter, replying 400 when it is not one.
func UintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(v), true
}
