// Package response writes the JSON envelope shared by all HTTP handlers.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/care-io/service-booking/pkg/domain"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Meta carries pagination details.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

// BadRequest writes 400 with message.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "bad_request", message, "")
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	abort(c, http.StatusUnauthorized, "unauthenticated", message, "")
}

// Forbidden writes 403.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "forbidden"
	}
	abort(c, http.StatusForbidden, "forbidden", message, "")
}

// Error maps a domain error onto an HTTP status. Unknown and storage errors
// become 500 without exposing their details.
func Error(c *gin.Context, err error) {
	status, body := Classify(err)
	abort(c, status, body.Code, body.Message, body.Field)
}

// Classify returns the HTTP status and error body for err.
func Classify(err error) (int, ErrorBody) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		forbidden  *domain.ForbiddenError
		unauth     *domain.UnauthenticatedError
		state      *domain.InvalidStateError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorBody{Code: "invalid_argument", Message: validation.Error(), Field: validation.Field}
	case errors.As(err, &unauth):
		return http.StatusUnauthorized, ErrorBody{Code: "unauthenticated", Message: unauth.Error()}
	case errors.As(err, &forbidden):
		return http.StatusForbidden, ErrorBody{Code: "forbidden", Message: forbidden.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorBody{Code: "not_found", Message: notFound.Error()}
	case errors.As(err, &state):
		return http.StatusConflict, ErrorBody{Code: "invalid_state", Message: state.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, ErrorBody{Code: "conflict", Message: conflict.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "internal", Message: "internal server error"}
	}
}

func abort(c *gin.Context, status int, code, message, field string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Field: field},
	})
}
