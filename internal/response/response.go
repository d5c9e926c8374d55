// Package response implements the uniform envelope returned by every
// operation. Callers check the success flag rather than only the transport
// status.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderdesk/service-bookings/internal/domain"
)

// Envelope is the uniform wrapper: {success, message, data, meta}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta"`
}

// PageMeta is the pagination block carried in meta on list responses.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a 200 envelope with pagination meta.
func Paginated[T any](c *gin.Context, message string, result domain.PaginatedResult[T]) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    result.Items,
		Meta: PageMeta{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// BadRequest writes a 400 failure envelope.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// Unauthorized writes a 401 failure envelope.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: message})
}

// Internal writes a generic 500 failure envelope.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
}

// Error maps a domain error to a failure envelope. Unknown errors become a
// generic 500 so internal detail never leaks to callers.
func Error(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: validationErr.Message})
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, Envelope{Success: false, Message: notFoundErr.Error()})
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, Envelope{Success: false, Message: conflictErr.Message})
		return
	}

	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "storage failure, previous data is intact"})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
}
