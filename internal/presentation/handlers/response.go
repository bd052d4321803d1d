package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitactdash/internal/application/service"
	"gitactdash/internal/result"
)

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// DataResponse wraps a successful payload. Warnings lists the non-blocking
// problems met while producing it.
type DataResponse struct {
	Data     interface{} `json:"data"`
	Warnings []string    `json:"warnings,omitempty"`
}

// failureKind maps a failed result onto an HTTP status and error code
type failureKind func(message string) (int, string)

// upstreamFailure is used for everything the GitHub API reports
func upstreamFailure(string) (int, string) {
	return http.StatusBadGateway, "github_error"
}

// storageFailure separates an unidentified browser from a broken store
func storageFailure(message string) (int, string) {
	if message == service.MessageInteropUnavailable {
		return http.StatusConflict, "client_unidentified"
	}
	return http.StatusServiceUnavailable, "storage_unavailable"
}

// render writes r: Success and Warning become 200 with the converted value,
// Failure becomes an ErrorResponse
func render[T, U any](c *gin.Context, r result.Result[T], kind failureKind, convert func(T) U) {
	value, ok := r.Value()
	if !ok {
		message, _ := r.Message()
		status, code := kind(message)
		c.JSON(status, ErrorResponse{Error: code, Message: message})
		return
	}

	response := DataResponse{Data: convert(value)}
	if r.IsWarning() {
		response.Warnings = r.Messages()
	}
	c.JSON(http.StatusOK, response)
}
