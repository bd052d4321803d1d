package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks that a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	storage     Pinger
	storageKind string
}

// NewHealthHandler creates a new health handler. storage may be nil when the
// in-memory store is used.
func NewHealthHandler(storage Pinger, storageKind string) *HealthHandler {
	return &HealthHandler{storage: storage, storageKind: storageKind}
}

// Health handles GET /health
// @Summary Health check
// @Description Returns the health status of the service and its storage backend
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /v1/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "healthy",
		Message: "Service is running",
		Storage: h.storageKind,
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			response.Status = "degraded"
			response.Message = "Storage is unreachable: " + err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Storage string `json:"storage"`
}
