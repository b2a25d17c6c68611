package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowshop/backend/internal/infrastructure/persistence"
	"github.com/glowshop/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes service health endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports liveness of the service and its database connection
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrCodeInternal, "Database unreachable"))
		return
	}
	h.Success(c, gin.H{"status": "ok"})
}
