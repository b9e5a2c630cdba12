package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-loading-api/internal/middleware"
	"github.com/campusops/faculty-loading-api/internal/service"
	"github.com/campusops/faculty-loading-api/pkg/response"
)

// ConflictHandler wires conflict detection to HTTP routes.
type ConflictHandler struct {
	conflicts *service.ConflictService
}

// NewConflictHandler constructs a new ConflictHandler.
func NewConflictHandler(conflicts *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts}
}

// Report godoc
// @Summary Full conflict report over the schedule collection
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) Report(c *gin.Context) {
	report, cached, err := h.conflicts.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// Check godoc
// @Summary Conflict check scoped to one schedule entry
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *ConflictHandler) Check(c *gin.Context) {
	check, err := h.conflicts.Check(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, check, nil)
}
