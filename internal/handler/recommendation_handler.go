package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-loading-api/internal/dto"
	"github.com/campusops/faculty-loading-api/internal/service"
	appErrors "github.com/campusops/faculty-loading-api/pkg/errors"
	"github.com/campusops/faculty-loading-api/pkg/response"
)

// RecommendationHandler wires the recommender to HTTP routes.
type RecommendationHandler struct {
	recommender *service.RecommendationService
}

// NewRecommendationHandler constructs a new RecommendationHandler.
func NewRecommendationHandler(recommender *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender}
}

// Recommend godoc
// @Summary Rank faculty candidates for a schedule entry
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param top query int false "Number of candidates to return"
// @Param payload body dto.RecommendRequest false "Optional external inputs"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/recommendations [post]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recommendation payload"))
			return
		}
	}
	if top, err := strconv.Atoi(c.Query("top")); err == nil && top > 0 {
		req.Top = top
	}

	result, err := h.recommender.Recommend(c.Request.Context(), c.Param("id"), service.RecommendOptions{
		Top:        req.Top,
		Attendance: req.Attendance,
		Grades:     req.Grades,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Eligibility godoc
// @Summary Check whether a faculty member can take a schedule entry
// @Tags Recommendations
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param facultyId path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/eligibility/{facultyId} [get]
func (h *RecommendationHandler) Eligibility(c *gin.Context) {
	verdict, err := h.recommender.Eligibility(c.Request.Context(), c.Param("id"), c.Param("facultyId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verdict, nil)
}
