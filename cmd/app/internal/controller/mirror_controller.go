package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lovemirror-backend/internal/service"
)

// MirrorController serves the two comparison views: self against raters and
// partner against partner.
type MirrorController struct {
	DelusionalService    service.DelusionalService
	CompatibilityService service.CompatibilityService
}

func NewMirrorController(delusional service.DelusionalService, compatibility service.CompatibilityService) *MirrorController {
	return &MirrorController{DelusionalService: delusional, CompatibilityService: compatibility}
}

// GetDelusionalScore handles GET /delusional
func (mc *MirrorController) GetDelusionalScore(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	report, err := mc.DelusionalService.Calculate(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "report": report})
}

// CalculateCompatibility handles POST /relationships/:id/compatibility
func (mc *MirrorController) CalculateCompatibility(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	report, err := mc.CompatibilityService.Calculate(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"available": true, "report": report})
}

// GetCompatibility handles GET /relationships/:id/compatibility
func (mc *MirrorController) GetCompatibility(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	report, err := mc.CompatibilityService.Latest(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "report": report})
}

// GetCompatibilitySummary handles GET /relationships/:id/compatibility/summary
func (mc *MirrorController) GetCompatibilitySummary(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	summary, err := mc.CompatibilityService.Summary(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "summary": summary})
}
