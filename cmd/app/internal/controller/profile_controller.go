package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lovemirror-backend/internal/service"
	"lovemirror-backend/utilities"
)

type ProfileController struct {
	ProfileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// GetProfile handles GET /profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	profile, err := pc.ProfileService.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile handles PUT /profile
func (pc *ProfileController) SaveProfile(c *gin.Context) {
	var req service.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}
	profile, err := pc.ProfileService.Save(c.Request.Context(), uid, c.GetString(utilities.ContextEmail), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HealthCheck handles GET /health
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
