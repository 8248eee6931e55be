package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
	"lovemirror-backend/internal/service"
	"lovemirror-backend/utilities"
)

// respondError maps service errors onto HTTP statuses. A result that cannot
// be computed yet is not an error for the client: it gets 200 with
// "available": false.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scoring.ErrInsufficientData):
		c.JSON(http.StatusOK, gin.H{"available": false, "message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvitationInvalid):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyPartnered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// userID returns the authenticated caller, answering 401 when there is none.
func userID(c *gin.Context) (string, bool) {
	id := utilities.CurrentUserID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return "", false
	}
	return id, true
}

func assessmentType(c *gin.Context) scoring.AssessmentType {
	return scoring.AssessmentType(c.Query("type"))
}
