package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lovemirror-backend/internal/service"
)

type AssessorController struct {
	AssessorService service.AssessorService
}

func NewAssessorController(assessorService service.AssessorService) *AssessorController {
	return &AssessorController{AssessorService: assessorService}
}

// InviteAssessor handles POST /assessors
func (ac *AssessorController) InviteAssessor(c *gin.Context) {
	var req service.InviteAssessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: email and relationship are required"})
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}
	assessor, err := ac.AssessorService.Invite(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assessor)
}

// GetAssessors handles GET /assessors
func (ac *AssessorController) GetAssessors(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assessors, err := ac.AssessorService.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessors)
}

// ResendInvitation handles POST /assessors/:id/resend
func (ac *AssessorController) ResendInvitation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	assessor, err := ac.AssessorService.Resend(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessor)
}

// RemoveAssessor handles DELETE /assessors/:id
func (ac *AssessorController) RemoveAssessor(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := ac.AssessorService.Remove(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetResults handles GET /assessors/results
func (ac *AssessorController) GetResults(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	results, err := ac.AssessorService.Results(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetSummary handles GET /assessors/summary
func (ac *AssessorController) GetSummary(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	summary, err := ac.AssessorService.Summary(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "summary": summary})
}

// GetInvitation handles GET /external/:code. Raters are not signed in.
func (ac *AssessorController) GetInvitation(c *gin.Context) {
	invitation, err := ac.AssessorService.ByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

// SubmitExternal handles POST /external/:code
func (ac *AssessorController) SubmitExternal(c *gin.Context) {
	var req service.ExternalSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: responses are required"})
		return
	}
	result, err := ac.AssessorService.Submit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thank you for your feedback", "result_id": result.ID})
}
