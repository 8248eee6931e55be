package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lovemirror-backend/internal/service"
)

type PartnerController struct {
	PartnerService service.PartnerService
}

func NewPartnerController(partnerService service.PartnerService) *PartnerController {
	return &PartnerController{PartnerService: partnerService}
}

// InvitePartner handles POST /partners/invitations
func (pc *PartnerController) InvitePartner(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}
	uid, ok := userID(c)
	if !ok {
		return
	}
	invitation, err := pc.PartnerService.Invite(c.Request.Context(), uid, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invitation)
}

// GetInvitations handles GET /partners/invitations
func (pc *PartnerController) GetInvitations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	invitations, err := pc.PartnerService.Active(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitations)
}

// GetInvitation handles GET /partners/invitations/:code
func (pc *PartnerController) GetInvitation(c *gin.Context) {
	view, err := pc.PartnerService.ByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AcceptInvitation handles POST /partners/invitations/:code/accept
func (pc *PartnerController) AcceptInvitation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	relationship, err := pc.PartnerService.Accept(c.Request.Context(), uid, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, relationship)
}

// DeclineInvitation handles POST /partners/invitations/:code/decline
func (pc *PartnerController) DeclineInvitation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := pc.PartnerService.Decline(c.Request.Context(), uid, c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}

// GetRelationships handles GET /relationships
func (pc *PartnerController) GetRelationships(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	relationships, err := pc.PartnerService.Relationships(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, relationships)
}

// GetCompletionStatus handles GET /relationships/:id/status
func (pc *PartnerController) GetCompletionStatus(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	status, err := pc.PartnerService.CompletionStatus(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
