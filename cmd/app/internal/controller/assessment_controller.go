package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lovemirror-backend/internal/scoring"
	"lovemirror-backend/internal/service"
)

type AssessmentController struct {
	AssessmentService service.AssessmentService
}

func NewAssessmentController(assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// GetQuestions handles GET /questions/:type
func (ac *AssessmentController) GetQuestions(c *gin.Context) {
	set, err := ac.AssessmentService.Questions(scoring.AssessmentType(c.Param("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// GetType handles GET /assessments/type
func (ac *AssessmentController) GetType(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	t, err := ac.AssessmentService.ResolveType(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment_type": t, "name": scoring.AssessmentTypeName(t)})
}

// SubmitAssessment handles POST /assessments
func (ac *AssessmentController) SubmitAssessment(c *gin.Context) {
	var req struct {
		AssessmentType scoring.AssessmentType `json:"assessment_type"`
		Responses      []scoring.Response     `json:"responses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: responses are required"})
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}
	history, err := ac.AssessmentService.Submit(c.Request.Context(), uid, req.AssessmentType, req.Responses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, history)
}

// GetAssessments handles GET /assessments
func (ac *AssessmentController) GetAssessments(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	histories, err := ac.AssessmentService.History(c.Request.Context(), uid, assessmentType(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, histories)
}

// GetLatest handles GET /assessments/latest
func (ac *AssessmentController) GetLatest(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	history, err := ac.AssessmentService.Latest(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetAssessment handles GET /assessments/:id
func (ac *AssessmentController) GetAssessment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	history, err := ac.AssessmentService.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetSuggestions handles GET /assessments/:id/suggestions
func (ac *AssessmentController) GetSuggestions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	suggestions, err := ac.AssessmentService.Suggestions(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// GetProgress handles GET /assessments/progress
func (ac *AssessmentController) GetProgress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	report, err := ac.AssessmentService.Progress(c.Request.Context(), uid, assessmentType(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetBridalPrice handles POST /assessments/bridal-price
func (ac *AssessmentController) GetBridalPrice(c *gin.Context) {
	var req service.BridalPriceRequest
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
	result, err := ac.AssessmentService.BridalPrice(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadReport handles GET /assessments/:id/report
func (ac *AssessmentController) DownloadReport(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	pdf, err := ac.AssessmentService.Report(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=assessment_"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
