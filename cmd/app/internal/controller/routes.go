package controller

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"lovemirror-backend/internal/config"
	"lovemirror-backend/internal/service"
	"lovemirror-backend/pkg/middleware"
	"lovemirror-backend/utilities"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Profiles      service.ProfileService
	Assessments   service.AssessmentService
	Assessors     service.AssessorService
	Delusional    service.DelusionalService
	Partners      service.PartnerService
	Compatibility service.CompatibilityService
	// Ping backs the health probe.
	Ping func(ctx context.Context) error
}

// corsConfig allows the configured origins with credentials. With none
// configured every origin is allowed, without credentials.
func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}

// NewRouter builds the engine with middleware and every route group.
func NewRouter(cfg *config.APIConfig, log *zap.Logger, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware(log))
	}

	r.Use(cors.New(corsConfig(cfg.Context.AllowedOrigins)))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      !cfg.Context.Production,
	})
	r.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	r.GET("/health", HealthCheck(svc.Ping))

	api := r.Group(cfg.Context.Path)
	assessmentCtrl := NewAssessmentController(svc.Assessments)
	assessorCtrl := NewAssessorController(svc.Assessors)
	partnerCtrl := NewPartnerController(svc.Partners)
	mirrorCtrl := NewMirrorController(svc.Delusional, svc.Compatibility)
	profileCtrl := NewProfileController(svc.Profiles)

	// Public routes. Raters open their link without an account, so the
	// external routes are rate limited per client IP.
	api.GET("/questions/:type", assessmentCtrl.GetQuestions)
	limiter := utilities.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	external := api.Group("/external", limiter.Middleware())
	{
		external.GET("/:code", assessorCtrl.GetInvitation)
		external.POST("/:code", assessorCtrl.SubmitExternal)
	}
	api.GET("/partners/invitations/:code", limiter.Middleware(), partnerCtrl.GetInvitation)

	authorized := api.Group("")
	if cfg.Authentication.EnableTokenAuth {
		validator := utilities.NewTokenValidator(cfg.Authentication.JWTSecret, cfg.Authentication.Issuer)
		authorized.Use(utilities.AuthMiddleware(validator))
	} else {
		log.Warn("token auth disabled, trusting the X-User-ID header")
		authorized.Use(utilities.HeaderUserMiddleware())
	}
	registerUserRoutes(authorized, profileCtrl, assessmentCtrl, assessorCtrl, mirrorCtrl)
	registerPartnerRoutes(authorized, partnerCtrl, mirrorCtrl)

	return r
}

func registerUserRoutes(r *gin.RouterGroup,
	profileCtrl *ProfileController,
	assessmentCtrl *AssessmentController,
	assessorCtrl *AssessorController,
	mirrorCtrl *MirrorController,
) {
	r.GET("/profile", profileCtrl.GetProfile)
	r.PUT("/profile", profileCtrl.SaveProfile)

	assessRoutes := r.Group("/assessments")
	{
		assessRoutes.GET("", assessmentCtrl.GetAssessments)
		assessRoutes.POST("", assessmentCtrl.SubmitAssessment)
		assessRoutes.GET("/type", assessmentCtrl.GetType)
		assessRoutes.GET("/latest", assessmentCtrl.GetLatest)
		assessRoutes.GET("/progress", assessmentCtrl.GetProgress)
		assessRoutes.POST("/bridal-price", assessmentCtrl.GetBridalPrice)
		assessRoutes.GET("/:id", assessmentCtrl.GetAssessment)
		assessRoutes.GET("/:id/suggestions", assessmentCtrl.GetSuggestions)
		assessRoutes.GET("/:id/report", assessmentCtrl.DownloadReport)
	}

	assessorRoutes := r.Group("/assessors")
	{
		assessorRoutes.GET("", assessorCtrl.GetAssessors)
		assessorRoutes.POST("", assessorCtrl.InviteAssessor)
		assessorRoutes.GET("/results", assessorCtrl.GetResults)
		assessorRoutes.GET("/summary", assessorCtrl.GetSummary)
		assessorRoutes.POST("/:id/resend", assessorCtrl.ResendInvitation)
		assessorRoutes.DELETE("/:id", assessorCtrl.RemoveAssessor)
	}

	r.GET("/delusional", mirrorCtrl.GetDelusionalScore)
}

func registerPartnerRoutes(r *gin.RouterGroup, partnerCtrl *PartnerController, mirrorCtrl *MirrorController) {
	partnerRoutes := r.Group("/partners/invitations")
	{
		partnerRoutes.GET("", partnerCtrl.GetInvitations)
		partnerRoutes.POST("", partnerCtrl.InvitePartner)
		partnerRoutes.POST("/:code/accept", partnerCtrl.AcceptInvitation)
		partnerRoutes.POST("/:code/decline", partnerCtrl.DeclineInvitation)
	}

	relationshipRoutes := r.Group("/relationships")
	{
		relationshipRoutes.GET("", partnerCtrl.GetRelationships)
		relationshipRoutes.GET("/:id/status", partnerCtrl.GetCompletionStatus)
		relationshipRoutes.GET("/:id/compatibility", mirrorCtrl.GetCompatibility)
		relationshipRoutes.POST("/:id/compatibility", mirrorCtrl.CalculateCompatibility)
		relationshipRoutes.GET("/:id/compatibility/summary", mirrorCtrl.GetCompatibilitySummary)
	}
}
