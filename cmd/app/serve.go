package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lovemirror-backend/cmd/app/internal/controller"
	"lovemirror-backend/internal/db"
	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
	"lovemirror-backend/internal/service"
	"lovemirror-backend/utilities"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	printStartUpBanner()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := utilities.InitLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Context.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg, log)
	if err != nil {
		return err
	}
	if cfg.DB.Initialize {
		if err := db.Migrate(cmd.Context(), conn, log); err != nil {
			return err
		}
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	bus := utilities.NewEventBus(log)
	services := buildServices(conn, scorer, bus, log)
	logInvitations(bus, log)

	srv := &http.Server{
		Addr:              cfg.Context.Addr(),
		Handler:           controller.NewRouter(cfg, log, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	bus.Wait()
	return nil
}

func buildServices(conn *gorm.DB, scorer *scoring.Scorer, bus *utilities.EventBus, log *zap.Logger) controller.Services {
	profileRepo := repository.NewProfileRepository(conn)
	assessmentRepo := repository.NewAssessmentRepository(conn)
	assessorRepo := repository.NewAssessorRepository(conn)
	resultRepo := repository.NewExternalResultRepository(conn)
	relationshipRepo := repository.NewRelationshipRepository(conn)
	compatibilityRepo := repository.NewCompatibilityRepository(conn)

	assessmentService := service.NewAssessmentService(scorer, assessmentRepo, profileRepo, bus, log)
	delusionalService := service.NewDelusionalService(scorer, assessmentRepo, resultRepo, log)
	delusionalService.Listen(bus)

	return controller.Services{
		Profiles:      service.NewProfileService(profileRepo),
		Assessments:   assessmentService,
		Assessors:     service.NewAssessorService(scorer, assessmentService, assessorRepo, resultRepo, profileRepo, bus, log),
		Delusional:    delusionalService,
		Partners:      service.NewPartnerService(relationshipRepo, assessmentRepo, profileRepo, bus, log),
		Compatibility: service.NewCompatibilityService(scorer, relationshipRepo, assessmentRepo, compatibilityRepo, log),
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, conn)
		},
	}
}

// logInvitations records issued invitation codes.
func logInvitations(bus *utilities.EventBus, log *zap.Logger) {
	bus.Subscribe(service.EventAssessorInvited, func(data interface{}) {
		if ev, ok := data.(service.AssessorInvitedEvent); ok {
			log.Info("rater invitation issued",
				zap.String("assessor_id", ev.AssessorID),
				zap.String("user_id", ev.UserID),
			)
		}
	})
	bus.Subscribe(service.EventPartnerInvited, func(data interface{}) {
		if ev, ok := data.(service.PartnerInvitedEvent); ok {
			log.Info("partner invitation issued",
				zap.String("invitation_id", ev.InvitationID),
				zap.String("sender_id", ev.SenderID),
			)
		}
	})
}
