package v1

import (
	"log"

	"skillsync/internal/config"
	"skillsync/internal/database"
	"skillsync/internal/delivery/http/handler"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/infrastructure/cache"
	"skillsync/internal/pkg/jwt"
	"skillsync/internal/repository"
	"skillsync/internal/usecase"
	"skillsync/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the shared infrastructure the v1 surface is wired from.
type Deps struct {
	Config   config.Config
	DB       database.DB
	Cache    *cache.Redis
	Notifier *ws.Notifier
	JWT      jwt.Service
	AuthMw   *middleware.AuthMiddleware
	Logger   *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	userRepo := repository.NewPostgresUserRepository(d.DB)
	orgRepo := repository.NewPostgresOrgRepository(d.DB)
	invRepo := repository.NewPostgresInvitationRepository(d.DB)
	invQueries := repository.NewPostgresInvitationQueryRepository(d.DB)
	assessRepo := repository.NewPostgresAssessmentRepository(d.DB, d.Config.Invite.DefaultVisibilityThresholdPct)
	adminRepo := repository.NewPostgresAdminInvitationRepository(d.DB)

	authUC := usecase.NewAuthUsecase(userRepo, d.JWT)
	invitationUC := usecase.NewInvitationUsecase(invRepo, invQueries, d.Cache)
	notificationUC := usecase.NewNotificationUsecase(invQueries, invRepo, d.Cache, d.Config.Invite.RecentLimit)
	candidateUC := usecase.NewCandidateUsecase(invRepo, invQueries, userRepo, d.Cache, d.Notifier)
	assessmentUC := usecase.NewAssessmentUsecase(assessRepo, invRepo, userRepo, d.Cache, d.Notifier, d.Logger)
	adminInviteUC := usecase.NewAdminInviteUsecase(adminRepo, userRepo, orgRepo, d.Config.Invite.AdminInviteTTL)

	authHandler := handler.NewAuthHandler(authUC)
	invitationHandler := handler.NewInvitationHandler(invitationUC, notificationUC)
	candidateHandler := handler.NewCandidateHandler(candidateUC)
	assessmentHandler := handler.NewAssessmentHandler(assessmentUC)
	adminHandler := handler.NewAdminInvitationHandler(adminInviteUC)

	authHandler.RegisterRoutes(r.Group("/auth"))
	adminHandler.RegisterPublicRoutes(r.Group("/admin/invitations"))

	protected := r.Group("", d.AuthMw.Middleware())
	invitationHandler.RegisterRoutes(protected.Group("/invitations"))
	candidateHandler.RegisterRoutes(protected.Group("/employer/candidates"))
	assessmentHandler.RegisterRoutes(protected.Group("/assessments"))
	adminHandler.RegisterRoutes(protected.Group("/admin/invitations"))
}
