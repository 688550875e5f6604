package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/maja/schedly-api/internal/authz"
	"github.com/maja/schedly-api/internal/config"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/handlers"
	authmw "github.com/maja/schedly-api/internal/middleware"
	"github.com/maja/schedly-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	workspaceService := services.NewWorkspaceService(db)
	memberService := services.NewMemberService(db)
	invitationService := services.NewInvitationService(db)
	agencyService := services.NewAgencyService(db)
	postService := services.NewPostService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	membership := authz.NewMembershipResolver(db)
	agencyResolver := authz.NewAgencyResolver(db)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService, agencyService)
	userHandler := handlers.NewUserHandler(userService, workspaceService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, userService, membership)
	memberHandler := handlers.NewMemberHandler(memberService, membership)
	invitationHandler := handlers.NewInvitationHandler(cfg, invitationService, memberService,
		workspaceService, userService, emailService, membership)
	agencyHandler := handlers.NewAgencyHandler(agencyService, memberService, invitationService, agencyResolver)
	postHandler := handlers.NewPostHandler(postService, workspaceService, userService, membership)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Get("/users/me/entitlements", userHandler.GetEntitlements)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Patch("/workspaces/:workspaceId", workspaceHandler.Update)
	protected.Delete("/workspaces/:workspaceId", workspaceHandler.Delete)

	protected.Get("/workspaces/:workspaceId/members", memberHandler.List)
	protected.Patch("/workspaces/:workspaceId/members/:userId", memberHandler.Update)
	protected.Delete("/workspaces/:workspaceId/members/:userId", memberHandler.Remove)

	protected.Get("/workspaces/:workspaceId/invitations", invitationHandler.List)
	protected.Post("/workspaces/:workspaceId/invitations", invitationHandler.Create)
	protected.Delete("/workspaces/:workspaceId/invitations/:invitationId", invitationHandler.Cancel)
	protected.Post("/workspaces/:workspaceId/invitations/:invitationId/resend", invitationHandler.Resend)

	protected.Get("/invitations/:invitationId", invitationHandler.Get)
	protected.Post("/invitations/:invitationId/accept", invitationHandler.Accept)
	protected.Post("/invitations/:invitationId/decline", invitationHandler.Decline)

	protected.Get("/workspaces/:workspaceId/posts", postHandler.List)
	protected.Post("/workspaces/:workspaceId/posts", postHandler.Create)
	protected.Patch("/workspaces/:workspaceId/posts/:postId", postHandler.Update)
	protected.Delete("/workspaces/:workspaceId/posts/:postId", postHandler.Delete)
	protected.Post("/workspaces/:workspaceId/posts/:postId/submit", postHandler.SubmitForApproval)
	protected.Post("/workspaces/:workspaceId/posts/:postId/approve", postHandler.Approve)
	protected.Post("/workspaces/:workspaceId/posts/:postId/schedule", postHandler.Schedule)

	protected.Get("/agency/access", agencyHandler.GetAccess)
	protected.Get("/agency/roster", agencyHandler.ListRoster)
	protected.Post("/agency/roster", agencyHandler.AddRosterEntry)
	protected.Patch("/agency/roster/:entryId", agencyHandler.UpdateRosterEntry)
	protected.Delete("/agency/roster/:entryId", agencyHandler.RemoveRosterEntry)
	protected.Post("/agency/roster/:entryId/provision", agencyHandler.Provision)
	protected.Get("/agency/delegations", agencyHandler.ListDelegations)
	protected.Post("/agency/delegations", agencyHandler.SetDelegation)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
