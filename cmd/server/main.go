package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jerseyhub/backend/internal/config"
	"github.com/jerseyhub/backend/internal/handler"
	appMiddleware "github.com/jerseyhub/backend/internal/middleware"
	"github.com/jerseyhub/backend/internal/repository"
	"github.com/jerseyhub/backend/internal/service"
	"github.com/jerseyhub/backend/pkg/mail"
	"github.com/jerseyhub/backend/pkg/payment"
	"github.com/jerseyhub/backend/pkg/storage"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database error: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatalf("❌ Migration error: %v", err)
	}
	log.Println("✅ Database connected & migrated")

	// Image asset store
	var images storage.ImageStore = storage.Disabled{}
	if cfg.CloudinaryURL != "" {
		images, err = storage.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("❌ Cloudinary error: %v", err)
		}
		log.Println("✅ Cloudinary connected")
	} else {
		log.Println("⚠️  CLOUDINARY_URL not set, image uploads disabled")
	}

	// Payment gateway
	var gateway payment.Gateway = payment.NewMockGateway()
	if cfg.StripeAPIKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeAPIKey, cfg.StripeWebhookSecret)
		log.Println("✅ Stripe configured")
	} else {
		log.Println("⚠️  STRIPE_SECRET_KEY not set, using mock payment gateway")
	}

	// Credentials mailer
	mailer, err := mail.NewSMTPMailer(mail.SMTPSettings{
		Enabled:  cfg.SMTPEnabled,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Fatalf("❌ Mailer error: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	jerseyRepo := repository.NewJerseyRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, userRepo)
	catalogSvc := service.NewCatalogService(jerseyRepo, teamRepo, images)
	linkSvc := service.NewLinkService(linkRepo, jerseyRepo, userRepo, cfg.PublicBaseURL)
	subSvc := service.NewSubscriptionService(userRepo, gateway, mailer, cfg.SiteURL)

	// Seed admin user on first startup
	if err := authSvc.SeedAdmin(ctx); err != nil {
		log.Fatalf("❌ Admin seed error: %v", err)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	linkHandler := handler.NewLinkHandler(linkSvc)
	healthHandler := handler.NewHealthHandler(db)
	userHandler := handler.NewUserHandler(authSvc)
	plansHandler := handler.NewPlansHandler()
	paymentHandler := handler.NewPaymentHandler(subSvc, authSvc, gateway)
	adminHandler := handler.NewAdminHandler(db, catalogSvc)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Health check and public routes (no auth)
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)
	r.Get("/api/link/{code:[a-zA-Z0-9]+}", linkHandler.Resolve)
	r.Post("/api/payment/webhook", paymentHandler.Webhook)

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/auth/login", authHandler.Login)
		r.Post("/api/auth/register", authHandler.Register)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		// Auth / profile
		r.Get("/api/auth/me", authHandler.Me)
		r.Patch("/api/profile", authHandler.UpdateProfile)

		// Payment
		r.Post("/api/payment/checkout", paymentHandler.CreateCheckout)
		r.Get("/api/payment/subscription", paymentHandler.GetSubscription)

		// Catalog browsing and link generation (subscription gated)
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireActiveSubscription(authSvc))
			r.Get("/api/catalog", catalogHandler.Browse)
			r.Post("/api/links", linkHandler.Create)
			r.Get("/api/links", linkHandler.List)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Get("/api/admin/users", userHandler.List)
			r.Post("/api/admin/users", userHandler.Create)
			r.Delete("/api/admin/users/{id}", userHandler.Delete)
			r.Post("/api/admin/users/{id}/subscription", paymentHandler.SetSubscription)
			r.Post("/api/admin/jerseys", adminHandler.CreateJersey)
			r.Put("/api/admin/jerseys/{id}", adminHandler.UpdateJersey)
			r.Delete("/api/admin/jerseys/{id}", adminHandler.DeleteJersey)
			r.Get("/api/admin/teams", adminHandler.ListTeams)
			r.Post("/api/admin/teams", adminHandler.CreateTeam)
		})
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("🛑 Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("🚀 JerseyHub Backend listening at http://%s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("❌ Server error: %v", err)
	}
}
