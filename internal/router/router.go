package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/memoria-app/backend/internal/access"
	"github.com/memoria-app/backend/internal/handlers"
	"github.com/memoria-app/backend/internal/identity"
	"github.com/memoria-app/backend/internal/middleware"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/notifications"
	"github.com/memoria-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil when no Firebase project is configured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Memorial{},
		&models.Membership{},
		&models.Reaction{},
		&models.SavedMemorial{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	memorialRepo := repositories.NewPostgresMemorialRepository(pgdb)
	membershipRepo := repositories.NewPostgresMembershipRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	savedRepo := repositories.NewPostgresSavedMemorialRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	condolenceRepo := repositories.NewMongoCondolenceRepository(mgClient.Database("memoria"))

	// --- Core components ---
	resolver := access.NewResolver(memorialRepo, membershipRepo)
	aggregator := notifications.NewAggregator(notificationRepo)
	var external identity.ExternalIdentity
	if firebaseAuthClient != nil {
		external = identity.NewFirebaseIdentity(firebaseAuthClient)
	}
	identityResolver := identity.NewResolver(external)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Read routes (anonymous allowed, identity picked up when present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Memorial routes
	memorialHandler := handlers.NewMemorialHandler(memorialRepo, condolenceRepo, resolver)
	memorialHandler.RegisterMemorialRoutes(api)
	memorialHandler.RegisterPublicMemorialRoutes(public)
	log.Println("Memorial routes configured.")

	// Membership routes
	membershipHandler := handlers.NewMembershipHandler(membershipRepo, memorialRepo)
	membershipHandler.RegisterMembershipRoutes(api)
	log.Println("Membership routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionRepo, memorialRepo, userRepo, resolver, aggregator, identityResolver)
	reactionHandler.RegisterReactionRoutes(api)
	reactionHandler.RegisterPublicReactionRoutes(public)
	log.Println("Reaction routes configured.")

	// Condolence-book routes
	condolenceHandler := handlers.NewCondolenceHandler(condolenceRepo, memorialRepo, userRepo, resolver, aggregator, identityResolver)
	condolenceHandler.RegisterCondolenceRoutes(api)
	condolenceHandler.RegisterPublicCondolenceRoutes(public)
	log.Println("Condolence routes configured.")

	// Saved memorial routes
	savedHandler := handlers.NewSavedMemorialHandler(savedRepo, resolver)
	savedHandler.RegisterSavedMemorialRoutes(api)
	log.Println("Saved memorial routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
