package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storerating/internal/config"
	"storerating/internal/handlers"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/services"
	"storerating/pkg/events"
	"storerating/pkg/redisstore"
)

func main() {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	if err := seedAdmin(userRepo, cfg); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// --- Optional RabbitMQ client for rating events ---
	var publisher services.EventPublisher
	var mqClient *events.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, publisher)

	// --- Session store ---
	// The cookie carries only the session id; the snapshot written at login
	// lives server-side. Expiry is absolute: 24h from creation, no refresh.
	sessionConfig := session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:session_id",
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
	}
	if cfg.RedisAddr != "" {
		sessionConfig.Storage = redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	sessions := session.New(sessionConfig)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, sessions)
	storeHandler := handlers.NewStoreHandler(storeService, sessions)
	ratingHandler := handlers.NewRatingHandler(ratingService, sessions)
	userHandler := handlers.NewUserHandler(authService, storeService, sessions)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	storeHandler.RegisterRoutes(api)
	ratingHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start rating event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for rating events...")
			messageHandler := func(msg amqp.Delivery) error {
				// Owner notifications hook; for now the event is only logged.
				log.Printf("Received rating event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeRatingEvents(messageHandler); consumerErr != nil {
				log.Printf("RabbitMQ consumer stopped: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file otherwise. TranslateError lets the repositories
// detect unique-constraint violations uniformly across both drivers.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	}
	log.Println("DATABASE_URL not set, using local SQLite database")
	return gorm.Open(sqlite.Open("storerating.db"), gormConfig)
}

// seedAdmin creates the bootstrap administrator account on first run. Stores
// can only be created by an admin, so one has to exist before the API is
// usable. Idempotent: a second run finds the email and does nothing.
func seedAdmin(repo repositories.UserRepository, cfg *config.Config) error {
	if existing, err := repo.GetByEmail(cfg.AdminEmail); err == nil && existing != nil {
		return nil
	}
	admin := &models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	}
	authService := services.NewAuthService(repo)
	if err := authService.CreateUser(admin); err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
