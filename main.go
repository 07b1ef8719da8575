package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tienda/internal/config"
	"tienda/internal/handlers"
	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"
	"tienda/internal/shopify"
	"tienda/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Commerce backend client ---
	// The whole storefront exists to talk to the backend, so a missing
	// shop URL or access token is fatal.
	shopifyClient, err := shopify.NewClient(cfg.ShopURL, cfg.AccessToken)
	if err != nil {
		log.Fatalf("Failed to initialize commerce backend client: %v", err)
	}

	// --- Submission journal ---
	journal, err := newJournal(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize submission journal: %v", err)
	}

	// --- RabbitMQ Client ---
	// Order events are best-effort: a broker that is down must not take
	// the storefront with it, so a failed connection only logs a warning
	// and the order service runs without a publisher.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close() // Ensure the connection is closed on exit
	}

	// --- Initialize Services ---
	catalogService := services.NewCatalogService(shopifyClient)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(shopifyClient, journal, publisher)
	cartService := services.NewCartService(orderService)
	placesService := services.NewPlacesService(cfg.PlacesAPIKey)
	authService := services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)

	// --- Initialize Handlers ---
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	placesHandler := handlers.NewPlacesHandler(placesService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(journal)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public storefront routes
	catalogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	placesHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	// Admin routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	adminHandler.RegisterRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// Listens for order.created events; for now the consumer just logs
	// deliveries, which keeps the queue drained in local setups.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newJournal selects the submission journal backend from configuration.
// With no driver configured the journal is kept in memory, which is fine
// for a single-event storefront but loses history on restart.
func newJournal(cfg *config.Config) (repositories.SubmissionJournal, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		log.Println("No journal database configured, using in-memory journal")
		return repositories.NewMockSubmissionJournal(), nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.SubmissionRecord{}); err != nil {
		return nil, err
	}
	return repositories.NewGORMSubmissionJournal(db), nil
}
