package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"frontdesk/internal/config"
	"frontdesk/internal/database"
	"frontdesk/internal/handlers"
	"frontdesk/internal/jobs"
	"frontdesk/internal/logging"
	"frontdesk/internal/services"
	"frontdesk/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Frontdesk Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s, Room: %s)", cfg.Port, cfg.DatabasePath, cfg.Room)

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize Redis (supervisor room pub/sub)
	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	// Room capability tokens
	if cfg.RoomTokenSecret == "" {
		log.Fatal("❌ ROOM_TOKEN_SECRET environment variable is required. Generate with: openssl rand -hex 32")
	}
	tokenIssuer, err := auth.NewRoomTokenIssuer(cfg.RoomTokenSecret, cfg.DashboardTokenTTL, cfg.PublisherTokenTTL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize token issuer: %v", err)
	}

	// Core services
	store := services.NewEscalationStore(db)
	matcher := services.NewKnowledgeBaseMatcher(store)
	notifier := services.NewNotificationService(redisService, cfg.Room)
	escalation := services.NewEscalationService(store, matcher, notifier, cfg.RequestTimeout)

	connManager := services.NewConnectionManager()
	services.InitMetrics(connManager)

	// Bridge room events onto connected dashboards
	bridge := services.NewEventBridge(redisService, connManager, cfg.Room)
	if err := bridge.Start(); err != nil {
		log.Fatalf("❌ Failed to start event bridge: %v", err)
	}
	defer bridge.Stop()

	// Timeout reaper
	scheduler, err := jobs.NewScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create scheduler: %v", err)
	}
	reaper := jobs.NewTimeoutReaper(store, notifier, cfg.ReaperInterval)
	if err := scheduler.Register(reaper); err != nil {
		log.Fatalf("❌ Failed to register timeout reaper: %v", err)
	}
	scheduler.Start()

	// Handlers
	callsHandler := handlers.NewCallsHandler(escalation)
	supervisorHandler := handlers.NewSupervisorHandler(escalation)
	kbHandler := handlers.NewKnowledgeBaseHandler(escalation)
	tokenHandler := handlers.NewTokenHandler(tokenIssuer)
	healthHandler := handlers.NewHealthHandler(connManager)
	socketHandler := handlers.NewDashboardSocketHandler(connManager, tokenIssuer)

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Frontdesk",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("frontdesk")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Use(cors.New())

	app.Post("/api/calls/inbound", callsHandler.Inbound)
	app.Get("/api/supervisor/requests", supervisorHandler.ListRequests)
	app.Post("/api/supervisor/requests/:id/answer", supervisorHandler.Answer)
	app.Get("/api/kb", kbHandler.List)
	app.Get("/api/kb/match", kbHandler.Match)
	app.Get("/api/token", tokenHandler.Handle)
	app.Get("/api/health", healthHandler.Handle)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/dashboard", websocket.New(socketHandler.Handle))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down...")

		if err := scheduler.Stop(); err != nil {
			log.Printf("⚠️ Error stopping scheduler: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("🌐 Server running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
