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

	"aqua_project/internal/api"
	"aqua_project/internal/config"
	"aqua_project/internal/constants"
	"aqua_project/internal/dispatch"
	"aqua_project/internal/monitor"
	"aqua_project/internal/repository"
	"aqua_project/internal/telemetry"
	"aqua_project/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	logger.OpenLog()
	logger.WriteLog(constants.LOG_LEVEL_INFO, "", "STARTUP", "Starting Water Quality Monitoring System...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Document store: audit log, users, devices
	mongoDB, err := config.InitMongo(cfg)
	if err != nil {
		log.Fatal("Failed to initialize MongoDB:", err)
	}
	defer mongoDB.Close()

	// Live telemetry store
	influxDB, err := config.InitInflux(cfg)
	if err != nil {
		log.Fatal("Failed to initialize InfluxDB:", err)
	}
	defer influxDB.Close()

	// Repositories
	mongoRepo := repository.NewMongoRepo(mongoDB)
	telemetryRepo := repository.NewInfluxTelemetryRepo(influxDB)
	source := telemetry.NewStoreSource(telemetryRepo, cfg.SourceCheckInterval)

	// Notification feed and dispatcher
	feed := dispatch.NewFeed(cfg.FeedCap)
	dispatcher := dispatch.NewDispatcher(feed, mongoRepo, dispatch.NewGatewaySet(cfg))

	// Monitoring orchestrator
	svc := monitor.NewService(monitor.Options{
		Source:               source,
		Telemetry:            telemetryRepo,
		Audit:                mongoRepo,
		Devices:              mongoRepo,
		Dispatcher:           dispatcher,
		OfflineThreshold:     cfg.OfflineThreshold,
		PollFallbackInterval: cfg.PollFallbackInterval,
	})

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.Logger())
	r.Use(api.CORS())

	api.SetupRoutes(r, svc, feed, telemetryRepo, cfg.OfflineThreshold)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.WriteLog(constants.LOG_LEVEL_INFO, "", "STARTUP",
			fmt.Sprintf("Server starting on port %d", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	printStartupInfo(cfg)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\n🛑 Shutdown signal received. Gracefully shutting down...")
	logger.WriteLog(constants.LOG_LEVEL_INFO, "", "SHUTDOWN", "Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop every session, then let in-flight dispatches finish
	svc.StopAll()
	dispatcher.Wait()

	fmt.Println("✓ Server exited gracefully")
	logger.WriteLog(constants.LOG_LEVEL_INFO, "", "SHUTDOWN", "Server exited gracefully")
}

func printStartupInfo(cfg *config.Config) {
	fmt.Println("\n💧 Water Quality Monitoring System")
	fmt.Println("===================================")
	fmt.Printf("Server: http://localhost:%d\n", cfg.ServerPort)
	fmt.Println("\n📡 Monitoring APIs:")
	fmt.Println("   POST /api/monitoring/start          - Start monitoring a device")
	fmt.Println("   POST /api/monitoring/stop           - Stop monitoring a device")
	fmt.Println("   POST /api/monitoring/start-all      - Monitor every registered device")
	fmt.Println("   POST /api/monitoring/stop-all       - Stop all monitoring")
	fmt.Println("   POST /api/monitoring/check/:id      - Force one evaluation cycle")
	fmt.Println("   GET  /api/monitoring/sessions       - Active sessions")
	fmt.Println("\n🔔 Notification APIs:")
	fmt.Println("   GET  /api/notifications             - In-app feed")
	fmt.Println("   GET  /api/notifications/ws          - Live feed (websocket)")
	fmt.Println("   POST /api/notifications/read-all    - Mark all read")
	fmt.Print("\n💡 Press Ctrl+C to shutdown gracefully\n")
}
