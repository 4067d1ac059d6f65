package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/fleetsmart/fleetsmart/internal/analyzer"
	"github.com/fleetsmart/fleetsmart/internal/config"
	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/handlers"
	"github.com/fleetsmart/fleetsmart/internal/middleware"
	"github.com/fleetsmart/fleetsmart/internal/notify"
	"github.com/fleetsmart/fleetsmart/internal/report"
	"github.com/fleetsmart/fleetsmart/internal/store"
	"github.com/fleetsmart/fleetsmart/internal/thresholds"
	"github.com/joho/godotenv"
)

func main() {
	reportMode := flag.Bool("report", false, "print the text dashboards and exit instead of serving HTTP")
	flag.Parse()

	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FleetSmart Analytics...")

	// Load the fleet tables. SQLite takes precedence over the CSV directory.
	var s *store.Store
	if cfg.SQLitePath != "" {
		s, err = store.LoadSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to load SQLite database %s: %v", cfg.SQLitePath, err)
		}
		log.Printf("Loaded fleet data from SQLite: %s", cfg.SQLitePath)
	} else {
		s, err = store.LoadCSVDir(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to load CSV data from %s: %v", cfg.DataDir, err)
		}
		log.Printf("Loaded fleet data from CSV directory: %s", cfg.DataDir)
	}
	if s.IsEmpty() {
		log.Fatalf("No fleet data found; set FLEET_DATA_DIR or FLEET_SQLITE_PATH")
	}

	// Build the shared denormalized view
	view := fleetview.New(s)

	// Thresholds: defaults plus optional YAML overrides
	registry := thresholds.NewRegistry()
	overrides, err := config.LoadThresholdOverrides(cfg.ThresholdsFile)
	if err != nil {
		log.Fatalf("Failed to load threshold overrides: %v", err)
	}
	if len(overrides) > 0 {
		registry.Apply(overrides)
		log.Printf("Applied %d threshold overrides from %s", len(overrides), cfg.ThresholdsFile)
	}

	// Initialize analyzers
	financial := analyzer.NewFinancial(view, registry)
	operational := analyzer.NewOperational(view, registry)
	drivers := analyzer.NewDriverPerformance(view, registry)
	fleetCost := analyzer.NewFleetCost(view, registry)
	log.Printf("Analyzers initialized: financial, operational, drivers, fleet")

	// Initialize alert engine
	engine := alerts.NewEngine(registry, financial, operational, drivers, fleetCost)

	// Post the alert summary to Slack when a bot token is configured
	if notifier := notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannel); notifier != nil {
		summary := engine.GetSummary()
		if err := notifier.PostSummary(summary, engine.GetFormattedAlerts()); err != nil {
			log.Printf("Warning: Failed to post alert summary to Slack: %v", err)
		} else {
			log.Printf("Alert summary posted to Slack channel %s", cfg.SlackChannel)
		}
	}

	if *reportMode {
		report.New(os.Stdout, financial, operational, drivers, fleetCost, engine).Run()
		return
	}

	// Initialize dashboard handler
	dashboard := handlers.NewDashboard(financial, operational, drivers, fleetCost, engine)

	// Set up HTTP server routes
	mux := http.NewServeMux()
	dashboard.SetupRoutes(mux)

	// Wrap routes with request IDs, CORS, and access logging
	corsMiddleware := middleware.NewCORSMiddleware() // Allow all origins
	handler := middleware.RequestID(corsMiddleware.Wrap(middleware.Logging(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal, cleaning up...")

		log.Println("Shutting down HTTP server...")
		if err := httpServer.Close(); err != nil {
			log.Printf("Error shutting down HTTP server: %v", err)
		}

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Println("Dashboard is running! Press Ctrl+C to exit.")
	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	// Keep the main goroutine alive
	for {
		time.Sleep(time.Hour)
	}
}
