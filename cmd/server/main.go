/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and the optional YAML config file
  2. Initialize SQLite store
  3. Load persisted state (history, office config, reminder time)
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: attendance.db)
           Use ":memory:" for in-memory database
  -config  Optional YAML config file; flags override its values

CONFIG FILE:
  port: 8080
  db: ./data/attendance.db
  position:           # fixed coordinates for deployments without a
    latitude: 12.97   # live location source; omit to require clients
    longitude: 77.59  # to send coordinates on every request

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/attendance.db"

  # Run with a config file
  ./server -config=./attendance.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wfo/attendance-engine/api"
	"github.com/wfo/attendance-engine/attendance"
	"github.com/wfo/attendance-engine/geo"
	"github.com/wfo/attendance-engine/notify"
	"github.com/wfo/attendance-engine/position"
	"github.com/wfo/attendance-engine/reminder"
	"github.com/wfo/attendance-engine/session"
	"github.com/wfo/attendance-engine/store/sqlite"
)

// fileConfig mirrors the YAML config file. Zero values mean "not set";
// flags fill in whatever the file leaves out.
type fileConfig struct {
	Port     int    `yaml:"port"`
	DB       string `yaml:"db"`
	Position *struct {
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
	} `yaml:"position"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite database path")
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	// Config file fills in anything the flags left at defaults.
	var cfg fileConfig
	if *configPath != "" {
		var err error
		cfg, err = loadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if cfg.Port == 0 {
		cfg.Port = *port
	}
	if cfg.DB == "" {
		cfg.DB = *dbPath
	}

	// Initialize store
	kv, err := sqlite.New(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer kv.Close()

	// Domain services, recovering persisted state before serving.
	ctx := context.Background()

	ledger := attendance.NewLedger(kv)
	if err := ledger.Load(ctx); err != nil {
		log.Fatalf("Failed to load attendance history: %v", err)
	}

	sess := session.NewManager(kv)
	if err := sess.Load(ctx); err != nil {
		log.Fatalf("Failed to load session config: %v", err)
	}

	rem := reminder.NewService(kv, notify.NewLogScheduler())
	if err := rem.Load(ctx); err != nil {
		log.Fatalf("Failed to load reminder config: %v", err)
	}

	// Position provider: fixed coordinates from the config file, or nil
	// so clients must send coordinates with each request.
	var positions position.Provider
	if cfg.Position != nil {
		p, err := geo.New(cfg.Position.Latitude, cfg.Position.Longitude)
		if err != nil {
			log.Fatalf("Invalid position in config: %v", err)
		}
		positions = position.Static{Point: p}
	}

	handler := api.NewHandler(ledger, sess, rem, positions)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", cfg.Port)
		log.Printf("📊 API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
