package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/augur/internal/api/rest"
	"github.com/fortuna/augur/internal/api/websocket"
	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/ingest/espn"
	"github.com/fortuna/augur/internal/ingest/injuries"
	"github.com/fortuna/augur/internal/ingest/nba"
	"github.com/fortuna/augur/internal/notify"
	"github.com/fortuna/augur/internal/odds"
	"github.com/fortuna/augur/internal/pipeline"
	"github.com/fortuna/augur/internal/publisher"
	"github.com/fortuna/augur/internal/scheduler"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

const (
	serviceName    = "augur"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Player Prop Analytics Service", serviceName, serviceVersion)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("✓ Connected to database")

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Seed initial data (non-fatal - may already exist)
	if err := db.SeedData(); err != nil {
		log.Printf("⚠️  Seed data warning: %v (continuing anyway)", err)
	} else {
		log.Println("✓ Seed data applied")
	}

	// Initialize Redis with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Println("✓ Connected to Redis")

	streamPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	// Injury scraping is optional: without a local Chrome install the
	// sheet just skips injury exclusions.
	var injuryScraper pipeline.InjuryScraper
	if cfg.Edges.ExcludeInjured {
		injuryClient, err := injuries.NewClient("")
		if err != nil {
			log.Printf("⚠️  Injury scraper unavailable: %v (continuing without exclusions)", err)
		} else {
			defer injuryClient.Close()
			injuryScraper = injuries.NewScraper(injuryClient)
			log.Println("✓ Injury scraper initialized")
		}
	}

	notifier := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if notifier.Enabled() {
		log.Println("✓ Telegram notifications enabled")
	} else {
		log.Println("⊘ Telegram notifications disabled (no token/chat configured)")
	}

	// WebSocket server (started below, wired into the pipeline for
	// sheet fanout)
	wsServer := websocket.NewServer()

	pipe := pipeline.New(pipeline.Deps{
		Config:     cfg,
		DB:         db,
		OddsClient: odds.New(cfg.OddsAPIBase, cfg.OddsAPIKey, cfg.Bookmaker),
		Ingester:   nba.NewIngester(nba.New(cfg.NBAStatsBase), repository.NewGameLogRepository(db), cfg.Season),
		BoxScores:  espn.NewFetcher(espn.New(cfg.ESPNAPIBase)),
		Injuries:   injuryScraper,
		Locks:      redisCache,
		Publisher:  streamPublisher,
		Broadcast:  wsServer,
		Notifier:   notifier,
	})

	schedulerConfig := &scheduler.Config{
		DataUpdateHour: cfg.DataUpdateHour,
		EdgeRunHour:    cfg.EdgeRunHour,
		GradingHour:    cfg.GradingHour,
		MaxRetries:     3,
		RetryDelay:     30 * time.Second,
	}
	sched := scheduler.NewOrchestrator(pipe, schedulerConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)
	log.Println("✓ Scheduler started")

	restServer := rest.NewServer(cfg.RESTPort, db, sched, redisCache)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting WebSocket server on port %s", cfg.WSPort)
		if err := wsServer.Start(cfg.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ Augur v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", cfg.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down Augur gracefully...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("Augur stopped")
}
