package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/ingest/espn"
	"github.com/fortuna/augur/internal/ingest/injuries"
	"github.com/fortuna/augur/internal/ingest/nba"
	"github.com/fortuna/augur/internal/notify"
	"github.com/fortuna/augur/internal/odds"
	"github.com/fortuna/augur/internal/pipeline"
	"github.com/fortuna/augur/internal/publisher"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

const (
	appName    = "augur-runner"
	appVersion = "1.0.0"
)

// One-shot driver for the pipeline stages. Useful for cron setups and
// for rerunning a stage by hand without waiting for the scheduler.
func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		stage      = flag.String("stage", "", "Stage to run: data-update, edges, grade, or all")
		prune      = flag.Int("prune", 0, "Prune ledger records older than N days (0 = keep everything)")
		timeout    = flag.Duration("timeout", 20*time.Minute, "Overall run timeout")
		skipNotify = flag.Bool("no-notify", false, "Suppress Telegram notifications for this run")
	)

	flag.Parse()

	if *stage == "" && *prune == 0 {
		log.Fatalf("Specify --stage (data-update, edges, grade, all) or --prune")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	if err := db.SeedData(); err != nil {
		log.Printf("⚠️  Seed data warning: %v (continuing anyway)", err)
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer redisCache.Close()

	var notifier pipeline.Notifier
	if !*skipNotify {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	var injuryScraper pipeline.InjuryScraper
	if cfg.Edges.ExcludeInjured {
		if injuryClient, err := injuries.NewClient(""); err == nil {
			defer injuryClient.Close()
			injuryScraper = injuries.NewScraper(injuryClient)
		} else {
			log.Printf("⚠️  Injury scraper unavailable: %v", err)
		}
	}

	pipe := pipeline.New(pipeline.Deps{
		Config:     cfg,
		DB:         db,
		OddsClient: odds.New(cfg.OddsAPIBase, cfg.OddsAPIKey, cfg.Bookmaker),
		Ingester:   nba.NewIngester(nba.New(cfg.NBAStatsBase), repository.NewGameLogRepository(db), cfg.Season),
		BoxScores:  espn.NewFetcher(espn.New(cfg.ESPNAPIBase)),
		Injuries:   injuryScraper,
		Locks:      redisCache,
		Publisher:  publisher.NewRedisStreamPublisher(redisCache.Client()),
		Notifier:   notifier,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()

	switch *stage {
	case "data-update":
		err = pipe.RunDataUpdate(ctx)
	case "edges":
		err = pipe.RunEdgeSheet(ctx)
	case "grade":
		err = pipe.RunGrading(ctx)
	case "all":
		if err = pipe.RunGrading(ctx); err == nil {
			if err = pipe.RunDataUpdate(ctx); err == nil {
				err = pipe.RunEdgeSheet(ctx)
			}
		}
	case "":
		// prune only
	default:
		log.Fatalf("Unknown stage %q (use data-update, edges, grade, or all)", *stage)
	}

	if err != nil {
		if pipeline.IsLocked(err) {
			log.Fatalf("❌ Another run holds the pipeline lock; try again shortly")
		}
		log.Fatalf("❌ %s failed: %v", *stage, err)
	}

	if *prune > 0 {
		dropped, err := pipe.PruneLedger(ctx, *prune)
		if err != nil {
			log.Fatalf("❌ prune failed: %v", err)
		}
		log.Printf("✓ Pruned %d ledger records older than %d days", dropped, *prune)
	}

	log.Printf("✓ Done in %v", time.Since(start).Round(time.Second))
}
