package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/augur/internal/pipeline"
)

// Orchestrator drives the three daily pipeline runs on local-time
// schedules: data update in the afternoon, edge sheet before tip-off,
// grading overnight once box scores are final.
type Orchestrator struct {
	pipe   *pipeline.Pipeline
	config *Config
	cancel context.CancelFunc
}

// Config holds scheduler configuration
type Config struct {
	DataUpdateHour int // Default: 15 (3 PM)
	EdgeRunHour    int // Default: 17 (5 PM)
	GradingHour    int // Default: 3  (3 AM, grades yesterday's sheet)
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		DataUpdateHour: 15,
		EdgeRunHour:    17,
		GradingHour:    3,
		MaxRetries:     3,
		RetryDelay:     30 * time.Second,
	}
}

// NewOrchestrator creates a scheduler over the pipeline
func NewOrchestrator(pipe *pipeline.Pipeline, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Orchestrator{pipe: pipe, config: config}
}

// Start begins all scheduled tasks and blocks until the context ends
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║     Augur Scheduler Orchestrator       ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Data update: %02d:00 | Edge run: %02d:00 | Grading: %02d:00",
		o.config.DataUpdateHour, o.config.EdgeRunHour, o.config.GradingHour)
	log.Println()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	go o.runDaily(ctx, "data update", o.config.DataUpdateHour, o.pipe.RunDataUpdate)
	go o.runDaily(ctx, "edge run", o.config.EdgeRunHour, o.pipe.RunEdgeSheet)
	go o.runDaily(ctx, "grading", o.config.GradingHour, o.pipe.RunGrading)

	<-ctx.Done()
	log.Println("Scheduler orchestrator stopping...")
}

// runDaily fires a task at the given local hour every day
func (o *Orchestrator) runDaily(ctx context.Context, name string, hour int, task func(context.Context) error) {
	log.Printf("→ %s scheduled daily at %02d:00", name, hour)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		waitDuration := time.Until(nextRun)
		log.Printf("  Next %s: %s (in %v)", name, nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Printf("→ %s scheduler stopped", name)
			return
		case <-time.After(waitDuration):
			log.Printf("═══ %s starting ═══", name)
			o.runWithRetry(ctx, name, task)
			log.Printf("═══ %s finished ═══", name)
		}
	}
}

// runWithRetry runs a task, retrying transient failures. A held run
// lock is not retried; the other run will have done the work or its
// lock will expire before tomorrow.
func (o *Orchestrator) runWithRetry(ctx context.Context, name string, task func(context.Context) error) {
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		err := task(ctx)
		if err == nil {
			return
		}
		if pipeline.IsLocked(err) {
			log.Printf("  ⊘ %s skipped: another run holds the lock", name)
			return
		}

		log.Printf("  ⚠️  %s attempt %d/%d failed: %v", name, attempt, o.config.MaxRetries, err)
		if attempt < o.config.MaxRetries {
			log.Printf("  Retrying in %v...", o.config.RetryDelay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}

	log.Printf("  ❌ %s failed after %d attempts", name, o.config.MaxRetries)
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")
	if o.cancel != nil {
		o.cancel()
	}
	log.Println("✓ Scheduler orchestrator stopped")
}

// TriggerDataUpdate manually runs the data update stage
func (o *Orchestrator) TriggerDataUpdate(ctx context.Context) error {
	log.Println("Manual data update triggered")
	return o.pipe.RunDataUpdate(ctx)
}

// TriggerEdgeRun manually runs the edge sheet stage
func (o *Orchestrator) TriggerEdgeRun(ctx context.Context) error {
	log.Println("Manual edge run triggered")
	return o.pipe.RunEdgeSheet(ctx)
}

// TriggerGrading manually runs the grading stage
func (o *Orchestrator) TriggerGrading(ctx context.Context) error {
	log.Println("Manual grading triggered")
	return o.pipe.RunGrading(ctx)
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"data_update_hour": o.config.DataUpdateHour,
		"edge_run_hour":    o.config.EdgeRunHour,
		"grading_hour":     o.config.GradingHour,
		"max_retries":      o.config.MaxRetries,
	}
}
