package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/config"
	"github.com/fortuna/augur/internal/edge"
	"github.com/fortuna/augur/internal/grading"
	"github.com/fortuna/augur/internal/ingest/espn"
	"github.com/fortuna/augur/internal/ingest/nba"
	"github.com/fortuna/augur/internal/notify"
	"github.com/fortuna/augur/internal/odds"
	"github.com/fortuna/augur/internal/projection"
	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// Run lock names. All three runs share one lock so a slow data update
// cannot overlap the edge run that reads its output.
const (
	lockName = "pipeline"
	lockTTL  = 30 * time.Minute
)

// Notifier delivers run reports. The zero-configured Telegram notifier
// satisfies this and silently drops everything.
type Notifier interface {
	Enabled() bool
	SendText(ctx context.Context, text string) error
	SendDocument(ctx context.Context, filename string, content []byte, caption string) error
}

// EventPublisher fans run output out to stream consumers.
type EventPublisher interface {
	PublishEdgeSheet(ctx context.Context, runDate time.Time, sheet []*store.Edge) error
	PublishGradedResults(ctx context.Context, gradedDate time.Time, records []*store.ResultRecord) error
}

// Broadcaster pushes the sheet to connected websocket clients.
type Broadcaster interface {
	BroadcastEdgeSheet(runDate time.Time, sheet []*store.Edge)
}

// InjuryScraper reports players ruled out for the slate.
type InjuryScraper interface {
	FetchOutPlayers(ctx context.Context) (map[string]bool, error)
}

// Pipeline wires the three daily runs together: the afternoon data
// update, the evening edge sheet, and the overnight grading pass.
type Pipeline struct {
	cfg *config.Config

	teams       *repository.TeamRepository
	gameLogs    *repository.GameLogRepository
	projections *repository.ProjectionRepository
	edges       *repository.EdgeRepository
	results     *repository.ResultRepository

	ingester   *nba.Ingester
	oddsClient *odds.Client
	boxScores  *espn.Fetcher
	injuries   InjuryScraper

	builder  *projection.Builder
	detector *edge.Detector
	grader   *grading.Grader

	locks     *cache.RedisCache
	publisher EventPublisher
	broadcast Broadcaster
	notifier  Notifier
}

// Deps collects the pipeline's collaborators. Injuries, publisher, and
// broadcast may be nil; those steps are skipped.
type Deps struct {
	Config *config.Config
	DB     *store.Database

	OddsClient *odds.Client
	Ingester   *nba.Ingester
	BoxScores  *espn.Fetcher
	Injuries   InjuryScraper

	Locks     *cache.RedisCache
	Publisher EventPublisher
	Broadcast Broadcaster
	Notifier  Notifier
}

func New(d Deps) *Pipeline {
	return &Pipeline{
		cfg:         d.Config,
		teams:       repository.NewTeamRepository(d.DB),
		gameLogs:    repository.NewGameLogRepository(d.DB),
		projections: repository.NewProjectionRepository(d.DB),
		edges:       repository.NewEdgeRepository(d.DB),
		results:     repository.NewResultRepository(d.DB),
		ingester:    d.Ingester,
		oddsClient:  d.OddsClient,
		boxScores:   d.BoxScores,
		injuries:    d.Injuries,
		builder:     projection.NewBuilder(d.Config.Model),
		detector:    edge.NewDetector(d.Config.Edges),
		grader:      grading.NewGrader(),
		locks:       d.Locks,
		publisher:   d.Publisher,
		broadcast:   d.Broadcast,
		notifier:    d.Notifier,
	}
}

// RunDataUpdate ingests the trailing game-log window and rebuilds the
// projection set for today's run date.
func (p *Pipeline) RunDataUpdate(ctx context.Context) error {
	release, err := p.locks.AcquireRunLock(ctx, lockName, lockTTL)
	if err != nil {
		return err
	}
	defer release()

	runDate := config.Today(time.Now())
	log.Printf("[pipeline] Starting data update for %s", runDate.Format("2006-01-02"))

	stored, err := p.ingester.IngestWindow(ctx, runDate, p.cfg.LogWindowDays)
	if err != nil {
		p.notifyFailure(ctx, "data update", err)
		return fmt.Errorf("ingesting game logs: %w", err)
	}

	since := runDate.AddDate(0, 0, -p.cfg.LogWindowDays)
	logs, err := p.gameLogs.ListSince(ctx, since)
	if err != nil {
		p.notifyFailure(ctx, "data update", err)
		return fmt.Errorf("loading game logs: %w", err)
	}

	nextOpponents, err := p.nextOpponents(ctx, logs)
	if err != nil {
		// Projections still work without matchup factors.
		log.Printf("[pipeline] ⚠️ Could not map next opponents: %v", err)
		nextOpponents = nil
	}

	projections, skipped := p.builder.Build(runDate, logs, nextOpponents)
	if err := p.projections.ReplaceForDate(ctx, runDate, projections); err != nil {
		p.notifyFailure(ctx, "data update", err)
		return fmt.Errorf("storing projections: %w", err)
	}

	log.Printf("[pipeline] ✓ Data update complete: %d rows ingested, %d projections (skipped %d thin, %d volatile)",
		stored, len(projections), skipped.SampleSize, skipped.Consistency)
	return nil
}

// RunEdgeSheet fetches tonight's prop lines, compares them against
// the day's projections, and persists and fans out the pick sheet.
func (p *Pipeline) RunEdgeSheet(ctx context.Context) error {
	release, err := p.locks.AcquireRunLock(ctx, lockName, lockTTL)
	if err != nil {
		return err
	}
	defer release()

	runDate := config.Today(time.Now())
	log.Printf("[pipeline] Starting edge run for %s", runDate.Format("2006-01-02"))

	projections, err := p.projections.ListForDate(ctx, runDate)
	if err != nil {
		p.notifyFailure(ctx, "edge run", err)
		return fmt.Errorf("loading projections: %w", err)
	}
	if len(projections) == 0 {
		err := fmt.Errorf("no projections for %s; did the data update run?", runDate.Format("2006-01-02"))
		p.notifyFailure(ctx, "edge run", err)
		return err
	}

	events, err := p.oddsClient.FetchEvents(ctx)
	if err != nil {
		p.notifyFailure(ctx, "edge run", err)
		return fmt.Errorf("listing events: %w", err)
	}
	if len(events) == 0 {
		log.Printf("[pipeline] ⊘ No games tonight, nothing to do")
		p.notifyText(ctx, notify.EdgeSheetMessage(runDate, nil, p.detector.Distribute(nil), p.oddsClient.QuotaRemaining))
		return nil
	}

	// One event's props failing isn't fatal; the sheet just covers
	// fewer games.
	var lines []odds.PropLine
	for _, event := range events {
		props, err := p.oddsClient.FetchEventProps(ctx, event.ID)
		if err != nil {
			log.Printf("[pipeline] ⚠️ Skipping event %s: %v", event.ID, err)
			continue
		}
		lines = append(lines, props...)
	}

	injured := p.fetchInjuries(ctx)

	sheet := p.detector.Detect(runDate, projections, lines, injured)
	inserted, err := p.edges.SaveSheet(ctx, runDate, sheet)
	if err != nil {
		p.notifyFailure(ctx, "edge run", err)
		return fmt.Errorf("saving edge sheet: %w", err)
	}

	p.fanOutSheet(ctx, runDate, sheet)

	log.Printf("[pipeline] ✓ Edge run complete: %d edges (%d new rows)", len(sheet), inserted)
	return nil
}

// RunGrading settles the previous day's sheet against final box
// scores and appends to the ledger.
func (p *Pipeline) RunGrading(ctx context.Context) error {
	release, err := p.locks.AcquireRunLock(ctx, lockName, lockTTL)
	if err != nil {
		return err
	}
	defer release()

	gradedDate := config.Yesterday(time.Now())
	log.Printf("[pipeline] Starting grading for %s", gradedDate.Format("2006-01-02"))

	sheet, err := p.edges.ListForDate(ctx, gradedDate)
	if err != nil {
		p.notifyFailure(ctx, "grading", err)
		return fmt.Errorf("loading edge sheet: %w", err)
	}
	if len(sheet) == 0 {
		log.Printf("[pipeline] ⊘ No picks to grade for %s", gradedDate.Format("2006-01-02"))
		p.notifyText(ctx, notify.GradingMessage(gradedDate, nil, nil, nil, nil))
		return nil
	}

	boxScores, err := p.boxScores.FetchFinalBoxScores(ctx, gradedDate)
	if err != nil {
		p.notifyFailure(ctx, "grading", err)
		return fmt.Errorf("fetching box scores: %w", err)
	}

	records := p.grader.Grade(gradedDate, sheet, boxScores)
	inserted, err := p.results.Append(ctx, records)
	if err != nil {
		p.notifyFailure(ctx, "grading", err)
		return fmt.Errorf("appending results: %w", err)
	}

	summary, err := p.results.Summary(ctx)
	if err != nil {
		log.Printf("[pipeline] ⚠️ Could not load ledger summary: %v", err)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishGradedResults(ctx, gradedDate, records); err != nil {
			log.Printf("[pipeline] ⚠️ Failed to publish results: %v", err)
		}
	}

	best, worst := grading.Highlights(records)
	p.notifyText(ctx, notify.GradingMessage(gradedDate, records, summary, best, worst))

	log.Printf("[pipeline] ✓ Grading complete: %d records (%d new)", len(records), inserted)
	return nil
}

// PruneLedger drops graded records older than the retention window.
func (p *Pipeline) PruneLedger(ctx context.Context, retainDays int) (int64, error) {
	cutoff := config.Today(time.Now()).AddDate(0, 0, -retainDays)
	return p.results.PruneBefore(ctx, cutoff)
}

// IsLocked reports whether another run currently holds the pipeline lock.
func IsLocked(err error) bool {
	return errors.Is(err, cache.ErrLocked)
}

// nextOpponents maps each player to tonight's opponent abbreviation,
// joining the odds slate (full team names) against the teams table and
// each player's most recent team.
func (p *Pipeline) nextOpponents(ctx context.Context, logs []*store.GameLog) (map[string]string, error) {
	if !p.cfg.Model.UseMatchupFactors {
		return nil, nil
	}

	events, err := p.oddsClient.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	teams, err := p.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	abbrByFullName := make(map[string]string, len(teams))
	for _, t := range teams {
		abbrByFullName[t.FullName] = t.Abbreviation
	}

	// team abbr -> opponent abbr for tonight
	opponentByTeam := map[string]string{}
	for _, event := range events {
		home, hok := abbrByFullName[event.HomeTeam]
		away, aok := abbrByFullName[event.AwayTeam]
		if !hok || !aok {
			log.Printf("[pipeline] ⚠️ Unknown team in event %s vs %s", event.AwayTeam, event.HomeTeam)
			continue
		}
		opponentByTeam[home] = away
		opponentByTeam[away] = home
	}

	// Logs are ordered by date ascending per player, so the last seen
	// team wins.
	latestTeam := map[string]string{}
	for _, gl := range logs {
		latestTeam[gl.PlayerName] = gl.Team
	}

	nextOpponents := map[string]string{}
	for player, team := range latestTeam {
		if opponent, ok := opponentByTeam[team]; ok {
			nextOpponents[player] = opponent
		}
	}

	return nextOpponents, nil
}

func (p *Pipeline) fetchInjuries(ctx context.Context) map[string]bool {
	if p.injuries == nil || !p.cfg.Edges.ExcludeInjured {
		return nil
	}
	out, err := p.injuries.FetchOutPlayers(ctx)
	if err != nil {
		// The sheet is still valid without exclusions, just riskier.
		log.Printf("[pipeline] ⚠️ Injury report unavailable: %v", err)
		return nil
	}
	return out
}

func (p *Pipeline) fanOutSheet(ctx context.Context, runDate time.Time, sheet []*store.Edge) {
	p.cacheSheet(ctx, runDate, sheet)

	if p.publisher != nil {
		if err := p.publisher.PublishEdgeSheet(ctx, runDate, sheet); err != nil {
			log.Printf("[pipeline] ⚠️ Failed to publish edge sheet: %v", err)
		}
	}
	if p.broadcast != nil {
		p.broadcast.BroadcastEdgeSheet(runDate, sheet)
	}

	if p.notifier == nil {
		return
	}
	msg := notify.EdgeSheetMessage(runDate, sheet, p.detector.Distribute(sheet), p.oddsClient.QuotaRemaining)
	if err := p.notifier.SendText(ctx, msg); err != nil {
		log.Printf("[pipeline] ⚠️ Failed to send sheet notification: %v", err)
	}
	if len(sheet) > 0 {
		if csvData, err := notify.EdgeSheetCSV(sheet); err == nil {
			filename := fmt.Sprintf("edges_%s.csv", runDate.Format("2006-01-02"))
			if err := p.notifier.SendDocument(ctx, filename, csvData, "Full sheet"); err != nil {
				log.Printf("[pipeline] ⚠️ Failed to send sheet attachment: %v", err)
			}
		}
	}
}

// cacheSheet stores the sheet payload for the REST API's dateless
// edge reads. A stale or missing cache just means a database read.
func (p *Pipeline) cacheSheet(ctx context.Context, runDate time.Time, sheet []*store.Edge) {
	payload, err := json.Marshal(map[string]interface{}{
		"run_date": runDate.Format("2006-01-02"),
		"count":    len(sheet),
		"edges":    sheet,
	})
	if err != nil {
		log.Printf("[pipeline] ⚠️ Failed to encode sheet for cache: %v", err)
		return
	}
	if err := p.locks.Set(ctx, cache.LatestEdgesKey, payload, 24*time.Hour); err != nil {
		log.Printf("[pipeline] ⚠️ Failed to cache edge sheet: %v", err)
	}
}

func (p *Pipeline) notifyText(ctx context.Context, msg string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.SendText(ctx, msg); err != nil {
		log.Printf("[pipeline] ⚠️ Failed to send notification: %v", err)
	}
}

func (p *Pipeline) notifyFailure(ctx context.Context, stage string, err error) {
	if p.notifier == nil {
		return
	}
	if sendErr := p.notifier.SendText(ctx, notify.PipelineFailureMessage(stage, err)); sendErr != nil {
		log.Printf("[pipeline] ⚠️ Failed to send failure notification: %v", sendErr)
	}
}
