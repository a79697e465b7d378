package service

import (
	"alcyxob/gymbuddy-app/internal/ai"
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// consolidationWindow is how soon after the previous workout a follow-up
// log is merged into it instead of opening a new workout. Several short
// voice notes narrating one real session should land in one record.
const consolidationWindow = 30 * time.Minute

// IngestService is the voice-log entry point: raw text goes in, the
// extractor's comment comes back, and workouts / metric histories are
// mutated along the way.
type IngestService interface {
	// IngestText runs the extractor on raw text and processes the result.
	// ReceivedAt, when non-nil, overrides "now" as the effective timestamp
	// for unscheduled logs.
	IngestText(ctx context.Context, userID primitive.ObjectID, text string, receivedAt *time.Time) (string, error)
	// ProcessLog applies an already-structured log. Split out so the
	// consolidation rules can be driven without an extractor in front.
	ProcessLog(ctx context.Context, userID primitive.ObjectID, structured *domain.StructuredLog, receivedAt *time.Time) (string, error)
}

type ingestService struct {
	extractor ai.Extractor
	users     repository.UserRepository
	workouts  repository.WorkoutRepository
	usage     repository.UsageRepository
	workoutSv WorkoutService
	now       func() time.Time
}

// NewIngestService creates a new instance of ingestService.
func NewIngestService(
	extractor ai.Extractor,
	users repository.UserRepository,
	workouts repository.WorkoutRepository,
	usage repository.UsageRepository,
	workoutService WorkoutService,
) IngestService {
	return &ingestService{
		extractor: extractor,
		users:     users,
		workouts:  workouts,
		usage:     usage,
		workoutSv: workoutService,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ingestService) IngestText(ctx context.Context, userID primitive.ObjectID, text string, receivedAt *time.Time) (string, error) {
	structured, err := s.extractor.StructureActivityText(ctx, text)
	if err != nil {
		return "", fmt.Errorf("structure activity text: %w", err)
	}
	s.countExtractorCall(ctx, userID)
	return s.ProcessLog(ctx, userID, structured, receivedAt)
}

// ProcessLog is the consolidation state machine.
func (s *ingestService) ProcessLog(ctx context.Context, userID primitive.ObjectID, structured *domain.StructuredLog, receivedAt *time.Time) (string, error) {
	now := s.now()

	// Timestamp resolution. An explicit scheduled date always wins and is
	// always treated as future, even when the date is today or already past.
	var (
		timestamp time.Time
		isFuture  bool
	)
	if structured.ScheduledDate != nil {
		d := structured.ScheduledDate.UTC()
		timestamp = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
		isFuture = true
	} else {
		timestamp = now
		if receivedAt != nil {
			timestamp = receivedAt.UTC()
		}
		isFuture = timestamp.After(now)
	}

	// A vanished user is stale client state, not an error.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	if !isFuture && structured.HasMetricUpdates() {
		if err := s.applyMetricUpdates(ctx, userID, structured, timestamp); err != nil {
			return "", err
		}
	}

	if structured.HasEntries() {
		if err := s.ingestEntries(ctx, userID, structured, timestamp, isFuture); err != nil {
			return "", err
		}
	} else if !isFuture && !structured.HasMetricUpdates() {
		// Nothing usable came out of the extraction. Count it and move on.
		if err := s.usage.IncrementRubbishLogs(ctx, userID); err != nil {
			log.Warn().Err(err).Str("userId", userID.Hex()).Msg("failed to count rubbish voice log")
		}
	}

	return structured.Comment, nil
}

// applyMetricUpdates appends each present metric to its history, dated by
// the effective timestamp's calendar day.
func (s *ingestService) applyMetricUpdates(ctx context.Context, userID primitive.ObjectID, structured *domain.StructuredLog, timestamp time.Time) error {
	updates := structured.MetricUpdates()
	entryDate := timestamp.UTC().Format("2006-01-02")
	for _, field := range domain.TrackedMetricFields {
		value, ok := updates[field]
		if !ok {
			continue
		}
		entry := domain.MetricEntry{Date: entryDate, Value: value}
		if err := s.users.AppendMetric(ctx, userID, field, entry); err != nil {
			return fmt.Errorf("append %s metric: %w", field, err)
		}
	}
	return nil
}

// ingestEntries decides between consolidating into the latest workout and
// creating a fresh one. Scheduled (future) logs never consolidate.
func (s *ingestService) ingestEntries(ctx context.Context, userID primitive.ObjectID, structured *domain.StructuredLog, timestamp time.Time, isFuture bool) error {
	if !isFuture {
		latest, err := s.workouts.GetLatestByUser(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if latest != nil {
			gap := timestamp.Sub(latest.CreatedAt)
			if gap >= 0 && gap < consolidationWindow {
				_, err := s.workoutSv.AppendFromLog(ctx, latest, structured)
				return err
			}
		}
	}

	_, err := s.workoutSv.CreateFromLog(ctx, userID, structured, timestamp)
	return err
}

func (s *ingestService) countExtractorCall(ctx context.Context, userID primitive.ObjectID) {
	if err := s.usage.IncrementExtractorCalls(ctx, userID); err != nil {
		log.Warn().Err(err).Str("userId", userID.Hex()).Msg("failed to count extractor call")
	}
}
