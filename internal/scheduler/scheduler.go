package scheduler

import (
	"alcyxob/gymbuddy-app/internal/config"
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/notify"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scheduler runs the daily workout jobs outside the request path: a morning
// reminder for workouts planned today and a night sweep that marks them
// completed once the day is over.
type Scheduler struct {
	workouts repository.WorkoutRepository
	notifier notify.Notifier
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	now      func() time.Time
}

// New creates a Scheduler; call Start to register and run the jobs.
func New(workouts repository.WorkoutRepository, notifier notify.Notifier, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		workouts: workouts,
		notifier: notifier,
		cron:     cron.New(),
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the cron jobs and starts the timer loop. Job errors are
// logged, never fatal.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, func() {
		if err := s.RunReminderJob(context.Background()); err != nil {
			log.Error().Err(err).Msg("reminder job failed")
		}
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.AutoCompleteSpec, func() {
		if err := s.RunAutoCompleteJob(context.Background()); err != nil {
			log.Error().Err(err).Msg("auto-complete job failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Info().
		Str("reminder", s.cfg.ReminderSpec).
		Str("autoComplete", s.cfg.AutoCompleteSpec).
		Msg("scheduler started")
	return nil
}

// Stop halts the timer loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunReminderJob notifies each owner of a workout planned for today.
// Not idempotent: running it twice in one day duplicates reminders, so the
// cron spec must fire exactly once per day.
func (s *Scheduler) RunReminderJob(ctx context.Context) error {
	today := s.now()
	planned, err := s.workouts.ListPlannedOn(ctx, today)
	if err != nil {
		return err
	}

	for _, workout := range planned {
		workoutID := workout.ID
		s.notifier.Notify(ctx, notify.Notification{
			Recipient: workout.UserID,
			Type:      domain.NotificationReminder,
			Reference: &workoutID,
			Title:     "Workout Today!",
			Message:   reminderMessage(&workout),
		})
	}

	log.Info().Int("count", len(planned)).Msg("reminder job finished")
	return nil
}

// RunAutoCompleteJob flips today's still-planned workouts to completed in
// one batch write. Meant to run at the end of the day.
func (s *Scheduler) RunAutoCompleteJob(ctx context.Context) error {
	today := s.now()
	planned, err := s.workouts.ListPlannedOn(ctx, today)
	if err != nil {
		return err
	}
	if len(planned) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(planned))
	for _, workout := range planned {
		ids = append(ids, workout.ID)
	}
	if err := s.workouts.UpdateStatusBatch(ctx, ids, domain.StatusCompleted); err != nil {
		return err
	}

	log.Info().Int("count", len(ids)).Msg("auto-complete job finished")
	return nil
}

func reminderMessage(workout *domain.Workout) string {
	if workout.WorkoutType != "" {
		return "You have a " + workout.WorkoutType + " workout planned for today. Go get it!"
	}
	return "You have a workout planned for today. Go get it!"
}
