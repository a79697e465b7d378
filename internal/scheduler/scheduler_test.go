package scheduler

import (
	"alcyxob/gymbuddy-app/internal/config"
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/notify"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newStubWorkoutRepo() *stubWorkoutRepo {
	return &stubWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *stubWorkoutRepo) add(workout domain.Workout) primitive.ObjectID {
	if workout.ID.IsZero() {
		workout.ID = primitive.NewObjectID()
	}
	r.workouts[workout.ID] = &workout
	return workout.ID
}

func (r *stubWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	return r.add(*workout), nil
}

func (r *stubWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.workouts[id], nil
}

func (r *stubWorkoutRepo) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error) {
	return r.workouts[id], nil
}

func (r *stubWorkoutRepo) GetLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error) {
	return nil, nil
}

func (r *stubWorkoutRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	return nil, nil
}

func (r *stubWorkoutRepo) ListVisible(ctx context.Context, ownerID primitive.ObjectID, visibilities []domain.Visibility, limit int64) ([]domain.Workout, error) {
	return nil, nil
}

func (r *stubWorkoutRepo) ListPlannedOn(ctx context.Context, day time.Time) ([]domain.Workout, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	var found []domain.Workout
	for _, w := range r.workouts {
		if w.Status == domain.StatusPlanned && !w.CreatedAt.Before(dayStart) && w.CreatedAt.Before(dayEnd) {
			found = append(found, *w)
		}
	}
	return found, nil
}

func (r *stubWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	return nil
}

func (r *stubWorkoutRepo) UpdateStatusBatch(ctx context.Context, ids []primitive.ObjectID, status domain.WorkoutStatus) error {
	for _, id := range ids {
		if w, ok := r.workouts[id]; ok {
			w.Status = status
		}
	}
	return nil
}

func (r *stubWorkoutRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	return nil
}

type recordingNotifier struct {
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification notify.Notification) {
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) Fanout(ctx context.Context, recipients []primitive.ObjectID, notification notify.Notification) {
	for _, recipient := range recipients {
		notification.Recipient = recipient
		n.sent = append(n.sent, notification)
	}
}

func newTestScheduler(repo *stubWorkoutRepo, notifier *recordingNotifier, now time.Time) *Scheduler {
	s := New(repo, notifier, config.SchedulerConfig{
		ReminderSpec:     "0 8 * * *",
		AutoCompleteSpec: "59 23 * * *",
	})
	s.now = func() time.Time { return now }
	return s
}

func TestRunReminderJob_NotifiesOwnersOfTodaysPlannedWorkouts(t *testing.T) {
	repo := newStubWorkoutRepo()
	notifier := &recordingNotifier{}
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	todayOwner := primitive.NewObjectID()
	todayID := repo.add(domain.Workout{
		UserID:      todayOwner,
		CreatedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:      domain.StatusPlanned,
		WorkoutType: "legs",
	})
	// Planned tomorrow: no reminder today.
	repo.add(domain.Workout{
		UserID:    primitive.NewObjectID(),
		CreatedAt: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanned,
	})
	// Completed today: no reminder either.
	repo.add(domain.Workout{
		UserID:    primitive.NewObjectID(),
		CreatedAt: time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC),
		Status:    domain.StatusCompleted,
	})

	s := newTestScheduler(repo, notifier, now)
	require.NoError(t, s.RunReminderJob(context.Background()))

	require.Len(t, notifier.sent, 1)
	sent := notifier.sent[0]
	assert.Equal(t, todayOwner, sent.Recipient)
	assert.Equal(t, domain.NotificationReminder, sent.Type)
	require.NotNil(t, sent.Reference)
	assert.Equal(t, todayID, *sent.Reference)
	assert.Contains(t, sent.Message, "legs")
}

func TestRunReminderJob_IsNotIdempotent(t *testing.T) {
	repo := newStubWorkoutRepo()
	notifier := &recordingNotifier{}
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	repo.add(domain.Workout{
		UserID:    primitive.NewObjectID(),
		CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanned,
	})

	s := newTestScheduler(repo, notifier, now)
	require.NoError(t, s.RunReminderJob(context.Background()))
	require.NoError(t, s.RunReminderJob(context.Background()))

	// Running twice in one day duplicates reminders; the job relies on the
	// cron spec firing once per day.
	assert.Len(t, notifier.sent, 2)
}

func TestRunAutoCompleteJob_FlipsOnlyTodaysPlanned(t *testing.T) {
	repo := newStubWorkoutRepo()
	notifier := &recordingNotifier{}
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	todayID := repo.add(domain.Workout{
		UserID:    primitive.NewObjectID(),
		CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanned,
	})
	tomorrowID := repo.add(domain.Workout{
		UserID:    primitive.NewObjectID(),
		CreatedAt: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanned,
	})

	s := newTestScheduler(repo, notifier, now)
	require.NoError(t, s.RunAutoCompleteJob(context.Background()))

	assert.Equal(t, domain.StatusCompleted, repo.workouts[todayID].Status)
	assert.Equal(t, domain.StatusPlanned, repo.workouts[tomorrowID].Status)
	assert.Empty(t, notifier.sent, "auto-complete is silent")
}

func TestRunAutoCompleteJob_NoPlannedIsNoOp(t *testing.T) {
	repo := newStubWorkoutRepo()
	notifier := &recordingNotifier{}
	s := newTestScheduler(repo, notifier, time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC))

	require.NoError(t, s.RunAutoCompleteJob(context.Background()))
	assert.Empty(t, notifier.sent)
}
