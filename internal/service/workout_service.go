package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/notify"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// noteUpdateMarker separates the original notes from a consolidated
// follow-up report.
const noteUpdateMarker = "\n\n[Update]: "

// WorkoutService owns the workout aggregate: manual creation, creation
// from structured logs, consolidation appends, owner-scoped updates with
// child reconciliation, and visibility fanout.
type WorkoutService interface {
	CreateManual(ctx context.Context, ownerID primitive.ObjectID, draft domain.WorkoutPatch) (*domain.Workout, error)
	// CreateFromLog builds a workout from an ingested structured log with
	// the given effective timestamp and fans out share notifications per
	// the log's visibility.
	CreateFromLog(ctx context.Context, ownerID primitive.ObjectID, structured *domain.StructuredLog, timestamp time.Time) (*domain.Workout, error)
	// AppendFromLog consolidates a structured log into an existing workout:
	// notes are appended behind the update marker and new children are
	// added. No notification fanout happens here.
	AppendFromLog(ctx context.Context, workout *domain.Workout, structured *domain.StructuredLog) (*domain.Workout, error)
	// Update patches a workout owned by ownerID. A missing or foreign id
	// yields (nil, nil).
	Update(ctx context.Context, workoutID, ownerID primitive.ObjectID, patch domain.WorkoutPatch) (*domain.Workout, error)
	Get(ctx context.Context, workoutID, ownerID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	// VisibleWorkouts returns the target's workouts the viewer may see:
	// public always, close_friends only when the target marked the viewer
	// close.
	VisibleWorkouts(ctx context.Context, targetID, viewerID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	// Delete removes an owned workout and its embedded children. Returns
	// false when no such owned workout exists.
	Delete(ctx context.Context, workoutID, ownerID primitive.ObjectID) (bool, error)
}

type workoutService struct {
	workouts     repository.WorkoutRepository
	users        repository.UserRepository
	friendships  repository.FriendshipRepository
	closeFriends repository.CloseFriendRepository
	notifier     notify.Notifier
	now          func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workouts repository.WorkoutRepository,
	users repository.UserRepository,
	friendships repository.FriendshipRepository,
	closeFriends repository.CloseFriendRepository,
	notifier notify.Notifier,
) WorkoutService {
	return &workoutService{
		workouts:     workouts,
		users:        users,
		friendships:  friendships,
		closeFriends: closeFriends,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// statusForTimestamp derives the lifecycle status from the workout
// timestamp: strictly in the future means planned, anything else completed.
func statusForTimestamp(timestamp, now time.Time) domain.WorkoutStatus {
	if timestamp.After(now) {
		return domain.StatusPlanned
	}
	return domain.StatusCompleted
}

// CreateManual creates a workout from a client-supplied draft. The status
// is derived from the draft timestamp (or "now" when absent) at call time.
func (s *workoutService) CreateManual(ctx context.Context, ownerID primitive.ObjectID, draft domain.WorkoutPatch) (*domain.Workout, error) {
	now := s.now()
	createdAt := now
	if draft.CreatedAt != nil {
		createdAt = draft.CreatedAt.UTC()
	}

	workout := &domain.Workout{
		UserID:     ownerID,
		CreatedAt:  createdAt,
		Visibility: domain.VisibilityPrivate,
		Status:     statusForTimestamp(createdAt, now),
	}
	if draft.Notes != nil {
		workout.Notes = *draft.Notes
	}
	if draft.WorkoutType != nil {
		workout.WorkoutType = *draft.WorkoutType
	}
	if draft.Visibility != nil {
		workout.Visibility = *draft.Visibility
	}
	for _, patch := range draft.Sets {
		workout.Sets = append(workout.Sets, newExerciseSet(patch))
	}
	for _, patch := range draft.CardioSessions {
		workout.CardioSessions = append(workout.CardioSessions, newCardioSession(patch))
	}

	id, err := s.workouts.Create(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("create manual workout: %w", err)
	}
	workout.ID = id
	return workout, nil
}

// CreateFromLog builds a workout from a structured log. The timestamp is
// the engine's effective timestamp, which may lie in the future for
// scheduled workouts.
func (s *workoutService) CreateFromLog(ctx context.Context, ownerID primitive.ObjectID, structured *domain.StructuredLog, timestamp time.Time) (*domain.Workout, error) {
	visibility := structured.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	workout := &domain.Workout{
		UserID:      ownerID,
		CreatedAt:   timestamp.UTC(),
		Notes:       structured.Note,
		WorkoutType: structured.WorkoutType,
		Visibility:  visibility,
		Status:      statusForTimestamp(timestamp, s.now()),
	}
	for _, entry := range structured.Sets {
		workout.Sets = append(workout.Sets, exerciseSetFromLog(entry))
	}
	for _, entry := range structured.Cardio {
		workout.CardioSessions = append(workout.CardioSessions, cardioSessionFromLog(entry))
	}

	id, err := s.workouts.Create(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("create workout from log: %w", err)
	}
	workout.ID = id

	// Freshly shared workouts announce themselves; consolidations don't.
	switch visibility {
	case domain.VisibilityPublic:
		s.fanoutShare(ctx, workout, allFriendsAudience, "Your Buddy Just Logged a Workout!",
			"%s just crushed a workout! Spot them to show your support.")
	case domain.VisibilityCloseFriends:
		s.fanoutShare(ctx, workout, closeFriendsAudience, "Close Friends Workout!",
			"%s shared a private workout with you.")
	}

	return workout, nil
}

// AppendFromLog merges a follow-up structured log into an existing workout.
func (s *workoutService) AppendFromLog(ctx context.Context, workout *domain.Workout, structured *domain.StructuredLog) (*domain.Workout, error) {
	if structured.Note != "" {
		if workout.Notes != "" {
			workout.Notes += noteUpdateMarker + structured.Note
		} else {
			workout.Notes = structured.Note
		}
	}
	for _, entry := range structured.Sets {
		workout.Sets = append(workout.Sets, exerciseSetFromLog(entry))
	}
	for _, entry := range structured.Cardio {
		workout.CardioSessions = append(workout.CardioSessions, cardioSessionFromLog(entry))
	}

	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, fmt.Errorf("append to workout %s: %w", workout.ID.Hex(), err)
	}
	return workout, nil
}

// Update patches an owned workout: scalar fields when present, children by
// full replace-by-diff when a child list is present. All of it lands in one
// document write. Visibility fanout fires only on the first reveal out of
// private.
func (s *workoutService) Update(ctx context.Context, workoutID, ownerID primitive.ObjectID, patch domain.WorkoutPatch) (*domain.Workout, error) {
	workout, err := s.workouts.GetByIDAndOwner(ctx, workoutID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if patch.Notes != nil {
		workout.Notes = *patch.Notes
	}
	if patch.WorkoutType != nil {
		workout.WorkoutType = *patch.WorkoutType
	}
	if patch.Status != nil {
		workout.Status = *patch.Status
	}
	if patch.CreatedAt != nil {
		workout.CreatedAt = patch.CreatedAt.UTC()
	}

	oldVisibility := workout.Visibility
	if patch.Visibility != nil {
		workout.Visibility = *patch.Visibility
	}

	if patch.Sets != nil {
		workout.Sets = reconcile(workout.Sets, patch.Sets,
			func(set domain.ExerciseSet) string { return set.ID },
			func(p domain.SetPatch) *string { return p.ID },
			applySetPatch,
			newExerciseSet,
		)
	}
	if patch.CardioSessions != nil {
		workout.CardioSessions = reconcile(workout.CardioSessions, patch.CardioSessions,
			func(session domain.CardioSession) string { return session.ID },
			func(p domain.CardioPatch) *string { return p.ID },
			applyCardioPatch,
			newCardioSession,
		)
	}

	if err := s.workouts.Update(ctx, workout); err != nil {
		return nil, fmt.Errorf("update workout %s: %w", workoutID.Hex(), err)
	}

	// One-shot first-reveal signal: only private -> public and
	// private -> close_friends notify. Every other transition, including
	// re-setting the same value, stays silent.
	if patch.Visibility != nil && oldVisibility == domain.VisibilityPrivate {
		switch workout.Visibility {
		case domain.VisibilityPublic:
			s.fanoutShare(ctx, workout, allFriendsAudience, "Your Buddy Shared a Workout!",
				"%s just shared a workout! Time to spot!")
		case domain.VisibilityCloseFriends:
			s.fanoutShare(ctx, workout, closeFriendsAudience, "Close Friends Only!",
				"%s shared a workout with close friends.")
		}
	}

	return workout, nil
}

// Get retrieves an owned workout.
func (s *workoutService) Get(ctx context.Context, workoutID, ownerID primitive.ObjectID) (*domain.Workout, error) {
	return s.workouts.GetByIDAndOwner(ctx, workoutID, ownerID)
}

// List retrieves the owner's workouts, newest first.
func (s *workoutService) List(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	return s.workouts.ListByUser(ctx, ownerID, limit)
}

// VisibleWorkouts retrieves the target's workouts visible to the viewer.
func (s *workoutService) VisibleWorkouts(ctx context.Context, targetID, viewerID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	visibilities := []domain.Visibility{domain.VisibilityPublic}
	isClose, err := s.closeFriends.Exists(ctx, targetID, viewerID)
	if err != nil {
		return nil, err
	}
	if isClose {
		visibilities = append(visibilities, domain.VisibilityCloseFriends)
	}
	return s.workouts.ListVisible(ctx, targetID, visibilities, limit)
}

// Delete removes an owned workout; children are embedded and go with it.
func (s *workoutService) Delete(ctx context.Context, workoutID, ownerID primitive.ObjectID) (bool, error) {
	err := s.workouts.Delete(ctx, workoutID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// --- Fanout helpers ---

type audienceKind int

const (
	allFriendsAudience audienceKind = iota
	closeFriendsAudience
)

// fanoutShare notifies the owner's audience about a shared workout.
// Best effort: audience lookup failures are logged via the notifier path
// being skipped, never propagated.
func (s *workoutService) fanoutShare(ctx context.Context, workout *domain.Workout, kind audienceKind, title, messageFormat string) {
	var (
		recipients []primitive.ObjectID
		err        error
	)
	switch kind {
	case allFriendsAudience:
		recipients, err = s.acceptedFriendIDs(ctx, workout.UserID)
	case closeFriendsAudience:
		recipients, err = s.closeFriends.ListFriendIDs(ctx, workout.UserID)
	}
	if err != nil || len(recipients) == 0 {
		return
	}

	owner, err := s.users.GetByID(ctx, workout.UserID)
	if err != nil {
		return
	}

	ownerID := workout.UserID
	workoutID := workout.ID
	s.notifier.Fanout(ctx, recipients, notify.Notification{
		Sender:    &ownerID,
		Type:      domain.NotificationWorkoutShare,
		Reference: &workoutID,
		Title:     title,
		Message:   fmt.Sprintf(messageFormat, displayName(owner)),
	})
}

func (s *workoutService) acceptedFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	friendships, err := s.friendships.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

// displayName picks something presentable for notification copy.
func displayName(user *domain.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Email
}

// --- Child constructors / patch appliers ---

func newExerciseSet(patch domain.SetPatch) domain.ExerciseSet {
	return domain.ExerciseSet{
		ID:           uuid.NewString(),
		ExerciseName: patch.ExerciseName,
		SetNumber:    patch.SetNumber,
		Reps:         patch.Reps,
		Weight:       patch.Weight,
		WeightUnit:   patch.WeightUnit,
	}
}

func applySetPatch(set *domain.ExerciseSet, patch domain.SetPatch) {
	set.ExerciseName = patch.ExerciseName
	set.SetNumber = patch.SetNumber
	set.Reps = patch.Reps
	set.Weight = patch.Weight
	set.WeightUnit = patch.WeightUnit
}

func newCardioSession(patch domain.CardioPatch) domain.CardioSession {
	return domain.CardioSession{
		ID:              uuid.NewString(),
		Name:            patch.Name,
		DurationMinutes: patch.DurationMinutes,
		Distance:        patch.Distance,
		DistanceUnit:    patch.DistanceUnit,
		Speed:           patch.Speed,
		Pace:            patch.Pace,
		PaceUnit:        patch.PaceUnit,
		Laps:            patch.Laps,
	}
}

func applyCardioPatch(session *domain.CardioSession, patch domain.CardioPatch) {
	session.Name = patch.Name
	session.DurationMinutes = patch.DurationMinutes
	session.Distance = patch.Distance
	session.DistanceUnit = patch.DistanceUnit
	session.Speed = patch.Speed
	session.Pace = patch.Pace
	session.PaceUnit = patch.PaceUnit
	session.Laps = patch.Laps
}

// exerciseSetFromLog keeps the extractor's sets count verbatim as
// SetNumber; see the field doc for the pyramid/straight-set convention.
func exerciseSetFromLog(entry domain.LoggedSet) domain.ExerciseSet {
	return domain.ExerciseSet{
		ID:           uuid.NewString(),
		ExerciseName: entry.ExerciseName,
		SetNumber:    entry.Sets,
		Reps:         entry.Reps,
		Weight:       entry.Weight,
		WeightUnit:   entry.WeightUnit,
	}
}

func cardioSessionFromLog(entry domain.LoggedCardio) domain.CardioSession {
	return domain.CardioSession{
		ID:              uuid.NewString(),
		Name:            entry.ExerciseName,
		DurationMinutes: entry.DurationMinutes,
		Distance:        entry.Distance,
		DistanceUnit:    entry.DistanceUnit,
		Speed:           entry.Speed,
		Pace:            entry.Pace,
		PaceUnit:        entry.PaceUnit,
		Laps:            entry.Laps,
	}
}
