package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func visPtr(v domain.Visibility) *domain.Visibility { return &v }

type workoutFixture struct {
	users        *fakeUserRepo
	workouts     *fakeWorkoutRepo
	friendships  *fakeFriendshipRepo
	closeFriends *fakeCloseFriendRepo
	notifier     *recordingNotifier
	service      *workoutService
	owner        primitive.ObjectID
	now          time.Time
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	t.Helper()

	users := newFakeUserRepo()
	workouts := newFakeWorkoutRepo()
	friendships := newFakeFriendshipRepo()
	closeFriends := newFakeCloseFriendRepo()
	notifier := &recordingNotifier{}

	owner := users.add(&domain.User{Email: "owner@example.com", FirstName: "Sam"})
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	svc := NewWorkoutService(workouts, users, friendships, closeFriends, notifier).(*workoutService)
	svc.now = func() time.Time { return now }

	return &workoutFixture{
		users:        users,
		workouts:     workouts,
		friendships:  friendships,
		closeFriends: closeFriends,
		notifier:     notifier,
		service:      svc,
		owner:        owner,
		now:          now,
	}
}

// addFriend wires an accepted friendship between the owner and a new user.
func (f *workoutFixture) addFriend(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	friendID := f.users.add(&domain.User{Email: email})
	_, err := f.friendships.Create(context.Background(), &domain.Friendship{
		RequesterID: f.owner,
		AddresseeID: friendID,
		Status:      domain.FriendshipAccepted,
	})
	require.NoError(t, err)
	return friendID
}

func TestCreateManual_StatusFromTimestamp(t *testing.T) {
	f := newWorkoutFixture(t)

	past := f.now.Add(-time.Hour)
	completed, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{CreatedAt: &past})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	future := f.now.Add(time.Hour)
	planned, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{CreatedAt: &future})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, planned.Status)

	// No timestamp means "now", which is not strictly in the future.
	defaulted, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, defaulted.Status)
	assert.Equal(t, domain.VisibilityPrivate, defaulted.Visibility)
}

func TestUpdate_MissingOrForeignWorkoutYieldsNil(t *testing.T) {
	f := newWorkoutFixture(t)

	got, err := f.service.Update(context.Background(), primitive.NewObjectID(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)
	assert.Nil(t, got)

	other := f.users.add(&domain.User{Email: "other@example.com"})
	workout, err := f.service.CreateManual(context.Background(), other, domain.WorkoutPatch{})
	require.NoError(t, err)

	got, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Notes: strPtr("hijacked"),
	})
	require.NoError(t, err)
	assert.Nil(t, got, "foreign workouts look like missing ones")
}

func TestUpdate_ScalarPatchLeavesAbsentFieldsAlone(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{
		Notes:       strPtr("original notes"),
		WorkoutType: strPtr("push"),
	})
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Notes: strPtr("edited notes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "edited notes", updated.Notes)
	assert.Equal(t, "push", updated.WorkoutType)
}

func TestUpdate_ChildReplaceByDiff(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{
			{ExerciseName: "Bench Press", SetNumber: 3, Reps: 10, Weight: 80},
			{ExerciseName: "Row", SetNumber: 3, Reps: 8, Weight: 60},
		},
	})
	require.NoError(t, err)
	require.Len(t, workout.Sets, 2)

	keptID := workout.Sets[0].ID

	updated, err := f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{
			// Update the kept set in place.
			{ID: &keptID, ExerciseName: "Bench Press", SetNumber: 3, Reps: 12, Weight: 85},
			// No id: create a fresh one.
			{ExerciseName: "Overhead Press", SetNumber: 3, Reps: 8, Weight: 40},
			// The Row set is absent, which deletes it.
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Sets, 2)

	assert.Equal(t, keptID, updated.Sets[0].ID)
	assert.Equal(t, 12, updated.Sets[0].Reps)
	assert.Equal(t, 85.0, updated.Sets[0].Weight)

	assert.Equal(t, "Overhead Press", updated.Sets[1].ExerciseName)
	assert.NotEmpty(t, updated.Sets[1].ID)
	assert.NotEqual(t, keptID, updated.Sets[1].ID)
}

func TestUpdate_NilChildListLeavesChildrenUntouched(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{{ExerciseName: "Bench Press", SetNumber: 3, Reps: 10, Weight: 80}},
	})
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Notes: strPtr("only the notes"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Sets, 1)

	// An explicitly empty list wipes them.
	updated, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Sets)
}

func TestUpdate_FirstRevealToPublicNotifiesAllFriends(t *testing.T) {
	f := newWorkoutFixture(t)
	friendA := f.addFriend(t, "a@example.com")
	friendB := f.addFriend(t, "b@example.com")

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Visibility: visPtr(domain.VisibilityPublic),
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.sentTo(friendA), 1)
	require.Len(t, f.notifier.sentTo(friendB), 1)
	sent := f.notifier.sentTo(friendA)[0]
	assert.Equal(t, domain.NotificationWorkoutShare, sent.Type)
	require.NotNil(t, sent.Reference)
	assert.Equal(t, workout.ID, *sent.Reference)
}

func TestUpdate_FirstRevealToCloseFriendsNotifiesCloseSetOnly(t *testing.T) {
	f := newWorkoutFixture(t)
	closeFriend := f.addFriend(t, "close@example.com")
	regularFriend := f.addFriend(t, "regular@example.com")
	require.NoError(t, f.closeFriends.Add(context.Background(), f.owner, closeFriend))

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Visibility: visPtr(domain.VisibilityCloseFriends),
	})
	require.NoError(t, err)

	assert.Len(t, f.notifier.sentTo(closeFriend), 1)
	assert.Empty(t, f.notifier.sentTo(regularFriend))
}

func TestUpdate_NonFirstRevealTransitionsStaySilent(t *testing.T) {
	f := newWorkoutFixture(t)
	friend := f.addFriend(t, "a@example.com")

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)

	// private -> public notifies once.
	_, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Visibility: visPtr(domain.VisibilityPublic),
	})
	require.NoError(t, err)
	require.Len(t, f.notifier.sentTo(friend), 1)

	// public -> public, public -> close_friends, close_friends -> public:
	// all silent.
	for _, v := range []domain.Visibility{domain.VisibilityPublic, domain.VisibilityCloseFriends, domain.VisibilityPublic} {
		_, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
			Visibility: visPtr(v),
		})
		require.NoError(t, err)
	}
	assert.Len(t, f.notifier.sentTo(friend), 1, "only the first reveal notifies")
}

func TestUpdate_SettingPrivateAgainStaysSilent(t *testing.T) {
	f := newWorkoutFixture(t)
	friend := f.addFriend(t, "a@example.com")

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Visibility: visPtr(domain.VisibilityPrivate),
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sentTo(friend))
}

func TestCreateFromLog_PublicVisibilityFansOut(t *testing.T) {
	f := newWorkoutFixture(t)
	friend := f.addFriend(t, "a@example.com")

	structured := &domain.StructuredLog{
		Sets:       []domain.LoggedSet{{ExerciseName: "Bench Press", Sets: 3, Reps: 10, Weight: 80}},
		Visibility: domain.VisibilityPublic,
	}
	workout, err := f.service.CreateFromLog(context.Background(), f.owner, structured, f.now)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, workout.Visibility)

	require.Len(t, f.notifier.sentTo(friend), 1)
	assert.Equal(t, domain.NotificationWorkoutShare, f.notifier.sentTo(friend)[0].Type)
}

func TestCreateFromLog_PrivateByDefaultNoFanout(t *testing.T) {
	f := newWorkoutFixture(t)
	friend := f.addFriend(t, "a@example.com")

	workout, err := f.service.CreateFromLog(context.Background(), f.owner, &domain.StructuredLog{
		Sets: []domain.LoggedSet{{ExerciseName: "Bench Press", Sets: 3, Reps: 10, Weight: 80}},
	}, f.now)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, workout.Visibility)
	assert.Empty(t, f.notifier.sentTo(friend))
}

func TestVisibleWorkouts_CloseFriendSeesMore(t *testing.T) {
	f := newWorkoutFixture(t)
	viewer := f.addFriend(t, "viewer@example.com")

	for _, v := range []domain.Visibility{domain.VisibilityPrivate, domain.VisibilityCloseFriends, domain.VisibilityPublic} {
		_, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{Visibility: visPtr(v)})
		require.NoError(t, err)
	}

	visible, err := f.service.VisibleWorkouts(context.Background(), f.owner, viewer, 10)
	require.NoError(t, err)
	assert.Len(t, visible, 1, "a regular friend only sees public workouts")

	require.NoError(t, f.closeFriends.Add(context.Background(), f.owner, viewer))
	visible, err = f.service.VisibleWorkouts(context.Background(), f.owner, viewer, 10)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}

func TestDelete_OwnedAndForeign(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{})
	require.NoError(t, err)

	deleted, err := f.service.Delete(context.Background(), workout.ID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.service.Delete(context.Background(), workout.ID, f.owner)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestReconcile_UnknownIDIsSkipped(t *testing.T) {
	f := newWorkoutFixture(t)

	workout, err := f.service.CreateManual(context.Background(), f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{{ExerciseName: "Bench Press", SetNumber: 3, Reps: 10, Weight: 80}},
	})
	require.NoError(t, err)

	staleID := "no-such-set"
	updated, err := f.service.Update(context.Background(), workout.ID, f.owner, domain.WorkoutPatch{
		Sets: []domain.SetPatch{
			{ID: &workout.Sets[0].ID, ExerciseName: "Bench Press", SetNumber: 3, Reps: 10, Weight: 80},
			{ID: &staleID, ExerciseName: "Phantom", SetNumber: 1, Reps: 1, Weight: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Sets, 1)
	assert.Equal(t, "Bench Press", updated.Sets[0].ExerciseName)
}
