package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/notify"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests. They mirror the
// mongo implementations' observable behavior (ErrNotFound semantics and
// sort orders) without the driver underneath.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) add(user *domain.User) primitive.ObjectID {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user.ID
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	var found []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found = append(found, *u)
		}
	}
	return found, nil
}

func (r *fakeUserRepo) AppendMetric(ctx context.Context, userID primitive.ObjectID, field domain.MetricField, entry domain.MetricEntry) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	switch field {
	case domain.MetricWeight:
		u.Weight = append(u.Weight, entry)
	case domain.MetricFatPercentage:
		u.FatPercentage = append(u.FatPercentage, entry)
	case domain.MetricBench1RM:
		u.Bench1RM = append(u.Bench1RM, entry)
	case domain.MetricSquat1RM:
		u.Squat1RM = append(u.Squat1RM, entry)
	case domain.MetricDeadlift1RM:
		u.Deadlift1RM = append(u.Deadlift1RM, entry)
	}
	return nil
}

func (r *fakeUserRepo) ApplyProfilePatch(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.PushToken != nil {
		u.PushToken = *patch.PushToken
	}
	u.IsOnboarded = true
	return nil
}

func (r *fakeUserRepo) SetAvatarKey(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarKey = objectKey
	return nil
}

func (r *fakeUserRepo) IncrementInteractionCount(ctx context.Context, userID primitive.ObjectID, action domain.InteractionAction) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if action == domain.ActionNudge {
		u.NudgeCount++
	} else {
		u.SpotCount++
	}
	return nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string, excludeID primitive.ObjectID, limit int64) ([]domain.User, error) {
	var found []domain.User
	lowered := strings.ToLower(query)
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
		if strings.Contains(haystack, lowered) {
			found = append(found, *u)
		}
	}
	return found, nil
}

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ID.IsZero() {
		workout.ID = primitive.NewObjectID()
	}
	copied := *workout
	r.workouts[workout.ID] = &copied
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWorkoutRepo) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok || w.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWorkoutRepo) GetLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error) {
	var latest *domain.Workout
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		if latest == nil || w.CreatedAt.After(latest.CreatedAt) {
			latest = w
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeWorkoutRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	var found []domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID {
			found = append(found, *w)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	return found, nil
}

func (r *fakeWorkoutRepo) ListVisible(ctx context.Context, ownerID primitive.ObjectID, visibilities []domain.Visibility, limit int64) ([]domain.Workout, error) {
	allowed := make(map[domain.Visibility]bool)
	for _, v := range visibilities {
		allowed[v] = true
	}
	var found []domain.Workout
	for _, w := range r.workouts {
		if w.UserID == ownerID && allowed[w.Visibility] {
			found = append(found, *w)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	return found, nil
}

func (r *fakeWorkoutRepo) ListPlannedOn(ctx context.Context, day time.Time) ([]domain.Workout, error) {
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

func (r *fakeWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *workout
	r.workouts[workout.ID] = &copied
	return nil
}

func (r *fakeWorkoutRepo) UpdateStatusBatch(ctx context.Context, ids []primitive.ObjectID, status domain.WorkoutStatus) error {
	for _, id := range ids {
		if w, ok := r.workouts[id]; ok {
			w.Status = status
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	w, ok := r.workouts[id]
	if !ok || w.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

type fakeFriendshipRepo struct {
	rows map[primitive.ObjectID]*domain.Friendship
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{rows: make(map[primitive.ObjectID]*domain.Friendship)}
}

func (r *fakeFriendshipRepo) Create(ctx context.Context, friendship *domain.Friendship) (primitive.ObjectID, error) {
	if friendship.ID.IsZero() {
		friendship.ID = primitive.NewObjectID()
	}
	copied := *friendship
	r.rows[friendship.ID] = &copied
	return friendship.ID, nil
}

func (r *fakeFriendshipRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Friendship, error) {
	f, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFriendshipRepo) GetDirected(ctx context.Context, requesterID, addresseeID primitive.ObjectID) (*domain.Friendship, error) {
	for _, f := range r.rows {
		if f.RequesterID == requesterID && f.AddresseeID == addresseeID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFriendshipRepo) GetBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error) {
	for _, f := range r.rows {
		if (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a) {
			copied := *f
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFriendshipRepo) GetAcceptedBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Friendship, error) {
	f, err := r.GetBetween(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if f.Status != domain.FriendshipAccepted {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

func (r *fakeFriendshipRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendshipStatus) error {
	f, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Status = status
	return nil
}

func (r *fakeFriendshipRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeFriendshipRepo) ListAcceptedFor(ctx context.Context, userID primitive.ObjectID) ([]domain.Friendship, error) {
	var found []domain.Friendship
	for _, f := range r.rows {
		if f.Status == domain.FriendshipAccepted && (f.RequesterID == userID || f.AddresseeID == userID) {
			found = append(found, *f)
		}
	}
	return found, nil
}

func (r *fakeFriendshipRepo) ListPendingFor(ctx context.Context, addresseeID primitive.ObjectID) ([]domain.Friendship, error) {
	var found []domain.Friendship
	for _, f := range r.rows {
		if f.Status == domain.FriendshipPending && f.AddresseeID == addresseeID {
			found = append(found, *f)
		}
	}
	return found, nil
}

type closeFriendKey struct {
	owner, friend primitive.ObjectID
}

type fakeCloseFriendRepo struct {
	links map[closeFriendKey]bool
}

func newFakeCloseFriendRepo() *fakeCloseFriendRepo {
	return &fakeCloseFriendRepo{links: make(map[closeFriendKey]bool)}
}

func (r *fakeCloseFriendRepo) Add(ctx context.Context, ownerID, friendID primitive.ObjectID) error {
	r.links[closeFriendKey{ownerID, friendID}] = true
	return nil
}

func (r *fakeCloseFriendRepo) Remove(ctx context.Context, ownerID, friendID primitive.ObjectID) error {
	delete(r.links, closeFriendKey{ownerID, friendID})
	return nil
}

func (r *fakeCloseFriendRepo) Exists(ctx context.Context, ownerID, friendID primitive.ObjectID) (bool, error) {
	return r.links[closeFriendKey{ownerID, friendID}], nil
}

func (r *fakeCloseFriendRepo) ListFriendIDs(ctx context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for key := range r.links {
		if key.owner == ownerID {
			ids = append(ids, key.friend)
		}
	}
	return ids, nil
}

func (r *fakeCloseFriendRepo) RemoveBetween(ctx context.Context, a, b primitive.ObjectID) error {
	delete(r.links, closeFriendKey{a, b})
	delete(r.links, closeFriendKey{b, a})
	return nil
}

type fakeInteractionRepo struct {
	rows []domain.UserInteraction
}

func (r *fakeInteractionRepo) Create(ctx context.Context, interaction *domain.UserInteraction) (primitive.ObjectID, error) {
	if interaction.ID.IsZero() {
		interaction.ID = primitive.NewObjectID()
	}
	r.rows = append(r.rows, *interaction)
	return interaction.ID, nil
}

func (r *fakeInteractionRepo) CountBySenderSince(ctx context.Context, senderID primitive.ObjectID, action domain.InteractionAction, since time.Time) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.SenderID == senderID && row.ActionType == action && !row.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeInteractionRepo) ExistsForRecipientSince(ctx context.Context, senderID, recipientID primitive.ObjectID, action domain.InteractionAction, since time.Time) (bool, error) {
	for _, row := range r.rows {
		if row.SenderID == senderID && row.RecipientID == recipientID && row.ActionType == action && !row.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUsageRepo struct {
	apiCalls       map[primitive.ObjectID]int
	extractorCalls map[primitive.ObjectID]int
	rubbishLogs    map[primitive.ObjectID]int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{
		apiCalls:       make(map[primitive.ObjectID]int),
		extractorCalls: make(map[primitive.ObjectID]int),
		rubbishLogs:    make(map[primitive.ObjectID]int),
	}
}

func (r *fakeUsageRepo) IncrementAPICalls(ctx context.Context, userID primitive.ObjectID) error {
	r.apiCalls[userID]++
	return nil
}

func (r *fakeUsageRepo) IncrementExtractorCalls(ctx context.Context, userID primitive.ObjectID) error {
	r.extractorCalls[userID]++
	return nil
}

func (r *fakeUsageRepo) IncrementRubbishLogs(ctx context.Context, userID primitive.ObjectID) error {
	r.rubbishLogs[userID]++
	return nil
}

// recordingNotifier captures every notification instead of delivering it.
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

func (n *recordingNotifier) sentTo(recipient primitive.ObjectID) []notify.Notification {
	var matched []notify.Notification
	for _, s := range n.sent {
		if s.Recipient == recipient {
			matched = append(matched, s)
		}
	}
	return matched
}

// fakeExtractor returns a canned structured log.
type fakeExtractor struct {
	log *domain.StructuredLog
	err error
}

func (e *fakeExtractor) StructureActivityText(ctx context.Context, text string) (*domain.StructuredLog, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.log, nil
}
