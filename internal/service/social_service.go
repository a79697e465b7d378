package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/notify"
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service specific errors
var (
	ErrNotFriends = errors.New("users are not accepted friends")
	// ErrActionLimitReached means the sender used up the rolling 7-day
	// allowance for this action type.
	ErrActionLimitReached = errors.New("action limit reached for this week")
	// ErrActionAlreadySent means this recipient already got this action from
	// the sender in the last 24 hours.
	ErrActionAlreadySent = errors.New("action already sent to this user today")
)

const (
	// weeklyActionLimit caps nudges/spots per sender per rolling week.
	weeklyActionLimit = 3
	actionWeek        = 7 * 24 * time.Hour
	actionCooldown    = 24 * time.Hour
)

var nudgeMessages = []string{
	"%s thinks it's leg day. Don't let them down!",
	"%s is wondering where you've been. The gym misses you!",
	"Consider yourself nudged by %s. Time to lift!",
}

// FriendView is a friend row decorated with the caller's close-friend flag.
type FriendView struct {
	User          domain.User `json:"user"`
	IsCloseFriend bool        `json:"isCloseFriend"`
}

// PendingRequestView is an incoming friend request with its sender resolved.
type PendingRequestView struct {
	FriendshipID primitive.ObjectID `json:"friendshipId"`
	Requester    domain.User        `json:"requester"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// SocialService owns the friendship graph, the close-friend refinement and
// the rate-limited nudge/spot interactions.
type SocialService interface {
	// FriendshipStatus resolves the relation between a and b from a's side.
	FriendshipStatus(ctx context.Context, a, b primitive.ObjectID) (domain.FriendshipRelation, error)
	// SendFriendRequest is idempotent: any existing row between the pair is
	// returned unchanged; only a truly new request creates and notifies.
	SendFriendRequest(ctx context.Context, requesterID, addresseeID primitive.ObjectID) (*domain.Friendship, error)
	// RespondToFriendRequest accepts or rejects. Only the addressee may act;
	// a missing row or a foreign actor yields (nil, nil).
	RespondToFriendRequest(ctx context.Context, userID, friendshipID primitive.ObjectID, accept bool) (*domain.Friendship, error)
	// RemoveFriend dissolves an accepted friendship and its close-friend
	// links in both directions. Returns false when none exists.
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error)
	// ToggleCloseFriend adds or removes the directed close-friend mark.
	// Fails with ErrNotFriends unless the pair is accepted friends.
	ToggleCloseFriend(ctx context.Context, ownerID, friendID primitive.ObjectID, add bool) error
	Friends(ctx context.Context, userID primitive.ObjectID) ([]FriendView, error)
	PendingRequests(ctx context.Context, userID primitive.ObjectID) ([]PendingRequestView, error)
	SearchUsers(ctx context.Context, query string, selfID primitive.ObjectID, limit int64) ([]domain.User, error)
	// PerformAction sends a nudge or spot, enforcing the weekly sender limit
	// and the per-recipient daily cooldown.
	PerformAction(ctx context.Context, senderID, recipientID primitive.ObjectID, action domain.InteractionAction) error
}

type socialService struct {
	users        repository.UserRepository
	friendships  repository.FriendshipRepository
	closeFriends repository.CloseFriendRepository
	interactions repository.InteractionRepository
	notifier     notify.Notifier
	now          func() time.Time
}

// NewSocialService creates a new instance of socialService.
func NewSocialService(
	users repository.UserRepository,
	friendships repository.FriendshipRepository,
	closeFriends repository.CloseFriendRepository,
	interactions repository.InteractionRepository,
	notifier notify.Notifier,
) SocialService {
	return &socialService{
		users:        users,
		friendships:  friendships,
		closeFriends: closeFriends,
		interactions: interactions,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *socialService) FriendshipStatus(ctx context.Context, a, b primitive.ObjectID) (domain.FriendshipRelation, error) {
	friendship, err := s.friendships.GetBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RelationNone, nil
		}
		return "", err
	}
	if friendship.Status == domain.FriendshipAccepted {
		return domain.RelationAccepted, nil
	}
	if friendship.RequesterID == a {
		return domain.RelationPendingSent, nil
	}
	return domain.RelationPendingReceived, nil
}

func (s *socialService) SendFriendRequest(ctx context.Context, requesterID, addresseeID primitive.ObjectID) (*domain.Friendship, error) {
	existing, err := s.friendships.GetBetween(ctx, requesterID, addresseeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	friendship := &domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.friendships.Create(ctx, friendship)
	if err != nil {
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	friendship.ID = id

	if requester, err := s.users.GetByID(ctx, requesterID); err == nil {
		s.notifier.Notify(ctx, notify.Notification{
			Recipient: addresseeID,
			Sender:    &requesterID,
			Type:      domain.NotificationFriendRequest,
			Reference: &id,
			Title:     "New Buddy Request",
			Message:   fmt.Sprintf("%s wants to be your gym buddy!", displayName(requester)),
		})
	}

	return friendship, nil
}

func (s *socialService) RespondToFriendRequest(ctx context.Context, userID, friendshipID primitive.ObjectID, accept bool) (*domain.Friendship, error) {
	friendship, err := s.friendships.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// Only the addressee of a pending request may act on it.
	if friendship.AddresseeID != userID || friendship.Status != domain.FriendshipPending {
		return nil, nil
	}

	if !accept {
		if err := s.friendships.Delete(ctx, friendshipID); err != nil {
			return nil, fmt.Errorf("reject friend request: %w", err)
		}
		return nil, nil
	}

	if err := s.friendships.UpdateStatus(ctx, friendshipID, domain.FriendshipAccepted); err != nil {
		return nil, fmt.Errorf("accept friend request: %w", err)
	}
	friendship.Status = domain.FriendshipAccepted
	friendship.UpdatedAt = s.now()

	if accepter, err := s.users.GetByID(ctx, userID); err == nil {
		s.notifier.Notify(ctx, notify.Notification{
			Recipient: friendship.RequesterID,
			Sender:    &userID,
			Type:      domain.NotificationFriendAccept,
			Reference: &friendshipID,
			Title:     "Buddy Request Accepted",
			Message:   fmt.Sprintf("%s accepted your buddy request!", displayName(accepter)),
		})
	}

	return friendship, nil
}

func (s *socialService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	friendship, err := s.friendships.GetAcceptedBetween(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.friendships.Delete(ctx, friendship.ID); err != nil {
		return false, fmt.Errorf("remove friendship: %w", err)
	}
	// Close-friend marks make no sense without the friendship underneath.
	if err := s.closeFriends.RemoveBetween(ctx, userID, friendID); err != nil {
		return false, fmt.Errorf("remove close friend links: %w", err)
	}
	return true, nil
}

func (s *socialService) ToggleCloseFriend(ctx context.Context, ownerID, friendID primitive.ObjectID, add bool) error {
	_, err := s.friendships.GetAcceptedBetween(ctx, ownerID, friendID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFriends
		}
		return err
	}

	if add {
		return s.closeFriends.Add(ctx, ownerID, friendID)
	}
	return s.closeFriends.Remove(ctx, ownerID, friendID)
}

func (s *socialService) Friends(ctx context.Context, userID primitive.ObjectID) ([]FriendView, error) {
	friendships, err := s.friendships.ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]primitive.ObjectID, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			friendIDs = append(friendIDs, f.AddresseeID)
		} else {
			friendIDs = append(friendIDs, f.RequesterID)
		}
	}
	if len(friendIDs) == 0 {
		return []FriendView{}, nil
	}

	users, err := s.users.GetManyByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}
	closeIDs, err := s.closeFriends.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	closeSet := make(map[primitive.ObjectID]bool, len(closeIDs))
	for _, id := range closeIDs {
		closeSet[id] = true
	}

	views := make([]FriendView, 0, len(users))
	for _, user := range users {
		user.PasswordHash = ""
		views = append(views, FriendView{User: user, IsCloseFriend: closeSet[user.ID]})
	}
	return views, nil
}

func (s *socialService) PendingRequests(ctx context.Context, userID primitive.ObjectID) ([]PendingRequestView, error) {
	pending, err := s.friendships.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return []PendingRequestView{}, nil
	}

	requesterIDs := make([]primitive.ObjectID, 0, len(pending))
	for _, f := range pending {
		requesterIDs = append(requesterIDs, f.RequesterID)
	}
	requesters, err := s.users.GetManyByIDs(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.User, len(requesters))
	for _, u := range requesters {
		u.PasswordHash = ""
		byID[u.ID] = u
	}

	views := make([]PendingRequestView, 0, len(pending))
	for _, f := range pending {
		requester, ok := byID[f.RequesterID]
		if !ok {
			continue
		}
		views = append(views, PendingRequestView{
			FriendshipID: f.ID,
			Requester:    requester,
			CreatedAt:    f.CreatedAt,
		})
	}
	return views, nil
}

func (s *socialService) SearchUsers(ctx context.Context, query string, selfID primitive.ObjectID, limit int64) ([]domain.User, error) {
	users, err := s.users.Search(ctx, query, selfID, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *socialService) PerformAction(ctx context.Context, senderID, recipientID primitive.ObjectID, action domain.InteractionAction) error {
	now := s.now()

	weekCount, err := s.interactions.CountBySenderSince(ctx, senderID, action, now.Add(-actionWeek))
	if err != nil {
		return err
	}
	if weekCount >= weeklyActionLimit {
		return ErrActionLimitReached
	}

	alreadySent, err := s.interactions.ExistsForRecipientSince(ctx, senderID, recipientID, action, now.Add(-actionCooldown))
	if err != nil {
		return err
	}
	if alreadySent {
		return ErrActionAlreadySent
	}

	interaction := &domain.UserInteraction{
		SenderID:    senderID,
		RecipientID: recipientID,
		ActionType:  action,
		CreatedAt:   now,
	}
	if _, err := s.interactions.Create(ctx, interaction); err != nil {
		return fmt.Errorf("record %s: %w", action, err)
	}

	// Tallies are display-only; a failed bump shouldn't fail the action.
	_ = s.users.IncrementInteractionCount(ctx, recipientID, action)

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil
	}

	notification := notify.Notification{
		Recipient: recipientID,
		Sender:    &senderID,
	}
	if action == domain.ActionNudge {
		notification.Type = domain.NotificationNudge
		notification.Title = "You've Been Nudged!"
		notification.Message = fmt.Sprintf(nudgeMessages[rand.Intn(len(nudgeMessages))], displayName(sender))
	} else {
		notification.Type = domain.NotificationSpot
		notification.Title = "Spotted!"
		notification.Message = fmt.Sprintf("%s is spotting you. Nice work out there!", displayName(sender))
	}
	s.notifier.Notify(ctx, notification)

	return nil
}
