package push

import (
	"alcyxob/gymbuddy-app/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// repoTokenSource resolves device tokens from the user store.
type repoTokenSource struct {
	users repository.UserRepository
}

// NewRepoTokenSource adapts the user repository into a TokenSource.
func NewRepoTokenSource(users repository.UserRepository) TokenSource {
	return &repoTokenSource{users: users}
}

func (s *repoTokenSource) DeviceTokens(ctx context.Context, recipientIDs []string) (map[string]string, error) {
	ids := make([]primitive.ObjectID, 0, len(recipientIDs))
	for _, raw := range recipientIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	users, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	tokens := make(map[string]string, len(users))
	for _, u := range users {
		if u.PushToken != "" {
			tokens[u.ID.Hex()] = u.PushToken
		}
	}
	return tokens, nil
}
