package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/repository"
	"alcyxob/gymbuddy-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownMetric means the metric field is not one of the tracked five.
	ErrUnknownMetric = errors.New("unknown metric field")
)

const presignedURLExpiry = 15 * time.Minute

// AvatarUpload carries the presigned upload URL and the object key the
// client must PUT to.
type AvatarUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// UserService owns profile reads/patches, the append-only metric histories
// and progress-photo storage.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// UpdateProfile applies a sparse patch and marks the user onboarded.
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error)
	// AppendMetric appends one dated value to a tracked metric history.
	// Pure append: no dedup, no sort.
	AppendMetric(ctx context.Context, userID primitive.ObjectID, field domain.MetricField, value float64, date time.Time) (*domain.User, error)
	// RequestAvatarUpload mints a presigned PUT URL for a new progress photo
	// and records its key on the user.
	RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error)
	// AvatarURL returns a presigned GET URL for the user's current avatar,
	// or "" when none is set.
	AvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type userService struct {
	users  repository.UserRepository
	photos storage.PhotoStorage
}

// NewUserService creates a new instance of userService.
func NewUserService(users repository.UserRepository, photos storage.PhotoStorage) UserService {
	return &userService{
		users:  users,
		photos: photos,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error) {
	if err := s.users.ApplyProfilePatch(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) AppendMetric(ctx context.Context, userID primitive.ObjectID, field domain.MetricField, value float64, date time.Time) (*domain.User, error) {
	if !domain.IsTrackedMetric(field) {
		return nil, ErrUnknownMetric
	}

	entry := domain.MetricEntry{
		Date:  date.UTC().Format("2006-01-02"),
		Value: value,
	}
	if err := s.users.AppendMetric(ctx, userID, field, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("append %s metric: %w", field, err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error) {
	objectKey := fmt.Sprintf("avatars/%s/%s", userID.Hex(), uuid.NewString())
	uploadURL, err := s.photos.PresignUpload(ctx, objectKey, contentType, presignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign avatar upload: %w", err)
	}
	if err := s.users.SetAvatarKey(ctx, userID, objectKey); err != nil {
		return nil, err
	}
	return &AvatarUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *userService) AvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.AvatarKey == "" {
		return "", nil
	}
	return s.photos.PresignDownload(ctx, user.AvatarKey, presignedURLExpiry)
}
