package service

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotoStorage struct {
	deleted []string
}

func (s *fakePhotoStorage) PresignUpload(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.example.com/upload/" + objectKey, nil
}

func (s *fakePhotoStorage) PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.example.com/get/" + objectKey, nil
}

func (s *fakePhotoStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func TestUpdateProfile_MarksOnboardedAndPatchesSparsely(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &fakePhotoStorage{})

	userID := users.add(&domain.User{Email: "user@example.com", FirstName: "Old", LastName: "Name"})

	updated, err := svc.UpdateProfile(context.Background(), userID, domain.ProfilePatch{
		FirstName: strPtr("New"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, "Name", updated.LastName, "absent fields stay put")
	assert.True(t, updated.IsOnboarded)
}

func TestAppendMetric_PureAppendInCallOrder(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &fakePhotoStorage{})
	userID := users.add(&domain.User{Email: "user@example.com"})

	day1 := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) // earlier date, appended later

	_, err := svc.AppendMetric(context.Background(), userID, domain.MetricWeight, 81, day1)
	require.NoError(t, err)
	user, err := svc.AppendMetric(context.Background(), userID, domain.MetricWeight, 80, day2)
	require.NoError(t, err)

	require.Len(t, user.Weight, 2)
	// Insertion order, not date order.
	assert.Equal(t, domain.MetricEntry{Date: "2025-06-10", Value: 81}, user.Weight[0])
	assert.Equal(t, domain.MetricEntry{Date: "2025-06-01", Value: 80}, user.Weight[1])
}

func TestAppendMetric_RejectsUnknownField(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &fakePhotoStorage{})
	userID := users.add(&domain.User{Email: "user@example.com"})

	_, err := svc.AppendMetric(context.Background(), userID, domain.MetricField("shoe_size"), 44, time.Now())
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestAvatarLifecycle(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &fakePhotoStorage{})
	userID := users.add(&domain.User{Email: "user@example.com"})

	// No avatar yet.
	url, err := svc.AvatarURL(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, url)

	upload, err := svc.RequestAvatarUpload(context.Background(), userID, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	url, err = svc.AvatarURL(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.ObjectKey)
}
