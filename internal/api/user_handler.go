package api

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	PushToken *string `json:"pushToken"`
}

type AppendMetricRequest struct {
	Field string  `json:"field" binding:"required"`
	Value float64 `json:"value" binding:"required"`
	// Date is optional, ISO yyyy-mm-dd; defaults to today.
	Date string `json:"date"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ProfileResponse is the full own-profile view including metric histories.
type ProfileResponse struct {
	UserResponse
	Weight        []domain.MetricEntry `json:"weight,omitempty"`
	FatPercentage []domain.MetricEntry `json:"fatPercentage,omitempty"`
	Bench1RM      []domain.MetricEntry `json:"bench1rm,omitempty"`
	Squat1RM      []domain.MetricEntry `json:"squat1rm,omitempty"`
	Deadlift1RM   []domain.MetricEntry `json:"deadlift1rm,omitempty"`
}

func toProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		UserResponse:  toUserResponse(user),
		Weight:        user.Weight,
		FatPercentage: user.FatPercentage,
		Bench1RM:      user.Bench1RM,
		Squat1RM:      user.Squat1RM,
		Deadlift1RM:   user.Deadlift1RM,
	}
}

// GetMe returns the authenticated user's own profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		}
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateMe applies a sparse profile patch and marks the user onboarded.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, domain.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PushToken: req.PushToken,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

// AppendMetric godoc
// @Summary Append a value to one of the tracked metric histories
// @Tags User
// @Accept json
// @Produce json
// @Param metric body AppendMetricRequest true "Metric entry"
// @Success 200 {object} ProfileResponse "Updated profile"
// @Failure 400 {object} gin.H "Unknown metric field or bad input"
// @Router /users/me/metrics [post]
func (h *UserHandler) AppendMetric(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AppendMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Date must be formatted yyyy-mm-dd")
			return
		}
		date = parsed
	}

	user, err := h.userService.AppendMetric(c.Request.Context(), userID, domain.MetricField(req.Field), req.Value, date)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMetric) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to append metric")
		}
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

// RequestAvatarUpload mints a presigned upload URL for a new profile photo.
func (h *UserHandler) RequestAvatarUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.userService.RequestAvatarUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}

	c.JSON(http.StatusOK, upload)
}

// GetAvatarURL returns a short-lived download URL for the user's avatar.
func (h *UserHandler) GetAvatarURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	url, err := h.userService.AvatarURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create download URL")
		}
		return
	}
	if url == "" {
		abortWithError(c, http.StatusNotFound, "No avatar uploaded")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
