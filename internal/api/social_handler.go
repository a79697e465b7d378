package api

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialHandler holds the social graph service dependency.
type SocialHandler struct {
	socialService service.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

type FriendRequestRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accept reject"`
}

type CloseFriendRequest struct {
	Add bool `json:"add"`
}

type ActionRequest struct {
	UserID string `json:"userId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=nudge spot"`
}

// SendFriendRequest creates (or idempotently returns) a friendship row.
func (h *SocialHandler) SendFriendRequest(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req FriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	addresseeID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}
	if addresseeID == userID {
		abortWithError(c, http.StatusBadRequest, "Cannot befriend yourself")
		return
	}

	friendship, err := h.socialService.SendFriendRequest(c.Request.Context(), userID, addresseeID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to send friend request")
		return
	}

	c.JSON(http.StatusOK, friendship)
}

// RespondToFriendRequest accepts or rejects a pending request.
func (h *SocialHandler) RespondToFriendRequest(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	friendshipID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid friendship ID format")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	friendship, err := h.socialService.RespondToFriendRequest(c.Request.Context(), userID, friendshipID, req.Action == "accept")
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to respond to friend request")
		return
	}
	if friendship == nil && req.Action == "accept" {
		abortWithError(c, http.StatusNotFound, "Friend request not found")
		return
	}
	if friendship == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, friendship)
}

// RemoveFriend dissolves an accepted friendship.
func (h *SocialHandler) RemoveFriend(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	friendID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	removed, err := h.socialService.RemoveFriend(c.Request.Context(), userID, friendID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to remove friend")
		return
	}
	if !removed {
		abortWithError(c, http.StatusNotFound, "No accepted friendship with this user")
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleCloseFriend marks or unmarks a friend as close.
func (h *SocialHandler) ToggleCloseFriend(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	friendID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req CloseFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.socialService.ToggleCloseFriend(c.Request.Context(), userID, friendID, req.Add); err != nil {
		if errors.Is(err, service.ErrNotFriends) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update close friends")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFriends returns accepted friends with the caller's close-friend flags.
func (h *SocialHandler) ListFriends(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	friends, err := h.socialService.Friends(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list friends")
		return
	}

	c.JSON(http.StatusOK, friends)
}

// ListPendingRequests returns incoming friend requests.
func (h *SocialHandler) ListPendingRequests(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	pending, err := h.socialService.PendingRequests(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pending requests")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// SearchUsers finds users by name or email fragment.
func (h *SocialHandler) SearchUsers(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	query := c.Query("q")
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	users, err := h.socialService.SearchUsers(c.Request.Context(), query, userID, queryLimit(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to search users")
		return
	}

	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, results)
}

// PerformAction sends a rate-limited nudge or spot to another user.
func (h *SocialHandler) PerformAction(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	err = h.socialService.PerformAction(c.Request.Context(), userID, recipientID, domain.InteractionAction(req.Action))
	if err != nil {
		if errors.Is(err, service.ErrActionLimitReached) || errors.Is(err, service.ErrActionAlreadySent) {
			abortWithError(c, http.StatusTooManyRequests, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to perform action")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
