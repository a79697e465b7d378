package api

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler holds the notification service dependency.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	skip, _ := strconv.ParseInt(c.Query("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID, queryLimit(c), skip)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead flips one notification's read flag.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}
	if notification == nil {
		abortWithError(c, http.StatusNotFound, "Notification not found")
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllRead flips all of the caller's notifications to read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}

	c.Status(http.StatusNoContent)
}
