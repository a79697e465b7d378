package api

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"alcyxob/gymbuddy-app/internal/repository"
	"alcyxob/gymbuddy-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultListLimit = 50

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// CreateWorkout godoc
// @Summary Create a workout manually
// @Description Creates a workout from an explicit payload. The status is derived from the timestamp: future means planned.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body domain.WorkoutPatch true "Workout payload"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req domain.WorkoutPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.CreateManual(c.Request.Context(), userID, req)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts returns the caller's own workouts, newest first.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}

	c.JSON(http.StatusOK, workouts)
}

// GetWorkout returns one owned workout.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	workout, err := h.workoutService.Get(c.Request.Context(), workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load workout")
		}
		return
	}

	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Patch an owned workout
// @Description Sparse patch: absent scalar fields are untouched. A present sets/cardioSessions list (even empty) is a full replace-by-diff of the children.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param patch body domain.WorkoutPatch true "Workout patch"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found or not owned"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	var patch domain.WorkoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.Update(c.Request.Context(), workoutID, userID, patch)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		return
	}
	if workout == nil {
		// Missing and foreign ids look identical to the caller.
		abortWithError(c, http.StatusNotFound, "Workout not found")
		return
	}

	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout removes an owned workout and its children.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	deleted, err := h.workoutService.Delete(c.Request.Context(), workoutID, userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		return
	}
	if !deleted {
		abortWithError(c, http.StatusNotFound, "Workout not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFriendWorkouts returns another user's workouts visible to the caller.
func (h *WorkoutHandler) ListFriendWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	workouts, err := h.workoutService.VisibleWorkouts(c.Request.Context(), targetID, userID, queryLimit(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}

	c.JSON(http.StatusOK, workouts)
}

// queryLimit parses the optional ?limit= parameter.
func queryLimit(c *gin.Context) int64 {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}
