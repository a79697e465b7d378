package api

import (
	"alcyxob/gymbuddy-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LogHandler holds the voice-log ingestion dependencies.
type LogHandler struct {
	ingestService service.IngestService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(ingestService service.IngestService) *LogHandler {
	return &LogHandler{ingestService: ingestService}
}

type IngestRequest struct {
	Text string `json:"text" binding:"required"`
	// ReceivedAt optionally backdates the log, RFC 3339.
	ReceivedAt *time.Time `json:"receivedAt"`
}

type IngestResponse struct {
	Comment string `json:"comment"`
}

// Ingest godoc
// @Summary Ingest a transcribed voice log
// @Description Runs the text through the activity extractor, then applies metric updates, workout creation or consolidation as appropriate. Returns the extractor's conversational comment.
// @Tags Logs
// @Accept json
// @Produce json
// @Param log body IngestRequest true "Transcribed text"
// @Success 200 {object} IngestResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 502 {object} gin.H "Extractor unavailable"
// @Router /logs/voice [post]
func (h *LogHandler) Ingest(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	comment, err := h.ingestService.IngestText(c.Request.Context(), userID, req.Text, req.ReceivedAt)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Could not process the voice log right now")
		return
	}

	c.JSON(http.StatusOK, IngestResponse{Comment: comment})
}
