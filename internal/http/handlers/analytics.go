package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/auratrack-backend/internal/platform/logger"
	"github.com/yungbote/auratrack-backend/internal/requestdata"
	"github.com/yungbote/auratrack-backend/internal/services"
)

type AnalyticsHandler struct {
	log     *logger.Logger
	service services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, service services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{log: log.With("handler", "AnalyticsHandler"), service: service}
}

func (h *AnalyticsHandler) ProcessDaily(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	result, err := h.service.ProcessDaily(c.Request.Context(), userID, force)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "process_failed", err)
		return
	}
	RespondOK(c, result)
}

// ListDailySummaries accepts optional from/to date query params
// (YYYY-MM-DD); the default window is the last 30 days.
func (h *AnalyticsHandler) ListDailySummaries(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if raw := c.Query("from"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	summaries, err := h.service.ListDailySummaries(c.Request.Context(), userID, from, to)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"summaries": summaries})
}

func (h *AnalyticsHandler) ListPatterns(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	patterns, err := h.service.ListPatterns(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"patterns": patterns})
}
