package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/platform/logger"
	"github.com/yungbote/auratrack-backend/internal/requestdata"
	"github.com/yungbote/auratrack-backend/internal/services"
)

type WearableHandler struct {
	log     *logger.Logger
	service services.WearableService
}

func NewWearableHandler(log *logger.Logger, service services.WearableService) *WearableHandler {
	return &WearableHandler{log: log.With("handler", "WearableHandler"), service: service}
}

// Upload accepts a multipart CSV file under the "file" field.
func (h *WearableHandler) Upload(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("multipart field 'file' required"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	session, err := h.service.IngestCSV(c.Request.Context(), userID, data, fileHeader.Filename)
	switch {
	case errors.Is(err, services.ErrUploadTooLarge):
		RespondError(c, http.StatusRequestEntityTooLarge, "upload_too_large", err)
		return
	case errors.Is(err, services.ErrUnparseable):
		RespondError(c, http.StatusUnprocessableEntity, "unparseable_file", err)
		return
	case err != nil:
		RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}
	RespondOK(c, session)
}

func (h *WearableHandler) ListRecords(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	records, err := h.service.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"records": records})
}

func (h *WearableHandler) ListSessions(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sessions, err := h.service.ListSessions(c.Request.Context(), userID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

func (h *WearableHandler) DeleteSession(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_session_id", err)
		return
	}
	if err := h.service.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": sessionID})
}
