package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/clients/redis"
	"github.com/yungbote/auratrack-backend/internal/data/repos"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/modules/analytics/csvparse"
	"github.com/yungbote/auratrack-backend/internal/modules/analytics/steps"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/envutil"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// ErrUploadTooLarge is returned before any parsing happens.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// ErrUnparseable wraps file-level CSV failures for the transport layer.
var ErrUnparseable = errors.New("file could not be parsed")

type WearableService interface {
	IngestCSV(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*types.UploadSession, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.WearableRecord, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.UploadSession, error)
	DeleteSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error
}

type wearableService struct {
	db        *gorm.DB
	log       *logger.Logger
	sessions  repos.UploadSessionRepo
	records   repos.WearableRecordRepo
	freshness redis.FreshnessGate
	maxBytes  int64
}

func NewWearableService(
	db *gorm.DB,
	log *logger.Logger,
	sessions repos.UploadSessionRepo,
	records repos.WearableRecordRepo,
	freshness redis.FreshnessGate,
) WearableService {
	return &wearableService{
		db:        db,
		log:       log.With("service", "WearableService"),
		sessions:  sessions,
		records:   records,
		freshness: freshness,
		maxBytes:  envutil.Int64("MAX_UPLOAD_BYTES", 10*1024*1024),
	}
}

func (s *wearableService) IngestCSV(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*types.UploadSession, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrUploadTooLarge, len(data), s.maxBytes)
	}

	parsed, err := csvparse.Parse(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	session, err := steps.IngestCSV(ctx, steps.IngestDeps{
		DB:       s.db,
		Log:      s.log,
		Sessions: s.sessions,
		Records:  s.records,
	}, steps.IngestInput{
		UserID:   userID,
		Parsed:   parsed,
		Filename: filename,
		ByteSize: int64(len(data)),
	})
	if err != nil {
		return nil, err
	}

	// New raw data invalidates the summary cache so the next rollup runs.
	if s.freshness != nil && (session.InsertedRows > 0 || session.UpdatedRows > 0) {
		s.freshness.Invalidate(ctx, userID)
	}
	return session, nil
}

func (s *wearableService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.WearableRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.records.ListRecentByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *wearableService) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.UploadSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.sessions.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *wearableService) DeleteSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	session, err := s.sessions.GetByID(dbc, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	// Records cascade via the upload-session FK.
	if err := s.sessions.DeleteByID(dbc, userID, sessionID); err != nil {
		return err
	}
	if s.freshness != nil {
		s.freshness.Invalidate(ctx, userID)
	}
	return nil
}
