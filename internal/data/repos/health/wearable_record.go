package health

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type WearableRecordRepo interface {
	Insert(dbc dbctx.Context, row *types.WearableRecord) error
	GetByUserAndRecordedAt(dbc dbctx.Context, userID uuid.UUID, recordedAt time.Time) (*types.WearableRecord, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.WearableRecord, error)
	ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.WearableRecord, error)
	MinMaxRecordedAt(dbc dbctx.Context, userID uuid.UUID) (*time.Time, *time.Time, error)
}

type wearableRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWearableRecordRepo(db *gorm.DB, baseLog *logger.Logger) WearableRecordRepo {
	return &wearableRecordRepo{db: db, log: baseLog.With("repo", "WearableRecordRepo")}
}

func (r *wearableRecordRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *wearableRecordRepo) Insert(dbc dbctx.Context, row *types.WearableRecord) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *wearableRecordRepo) GetByUserAndRecordedAt(dbc dbctx.Context, userID uuid.UUID, recordedAt time.Time) (*types.WearableRecord, error) {
	var row types.WearableRecord
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND recorded_at = ?", userID, recordedAt).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *wearableRecordRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WearableRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *wearableRecordRepo) ListByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.WearableRecord, error) {
	out := []*types.WearableRecord{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, from, to).
		Order("recorded_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wearableRecordRepo) ListRecentByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.WearableRecord, error) {
	out := []*types.WearableRecord{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wearableRecordRepo) MinMaxRecordedAt(dbc dbctx.Context, userID uuid.UUID) (*time.Time, *time.Time, error) {
	if userID == uuid.Nil {
		return nil, nil, nil
	}
	var bounds struct {
		Min *time.Time
		Max *time.Time
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WearableRecord{}).
		Select("MIN(recorded_at) AS min, MAX(recorded_at) AS max").
		Where("user_id = ?", userID).
		Scan(&bounds).Error; err != nil {
		return nil, nil, err
	}
	return bounds.Min, bounds.Max, nil
}
