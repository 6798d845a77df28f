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

type UploadSessionRepo interface {
	Create(dbc dbctx.Context, row *types.UploadSession) error
	Save(dbc dbctx.Context, row *types.UploadSession) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UploadSession, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.UploadSession, error)
	DeleteByID(dbc dbctx.Context, userID, id uuid.UUID) error
}

type uploadSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadSessionRepo(db *gorm.DB, baseLog *logger.Logger) UploadSessionRepo {
	return &uploadSessionRepo{db: db, log: baseLog.With("repo", "UploadSessionRepo")}
}

func (r *uploadSessionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *uploadSessionRepo) Create(dbc dbctx.Context, row *types.UploadSession) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *uploadSessionRepo) Save(dbc dbctx.Context, row *types.UploadSession) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).Save(row).Error
}

func (r *uploadSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UploadSession, error) {
	var row types.UploadSession
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *uploadSessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.UploadSession, error) {
	out := []*types.UploadSession{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *uploadSessionRepo) DeleteByID(dbc dbctx.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&types.UploadSession{}).Error
}
