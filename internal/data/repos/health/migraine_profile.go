package health

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type MigraineProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.MigraineProfile, error)
}

type migraineProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMigraineProfileRepo(db *gorm.DB, baseLog *logger.Logger) MigraineProfileRepo {
	return &migraineProfileRepo{db: db, log: baseLog.With("repo", "MigraineProfileRepo")}
}

func (r *migraineProfileRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *migraineProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.MigraineProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.MigraineProfile
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
