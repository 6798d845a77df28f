package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// MigraineDayRepo is read-only from the analytics core's point of view;
// markers are written by the calendar CRUD surface.
type MigraineDayRepo interface {
	ListMarkedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MigraineDay, error)
	ListMarkedByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.MigraineDay, error)
}

type migraineDayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMigraineDayRepo(db *gorm.DB, baseLog *logger.Logger) MigraineDayRepo {
	return &migraineDayRepo{db: db, log: baseLog.With("repo", "MigraineDayRepo")}
}

func (r *migraineDayRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *migraineDayRepo) ListMarkedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MigraineDay, error) {
	out := []*types.MigraineDay{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND is_migraine_day = ?", userID, true).
		Order("day ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *migraineDayRepo) ListMarkedByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.MigraineDay, error) {
	out := []*types.MigraineDay{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND is_migraine_day = ? AND day >= ? AND day <= ?", userID, true, from, to).
		Order("day ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
