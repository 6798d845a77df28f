package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type DailySummaryRepo interface {
	Upsert(dbc dbctx.Context, row *types.DailySummary) error
	MaxPeriodEnd(dbc dbctx.Context, userID uuid.UUID) (*time.Time, error)
	ListByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailySummary, error)
	DeleteByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) error
}

type dailySummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailySummaryRepo(db *gorm.DB, baseLog *logger.Logger) DailySummaryRepo {
	return &dailySummaryRepo{db: db, log: baseLog.With("repo", "DailySummaryRepo")}
}

func (r *dailySummaryRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *dailySummaryRepo) Upsert(dbc dbctx.Context, row *types.DailySummary) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "period_start"},
				{Name: "period_end"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"avg_stress", "max_stress", "stress_volatility", "stress_trend",
				"avg_recovery", "min_recovery", "recovery_trend",
				"avg_heart_rate", "resting_heart_rate", "max_heart_rate",
				"avg_hrv", "hrv_trend", "hrv_volatility",
				"avg_sleep_efficiency", "avg_sleep_heart_rate", "avg_restless_periods",
				"avg_skin_temperature", "skin_temperature_range",
				"overall_wellness_score", "risk_factors",
				"data_points_count", "processed_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *dailySummaryRepo) MaxPeriodEnd(dbc dbctx.Context, userID uuid.UUID) (*time.Time, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var result struct {
		Max *time.Time
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.DailySummary{}).
		Select("MAX(period_end) AS max").
		Where("user_id = ?", userID).
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return result.Max, nil
}

func (r *dailySummaryRepo) ListByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailySummary, error) {
	out := []*types.DailySummary{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND period_start >= ? AND period_end <= ?", userID, from, to).
		Order("period_start ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailySummaryRepo) DeleteByUserInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND period_start >= ? AND period_end <= ?", userID, from, to).
		Delete(&types.DailySummary{}).Error
}
