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

type CorrelationPatternRepo interface {
	Upsert(dbc dbctx.Context, row *types.CorrelationPattern) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CorrelationPattern, error)
}

type correlationPatternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCorrelationPatternRepo(db *gorm.DB, baseLog *logger.Logger) CorrelationPatternRepo {
	return &correlationPatternRepo{db: db, log: baseLog.With("repo", "CorrelationPatternRepo")}
}

func (r *correlationPatternRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *correlationPatternRepo) Upsert(dbc dbctx.Context, row *types.CorrelationPattern) error {
	if row == nil || row.UserID == uuid.Nil || row.PatternType == "" {
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
				{Name: "pattern_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"pattern_name", "metric", "operator", "threshold_value",
				"correlation_strength", "confidence_score",
				"migraine_days_count", "total_days_analyzed",
				"avg_value_on_migraine_days", "avg_value_on_normal_days",
				"last_updated_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *correlationPatternRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.CorrelationPattern, error) {
	out := []*types.CorrelationPattern{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("pattern_type ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
