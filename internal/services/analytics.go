package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/clients/redis"
	"github.com/yungbote/auratrack-backend/internal/data/repos"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/modules/analytics/steps"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// ProcessDailyResult is what the process-daily endpoint returns.
type ProcessDailyResult struct {
	Processed          int                         `json:"processed"`
	Errors             int                         `json:"errors"`
	Skipped            bool                        `json:"skipped"`
	Patterns           []*types.CorrelationPattern `json:"patterns,omitempty"`
	CorrelationMessage string                      `json:"correlation_message,omitempty"`
	CorrelationFailure string                      `json:"correlation_failure,omitempty"`
}

type AnalyticsService interface {
	ProcessDaily(ctx context.Context, userID uuid.UUID, force bool) (*ProcessDailyResult, error)
	ListDailySummaries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailySummary, error)
	ListPatterns(ctx context.Context, userID uuid.UUID) ([]*types.CorrelationPattern, error)
}

type analyticsService struct {
	db        *gorm.DB
	log       *logger.Logger
	records   repos.WearableRecordRepo
	summaries repos.DailySummaryRepo
	markers   repos.MigraineDayRepo
	patterns  repos.CorrelationPatternRepo
	freshness redis.FreshnessGate
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	records repos.WearableRecordRepo,
	summaries repos.DailySummaryRepo,
	markers repos.MigraineDayRepo,
	patterns repos.CorrelationPatternRepo,
	freshness redis.FreshnessGate,
) AnalyticsService {
	return &analyticsService{
		db:        db,
		log:       log.With("service", "AnalyticsService"),
		records:   records,
		summaries: summaries,
		markers:   markers,
		patterns:  patterns,
		freshness: freshness,
	}
}

// ProcessDaily runs the rollup unless the freshness gate says a recent run
// already covered this user. force bypasses the gate and reprocesses the
// whole lookback window.
func (s *analyticsService) ProcessDaily(ctx context.Context, userID uuid.UUID, force bool) (*ProcessDailyResult, error) {
	if !force && s.freshness != nil && s.freshness.IsFresh(ctx, userID) {
		s.log.Debug("rollup skipped, summaries fresh", "user_id", userID)
		return &ProcessDailyResult{Skipped: true}, nil
	}

	out, err := steps.ProcessDailySummaries(ctx, steps.DailySummaryDeps{
		DB:        s.db,
		Log:       s.log,
		Records:   s.records,
		Summaries: s.summaries,
		Markers:   s.markers,
		Patterns:  s.patterns,
	}, steps.DailySummaryInput{UserID: userID, Force: force})
	if err != nil {
		return nil, err
	}

	if s.freshness != nil {
		s.freshness.MarkProcessed(ctx, userID)
	}

	result := &ProcessDailyResult{
		Processed:          out.Processed,
		Errors:             out.Errors,
		CorrelationFailure: out.CorrelationFailure,
	}
	if out.Correlation != nil {
		result.Patterns = out.Correlation.Patterns
		result.CorrelationMessage = out.Correlation.Message
	}
	return result, nil
}

func (s *analyticsService) ListDailySummaries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailySummary, error) {
	return s.summaries.ListByUserInRange(dbctx.Context{Ctx: ctx}, userID, from, to)
}

func (s *analyticsService) ListPatterns(ctx context.Context, userID uuid.UUID) ([]*types.CorrelationPattern, error) {
	return s.patterns.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}
