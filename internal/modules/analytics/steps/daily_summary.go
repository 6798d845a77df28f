package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/data/repos"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// rollupLookbackDays bounds the window when the user has no prior summaries
// or when a forced reprocess is requested.
const rollupLookbackDays = 30

type DailySummaryDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Records   repos.WearableRecordRepo
	Summaries repos.DailySummaryRepo
	Markers   repos.MigraineDayRepo
	Patterns  repos.CorrelationPatternRepo
}

type DailySummaryInput struct {
	UserID uuid.UUID
	Force  bool
	Now    time.Time // zero means time.Now()
}

type DailySummaryOutput struct {
	Processed          int
	Errors             int
	LastProcessedAt    *time.Time
	Correlation        *CorrelateOutput
	CorrelationFailure string
}

// ProcessDailySummaries rolls raw hourly records up into per-day indicator
// rows. The window starts the day after the newest stored summary; a forced
// run reprocesses the full lookback instead. Days with no records emit
// nothing, per-day failures are counted and the window continues. After the
// window the correlation engine runs; its failure is reported but never fails
// the rollup.
func ProcessDailySummaries(ctx context.Context, deps DailySummaryDeps, in DailySummaryInput) (*DailySummaryOutput, error) {
	if deps.Log == nil || deps.Records == nil || deps.Summaries == nil {
		return nil, fmt.Errorf("process_daily_summaries: missing deps")
	}
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("process_daily_summaries: missing user_id")
	}
	log := deps.Log.With("step", "ProcessDailySummaries", "user_id", in.UserID)
	dbc := dbctx.Context{Ctx: ctx}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := now.Location()
	today := dayStart(now, loc)

	windowStart := today.AddDate(0, 0, -rollupLookbackDays)
	if !in.Force {
		lastEnd, err := deps.Summaries.MaxPeriodEnd(dbc, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("process_daily_summaries: last period end: %w", err)
		}
		if lastEnd != nil {
			windowStart = dayStart(lastEnd.In(loc), loc).AddDate(0, 0, 1)
		}
	}

	out := &DailySummaryOutput{}
	processedAt := now.UTC()

	for day := windowStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		start := day
		end := dayEnd(day, loc)

		records, err := deps.Records.ListByUserInRange(dbc, in.UserID, start, end)
		if err != nil {
			out.Errors++
			log.Warn("day rollup failed", "day", start.Format("2006-01-02"), "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		agg := AggregateDay(records)
		summary := agg.toDailySummary(in.UserID, start, end, processedAt)
		if err := deps.Summaries.Upsert(dbc, summary); err != nil {
			out.Errors++
			log.Warn("day rollup failed", "day", start.Format("2006-01-02"), "error", err)
			continue
		}
		out.Processed++
		out.LastProcessedAt = &processedAt
	}

	log.Info("daily rollup finished",
		"window_start", windowStart.Format("2006-01-02"),
		"window_end", today.Format("2006-01-02"),
		"processed", out.Processed,
		"errors", out.Errors,
	)

	if deps.Markers != nil && deps.Patterns != nil {
		corr, err := Correlate(ctx, CorrelateDeps{
			DB:       deps.DB,
			Log:      deps.Log,
			Records:  deps.Records,
			Markers:  deps.Markers,
			Patterns: deps.Patterns,
		}, CorrelateInput{UserID: in.UserID, Loc: loc})
		if err != nil {
			out.CorrelationFailure = err.Error()
			log.Warn("correlation refresh failed", "error", err)
		} else {
			out.Correlation = corr
		}
	}

	return out, nil
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayEnd(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, loc)
}
