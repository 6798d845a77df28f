package health

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/auratrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
)

func TestDailySummaryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewDailySummaryRepo(db, testutil.Logger(t))

	userID := uuid.New()
	day1 := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	mk := func(start time.Time, wellness float64) *types.DailySummary {
		return &types.DailySummary{
			UserID:               userID,
			PeriodStart:          start,
			PeriodEnd:            start.Add(24*time.Hour - time.Nanosecond),
			AvgStress:            ptrFloat(33),
			OverallWellnessScore: wellness,
			DataPointsCount:      12,
			ProcessedAt:          time.Now().UTC(),
		}
	}

	if err := repo.Upsert(dbc, mk(day1, 70)); err != nil {
		t.Fatalf("Upsert day1: %v", err)
	}
	if err := repo.Upsert(dbc, mk(day2, 55)); err != nil {
		t.Fatalf("Upsert day2: %v", err)
	}

	// Re-upserting the same period replaces, never duplicates.
	if err := repo.Upsert(dbc, mk(day1, 40)); err != nil {
		t.Fatalf("Upsert day1 again: %v", err)
	}

	rows, err := repo.ListByUserInRange(dbc, userID, day1, day2.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListByUserInRange: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListByUserInRange: got %d rows, want 2", len(rows))
	}
	if rows[0].OverallWellnessScore != 40 {
		t.Fatalf("day1 wellness after re-upsert = %v, want 40", rows[0].OverallWellnessScore)
	}

	maxEnd, err := repo.MaxPeriodEnd(dbc, userID)
	if err != nil {
		t.Fatalf("MaxPeriodEnd: %v", err)
	}
	if maxEnd == nil || maxEnd.Before(day2) {
		t.Fatalf("MaxPeriodEnd = %v, want >= %v", maxEnd, day2)
	}

	none, err := repo.MaxPeriodEnd(dbc, uuid.New())
	if err != nil {
		t.Fatalf("MaxPeriodEnd empty: %v", err)
	}
	if none != nil {
		t.Fatalf("MaxPeriodEnd empty: got %v", none)
	}

	if err := repo.DeleteByUserInRange(dbc, userID, day1, day2.Add(24*time.Hour)); err != nil {
		t.Fatalf("DeleteByUserInRange: %v", err)
	}
	rows, err = repo.ListByUserInRange(dbc, userID, day1, day2.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListByUserInRange after delete: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("ListByUserInRange after delete: got %d rows", len(rows))
	}
}
