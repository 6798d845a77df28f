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

func TestWearableRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewWearableRecordRepo(db, testutil.Logger(t))

	userID := uuid.New()
	sessionID := uuid.New()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	first := &types.WearableRecord{
		ID:              uuid.New(),
		UserID:          userID,
		RecordedAt:      base,
		Stress:          ptrFloat(42),
		HeartRate:       ptrFloat(71),
		Source:          types.SourceOura,
		UploadSessionID: sessionID,
	}
	second := &types.WearableRecord{
		ID:              uuid.New(),
		UserID:          userID,
		RecordedAt:      base.Add(time.Hour),
		Recovery:        ptrFloat(65),
		Source:          types.SourceOura,
		UploadSessionID: sessionID,
	}
	if err := repo.Insert(dbc, first); err != nil {
		t.Fatalf("Insert first: %v", err)
	}
	if err := repo.Insert(dbc, second); err != nil {
		t.Fatalf("Insert second: %v", err)
	}

	got, err := repo.GetByUserAndRecordedAt(dbc, userID, base)
	if err != nil {
		t.Fatalf("GetByUserAndRecordedAt: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("GetByUserAndRecordedAt: expected %v got %v", first.ID, got)
	}
	if got.Stress == nil || *got.Stress != 42 {
		t.Fatalf("GetByUserAndRecordedAt: stress = %v", got.Stress)
	}

	missing, err := repo.GetByUserAndRecordedAt(dbc, userID, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("GetByUserAndRecordedAt miss: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByUserAndRecordedAt miss: expected nil, got %v", missing)
	}

	// Sparse update must add recovery without touching the stored stress.
	if err := repo.UpdateFields(dbc, first.ID, map[string]interface{}{
		"recovery": ptrFloat(58),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByUserAndRecordedAt(dbc, userID, base)
	if err != nil {
		t.Fatalf("reload after update: %v", err)
	}
	if got.Recovery == nil || *got.Recovery != 58 {
		t.Fatalf("recovery after update = %v", got.Recovery)
	}
	if got.Stress == nil || *got.Stress != 42 {
		t.Fatalf("stress clobbered by sparse update: %v", got.Stress)
	}

	rows, err := repo.ListByUserInRange(dbc, userID, base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ListByUserInRange: %v", err)
	}
	if len(rows) != 2 || !rows[0].RecordedAt.Before(rows[1].RecordedAt) {
		t.Fatalf("ListByUserInRange: got %d rows, want 2 ascending", len(rows))
	}

	recent, err := repo.ListRecentByUser(dbc, userID, 1)
	if err != nil {
		t.Fatalf("ListRecentByUser: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != second.ID {
		t.Fatalf("ListRecentByUser: expected newest row %v, got %v", second.ID, recent)
	}

	minAt, maxAt, err := repo.MinMaxRecordedAt(dbc, userID)
	if err != nil {
		t.Fatalf("MinMaxRecordedAt: %v", err)
	}
	if minAt == nil || maxAt == nil || !minAt.Equal(base) || !maxAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("MinMaxRecordedAt: got [%v, %v]", minAt, maxAt)
	}

	noneMin, noneMax, err := repo.MinMaxRecordedAt(dbc, uuid.New())
	if err != nil {
		t.Fatalf("MinMaxRecordedAt empty: %v", err)
	}
	if noneMin != nil || noneMax != nil {
		t.Fatalf("MinMaxRecordedAt empty: got [%v, %v]", noneMin, noneMax)
	}

	// Duplicate (user, recorded_at) must surface as a unique violation.
	// Last because the failed statement poisons the wrapping transaction.
	dup := &types.WearableRecord{
		ID:              uuid.New(),
		UserID:          userID,
		RecordedAt:      base,
		Stress:          ptrFloat(99),
		Source:          types.SourceOura,
		UploadSessionID: sessionID,
	}
	err = repo.Insert(dbc, dup)
	if err == nil {
		t.Fatal("Insert duplicate: expected unique violation")
	}
	if !IsUniqueViolation(err, "idx_wearable_user_recorded") {
		t.Fatalf("Insert duplicate: not a unique violation: %v", err)
	}
}

func ptrFloat(f float64) *float64 { return &f }
