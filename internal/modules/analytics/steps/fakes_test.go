package steps

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

func dbcEmpty() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func testLogger() *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	return log
}

// fakeRecordRepo is an in-memory WearableRecordRepo with the same uniqueness
// semantics as the real table.
type fakeRecordRepo struct {
	rows      map[uuid.UUID]*types.WearableRecord
	insertErr error // next Insert returns this once
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{rows: map[uuid.UUID]*types.WearableRecord{}}
}

func (f *fakeRecordRepo) Insert(_ dbctx.Context, row *types.WearableRecord) error {
	if f.insertErr != nil {
		err := f.insertErr
		f.insertErr = nil
		return err
	}
	for _, r := range f.rows {
		if r.UserID == row.UserID && r.RecordedAt.Equal(row.RecordedAt) {
			return errors.New("duplicate key value violates unique constraint \"idx_wearable_user_recorded\"")
		}
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeRecordRepo) GetByUserAndRecordedAt(_ dbctx.Context, userID uuid.UUID, recordedAt time.Time) (*types.WearableRecord, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.RecordedAt.Equal(recordedAt) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	row, ok := f.rows[id]
	if !ok {
		return errors.New("record not found")
	}
	for col, val := range updates {
		switch col {
		case "upload_session_id":
			row.UploadSessionID = val.(uuid.UUID)
		case "source":
			row.Source = val.(string)
		case "stress":
			row.Stress = ptrOf(val)
		case "recovery":
			row.Recovery = ptrOf(val)
		case "heart_rate":
			row.HeartRate = ptrOf(val)
		case "hrv":
			row.HRV = ptrOf(val)
		case "sleep_efficiency":
			row.SleepEfficiency = ptrOf(val)
		case "sleep_heart_rate":
			row.SleepHeartRate = ptrOf(val)
		case "skin_temperature":
			row.SkinTemperature = ptrOf(val)
		case "restless_periods":
			row.RestlessPeriods = ptrOf(val)
		}
	}
	return nil
}

func ptrOf(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func (f *fakeRecordRepo) ListByUserInRange(_ dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.WearableRecord, error) {
	out := []*types.WearableRecord{}
	for _, r := range f.rows {
		if r.UserID == userID && !r.RecordedAt.Before(from) && !r.RecordedAt.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (f *fakeRecordRepo) ListRecentByUser(_ dbctx.Context, userID uuid.UUID, limit int) ([]*types.WearableRecord, error) {
	out := []*types.WearableRecord{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRecordRepo) MinMaxRecordedAt(_ dbctx.Context, userID uuid.UUID) (*time.Time, *time.Time, error) {
	var min, max *time.Time
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		t := r.RecordedAt
		if min == nil || t.Before(*min) {
			tc := t
			min = &tc
		}
		if max == nil || t.After(*max) {
			tc := t
			max = &tc
		}
	}
	return min, max, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*types.UploadSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*types.UploadSession{}}
}

func (f *fakeSessionRepo) Create(_ dbctx.Context, row *types.UploadSession) error {
	f.sessions[row.ID] = row
	return nil
}

func (f *fakeSessionRepo) Save(_ dbctx.Context, row *types.UploadSession) error {
	f.sessions[row.ID] = row
	return nil
}

func (f *fakeSessionRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.UploadSession, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) ListByUser(_ dbctx.Context, userID uuid.UUID, limit int) ([]*types.UploadSession, error) {
	out := []*types.UploadSession{}
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) DeleteByID(_ dbctx.Context, userID, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

type fakeMarkerRepo struct {
	days []*types.MigraineDay
}

func (f *fakeMarkerRepo) ListMarkedByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.MigraineDay, error) {
	out := []*types.MigraineDay{}
	for _, d := range f.days {
		if d.UserID == userID && d.IsMigraineDay {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeMarkerRepo) ListMarkedByUserInRange(_ dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.MigraineDay, error) {
	out := []*types.MigraineDay{}
	for _, d := range f.days {
		if d.UserID == userID && d.IsMigraineDay && !d.Day.Before(from) && !d.Day.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type summaryKey struct {
	user  uuid.UUID
	start time.Time
	end   time.Time
}

type fakeSummaryRepo struct {
	rows map[summaryKey]*types.DailySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: map[summaryKey]*types.DailySummary{}}
}

func (f *fakeSummaryRepo) Upsert(_ dbctx.Context, row *types.DailySummary) error {
	f.rows[summaryKey{row.UserID, row.PeriodStart, row.PeriodEnd}] = row
	return nil
}

func (f *fakeSummaryRepo) MaxPeriodEnd(_ dbctx.Context, userID uuid.UUID) (*time.Time, error) {
	var max *time.Time
	for k, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		t := k.end
		if max == nil || t.After(*max) {
			tc := t
			max = &tc
		}
	}
	return max, nil
}

func (f *fakeSummaryRepo) ListByUserInRange(_ dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.DailySummary, error) {
	out := []*types.DailySummary{}
	for _, r := range f.rows {
		if r.UserID == userID && !r.PeriodStart.Before(from) && !r.PeriodEnd.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out, nil
}

func (f *fakeSummaryRepo) DeleteByUserInRange(_ dbctx.Context, userID uuid.UUID, from, to time.Time) error {
	for k := range f.rows {
		if k.user == userID && !k.start.Before(from) && !k.end.After(to) {
			delete(f.rows, k)
		}
	}
	return nil
}

type fakePatternRepo struct {
	rows map[string]*types.CorrelationPattern // keyed by patternType
}

func newFakePatternRepo() *fakePatternRepo {
	return &fakePatternRepo{rows: map[string]*types.CorrelationPattern{}}
}

func (f *fakePatternRepo) Upsert(_ dbctx.Context, row *types.CorrelationPattern) error {
	f.rows[row.PatternType] = row
	return nil
}

func (f *fakePatternRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.CorrelationPattern, error) {
	out := []*types.CorrelationPattern{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatternType < out[j].PatternType })
	return out, nil
}
