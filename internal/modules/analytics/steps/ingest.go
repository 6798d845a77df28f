package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/data/repos"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/modules/analytics/csvparse"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

// maxErrorDetails caps how many per-row errors are persisted on the session.
const maxErrorDetails = 20

type IngestDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Sessions repos.UploadSessionRepo
	Records  repos.WearableRecordRepo
}

type IngestInput struct {
	UserID   uuid.UUID
	Parsed   *csvparse.Result
	Filename string
	ByteSize int64
}

type rowErrorDetail struct {
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// metricColumns maps canonical fields to wearable_record columns, in the
// order updates are applied.
var metricColumns = map[string]string{
	csvparse.FieldStress:          "stress",
	csvparse.FieldRecovery:        "recovery",
	csvparse.FieldHeartRate:       "heart_rate",
	csvparse.FieldHRV:             "hrv",
	csvparse.FieldSleepEfficiency: "sleep_efficiency",
	csvparse.FieldSleepHeartRate:  "sleep_heart_rate",
	csvparse.FieldSkinTemperature: "skin_temperature",
	csvparse.FieldRestlessPeriods: "restless_periods",
}

// IngestCSV persists parsed rows under a new upload session. Rows are applied
// in file order; a row for an instant already written by a different session
// updates only the fields this row supplies. Row-level failures never abort
// the session. Counters always satisfy
// inserted + updated + skipped + errors == total.
func IngestCSV(ctx context.Context, deps IngestDeps, in IngestInput) (*types.UploadSession, error) {
	if deps.Log == nil || deps.Sessions == nil || deps.Records == nil {
		return nil, fmt.Errorf("ingest_csv: missing deps")
	}
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("ingest_csv: missing user_id")
	}
	if in.Parsed == nil {
		return nil, fmt.Errorf("ingest_csv: missing parse result")
	}
	log := deps.Log.With("step", "IngestCSV", "user_id", in.UserID)
	dbc := dbctx.Context{Ctx: ctx}

	totalRows := len(in.Parsed.Rows) + len(in.Parsed.RowErrors)
	session := &types.UploadSession{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Filename:  in.Filename,
		ByteSize:  in.ByteSize,
		Source:    in.Parsed.Source,
		TotalRows: totalRows,
		Status:    types.UploadStatusProcessing,
	}
	if raw, err := json.Marshal(in.Parsed.FieldMapping); err == nil {
		session.FieldMapping = datatypes.JSON(raw)
	}
	if len(in.Parsed.UnrecognizedFields) > 0 {
		if raw, err := json.Marshal(in.Parsed.UnrecognizedFields); err == nil {
			session.UnrecognizedFields = datatypes.JSON(raw)
		}
	}
	if err := deps.Sessions.Create(dbc, session); err != nil {
		return nil, fmt.Errorf("ingest_csv: create session: %w", err)
	}

	var (
		inserted, updated, skipped int
		errorDetails               []rowErrorDetail
		errorCount                 int
		dataStart                  *time.Time
	)

	// Timestamp-less rows dropped by the parser count as errors here.
	for _, re := range in.Parsed.RowErrors {
		errorCount++
		if len(errorDetails) < maxErrorDetails {
			errorDetails = append(errorDetails, rowErrorDetail{Timestamp: "", Error: re.Err})
		}
	}

	for _, row := range in.Parsed.Rows {
		ts := row.Timestamp.Truncate(time.Minute)
		if dataStart == nil || ts.Before(*dataStart) {
			t := ts
			dataStart = &t
		}

		existing, err := deps.Records.GetByUserAndRecordedAt(dbc, in.UserID, ts)
		if err != nil {
			errorCount++
			if len(errorDetails) < maxErrorDetails {
				errorDetails = append(errorDetails, rowErrorDetail{Timestamp: ts.Format(time.RFC3339), Error: err.Error()})
			}
			continue
		}

		switch {
		case existing == nil:
			record := recordFromRow(in.UserID, session.ID, in.Parsed.Source, ts, row)
			err := deps.Records.Insert(dbc, record)
			switch {
			case err == nil:
				inserted++
			case repos.IsUniqueViolation(err, ""):
				// Lost a race with a concurrent session for the same instant.
				skipped++
			default:
				errorCount++
				if len(errorDetails) < maxErrorDetails {
					errorDetails = append(errorDetails, rowErrorDetail{Timestamp: ts.Format(time.RFC3339), Error: err.Error()})
				}
			}

		case existing.UploadSessionID == session.ID:
			// Duplicate timestamp within this file.
			skipped++

		default:
			updates := updatesFromRow(session.ID, in.Parsed.Source, row)
			if err := deps.Records.UpdateFields(dbc, existing.ID, updates); err != nil {
				errorCount++
				if len(errorDetails) < maxErrorDetails {
					errorDetails = append(errorDetails, rowErrorDetail{Timestamp: ts.Format(time.RFC3339), Error: err.Error()})
				}
				continue
			}
			updated++
		}
	}

	session.InsertedRows = inserted
	session.UpdatedRows = updated
	session.SkippedRows = skipped
	session.ErrorRows = errorCount
	session.DataStartAt = dataStart
	if len(errorDetails) > 0 {
		if raw, err := json.Marshal(errorDetails); err == nil {
			session.ErrorDetails = datatypes.JSON(raw)
		}
	}
	switch {
	case totalRows > 0 && errorCount == totalRows:
		session.Status = types.UploadStatusFailed
	case errorCount > 0:
		session.Status = types.UploadStatusPartial
	default:
		session.Status = types.UploadStatusCompleted
	}

	if err := deps.Sessions.Save(dbc, session); err != nil {
		return nil, fmt.Errorf("ingest_csv: finalize session: %w", err)
	}

	log.Info("csv ingested",
		"session_id", session.ID,
		"total", totalRows,
		"inserted", inserted,
		"updated", updated,
		"skipped", skipped,
		"errors", errorCount,
		"source", session.Source,
	)
	return session, nil
}

func recordFromRow(userID, sessionID uuid.UUID, source string, ts time.Time, row csvparse.Row) *types.WearableRecord {
	record := &types.WearableRecord{
		ID:              uuid.New(),
		UserID:          userID,
		RecordedAt:      ts,
		Source:          source,
		UploadSessionID: sessionID,
	}
	for field, val := range row.Values {
		v := val
		switch field {
		case csvparse.FieldStress:
			record.Stress = &v
		case csvparse.FieldRecovery:
			record.Recovery = &v
		case csvparse.FieldHeartRate:
			record.HeartRate = &v
		case csvparse.FieldHRV:
			record.HRV = &v
		case csvparse.FieldSleepEfficiency:
			record.SleepEfficiency = &v
		case csvparse.FieldSleepHeartRate:
			record.SleepHeartRate = &v
		case csvparse.FieldSkinTemperature:
			record.SkinTemperature = &v
		case csvparse.FieldRestlessPeriods:
			record.RestlessPeriods = &v
		}
	}
	if len(row.Additional) > 0 {
		if raw, err := json.Marshal(row.Additional); err == nil {
			record.AdditionalData = datatypes.JSON(raw)
		}
	}
	return record
}

// updatesFromRow builds the sparse update for a cross-session duplicate:
// only fields the row supplies are written, and the record is re-stamped
// with the current session.
func updatesFromRow(sessionID uuid.UUID, source string, row csvparse.Row) map[string]interface{} {
	updates := map[string]interface{}{
		"upload_session_id": sessionID,
		"source":            source,
	}
	for field, val := range row.Values {
		if col, ok := metricColumns[field]; ok {
			updates[col] = val
		}
	}
	if len(row.Additional) > 0 {
		if raw, err := json.Marshal(row.Additional); err == nil {
			updates["additional_data"] = datatypes.JSON(raw)
		}
	}
	return updates
}
