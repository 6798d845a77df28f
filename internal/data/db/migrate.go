package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/auratrack-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(

		// Identity
		&types.User{},
		&types.MigraineProfile{},

		// Labels (written by the calendar CRUD surface)
		&types.MigraineDay{},

		// Ingestion
		&types.UploadSession{},
		&types.WearableRecord{},

		// Derived analytics
		&types.DailySummary{},
		&types.CorrelationPattern{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// FK creation is disabled during migration; deleting an upload session
	// must still cascade to the records it stamped.
	if err := db.Exec(`
		ALTER TABLE "wearable_record"
		DROP CONSTRAINT IF EXISTS "fk_wearable_record_upload_session_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to reset fk_wearable_record_upload_session_id: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE "wearable_record"
		ADD CONSTRAINT "fk_wearable_record_upload_session_id"
		FOREIGN KEY ("upload_session_id")
		REFERENCES "upload_session"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_wearable_record_upload_session_id: %w", err)
	}
	return nil
}
