package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// Wearable source tags detected during CSV ingestion.
const (
	SourceOura         = "oura"
	SourceFitbit       = "fitbit"
	SourceGarmin       = "garmin"
	SourceAppleWatch   = "apple_watch"
	SourceManualUpload = "manual_upload"
)

// WearableRecord is one ingested hourly sample. (user_id, recorded_at) is
// unique; later uploads for the same instant update the existing row.
type WearableRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_wearable_user_recorded,unique" json:"user_id"`
	User       *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RecordedAt time.Time  `gorm:"column:recorded_at;not null;index:idx_wearable_user_recorded,unique" json:"recorded_at"`

	Stress          *float64 `gorm:"column:stress" json:"stress,omitempty"`
	Recovery        *float64 `gorm:"column:recovery" json:"recovery,omitempty"`
	HeartRate       *float64 `gorm:"column:heart_rate" json:"heart_rate,omitempty"`
	HRV             *float64 `gorm:"column:hrv" json:"hrv,omitempty"`
	SleepEfficiency *float64 `gorm:"column:sleep_efficiency" json:"sleep_efficiency,omitempty"`
	SleepHeartRate  *float64 `gorm:"column:sleep_heart_rate" json:"sleep_heart_rate,omitempty"`
	SkinTemperature *float64 `gorm:"column:skin_temperature" json:"skin_temperature,omitempty"`
	RestlessPeriods *float64 `gorm:"column:restless_periods" json:"restless_periods,omitempty"`

	AdditionalData datatypes.JSON `gorm:"type:jsonb;column:additional_data" json:"additional_data,omitempty"`
	Source         string         `gorm:"column:source;not null;default:'manual_upload'" json:"source"`

	UploadSessionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"upload_session_id"`
	UploadSession   *UploadSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:UploadSessionID;references:ID" json:"upload_session,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (WearableRecord) TableName() string { return "wearable_record" }
