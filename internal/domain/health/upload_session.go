package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// Upload session lifecycle states.
const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusPartial    = "partial"
	UploadStatusFailed     = "failed"
)

// UploadSession is the receipt for one CSV ingestion. Deleting a session
// cascades to the wearable records it stamped.
// Invariant: inserted + updated + skipped + errors = total rows.
type UploadSession struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Filename string `gorm:"column:filename;not null" json:"filename"`
	ByteSize int64  `gorm:"column:byte_size;not null" json:"byte_size"`
	Source   string `gorm:"column:source;not null;default:'manual_upload'" json:"source"`

	TotalRows    int `gorm:"column:total_rows;not null;default:0" json:"total_rows"`
	InsertedRows int `gorm:"column:inserted_rows;not null;default:0" json:"inserted_rows"`
	UpdatedRows  int `gorm:"column:updated_rows;not null;default:0" json:"updated_rows"`
	SkippedRows  int `gorm:"column:skipped_rows;not null;default:0" json:"skipped_rows"`
	ErrorRows    int `gorm:"column:error_rows;not null;default:0" json:"error_rows"`

	FieldMapping       datatypes.JSON `gorm:"type:jsonb;column:field_mapping" json:"field_mapping,omitempty"`
	UnrecognizedFields datatypes.JSON `gorm:"type:jsonb;column:unrecognized_fields" json:"unrecognized_fields,omitempty"`
	ErrorDetails       datatypes.JSON `gorm:"type:jsonb;column:error_details" json:"error_details,omitempty"`

	Status      string     `gorm:"column:status;not null;default:'processing';index" json:"status"`
	DataStartAt *time.Time `gorm:"column:data_start_at" json:"data_start_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UploadSession) TableName() string { return "upload_session" }
