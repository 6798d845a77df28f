package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// MigraineProfile is the user's self-reported migraine history, rendered
// into the risk-analysis prompt. Maintained by the profile CRUD surface.
type MigraineProfile struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	DiagnosedType        string   `gorm:"column:diagnosed_type" json:"diagnosed_type,omitempty"`
	MonthlyFrequency     *float64 `gorm:"column:monthly_frequency" json:"monthly_frequency,omitempty"`
	TypicalDurationHours *float64 `gorm:"column:typical_duration_hours" json:"typical_duration_hours,omitempty"`

	HasNausea           bool `gorm:"column:has_nausea;not null;default:false" json:"has_nausea"`
	HasVomiting         bool `gorm:"column:has_vomiting;not null;default:false" json:"has_vomiting"`
	HasLightSensitivity bool `gorm:"column:has_light_sensitivity;not null;default:false" json:"has_light_sensitivity"`
	HasSoundSensitivity bool `gorm:"column:has_sound_sensitivity;not null;default:false" json:"has_sound_sensitivity"`
	HasVisualAura       bool `gorm:"column:has_visual_aura;not null;default:false" json:"has_visual_aura"`
	HasSensoryAura      bool `gorm:"column:has_sensory_aura;not null;default:false" json:"has_sensory_aura"`

	FamilyHistory bool `gorm:"column:family_history;not null;default:false" json:"family_history"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MigraineProfile) TableName() string { return "migraine_profile" }
