package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// MigraineDay marks a calendar date the user experienced a migraine.
// Written by the calendar CRUD surface; the analytics core only reads it.
type MigraineDay struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_migraine_user_day,unique" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Day           time.Time `gorm:"column:day;type:date;not null;index:idx_migraine_user_day,unique" json:"day"`
	IsMigraineDay bool      `gorm:"column:is_migraine_day;not null;default:true" json:"is_migraine_day"`
	Severity      *int      `gorm:"column:severity" json:"severity,omitempty"`
	Notes         string    `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MigraineDay) TableName() string { return "migraine_day" }
