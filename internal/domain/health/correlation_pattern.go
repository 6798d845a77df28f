package health

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// Pattern types produced by the correlation engine, in evaluation order.
const (
	PatternHighStress       = "high_stress"
	PatternStressSpike      = "stress_spike"
	PatternLowRecovery      = "low_recovery"
	PatternLowHRV           = "low_hrv"
	PatternPoorSleep        = "poor_sleep"
	PatternStressVolatility = "stress_volatility"
)

// CorrelationPattern is a learned (metric, operator, threshold) triple with
// its measured effect and confidence. One row per (user, pattern type); the
// engine replaces the whole row on every run.
// The sign of CorrelationStrength always matches Operator: ">" for positive,
// "<" for negative.
type CorrelationPattern struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_pattern_user_type,unique" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	PatternType string `gorm:"column:pattern_type;not null;index:idx_pattern_user_type,unique" json:"pattern_type"`
	PatternName string `gorm:"column:pattern_name;not null" json:"pattern_name"`

	Metric         string  `gorm:"column:metric;not null" json:"metric"`
	Operator       string  `gorm:"column:operator;not null" json:"operator"`
	ThresholdValue float64 `gorm:"column:threshold_value;not null" json:"threshold_value"`

	CorrelationStrength float64 `gorm:"column:correlation_strength;not null" json:"correlation_strength"`
	ConfidenceScore     float64 `gorm:"column:confidence_score;not null" json:"confidence_score"`

	MigraineDaysCount      int     `gorm:"column:migraine_days_count;not null" json:"migraine_days_count"`
	TotalDaysAnalyzed      int     `gorm:"column:total_days_analyzed;not null" json:"total_days_analyzed"`
	AvgValueOnMigraineDays float64 `gorm:"column:avg_value_on_migraine_days;not null" json:"avg_value_on_migraine_days"`
	AvgValueOnNormalDays   float64 `gorm:"column:avg_value_on_normal_days;not null" json:"avg_value_on_normal_days"`

	LastUpdatedAt time.Time `gorm:"column:last_updated_at;not null" json:"last_updated_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CorrelationPattern) TableName() string { return "correlation_pattern" }
