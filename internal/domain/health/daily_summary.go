package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/auratrack-backend/internal/domain/user"
)

// Trend labels for per-day metric vectors.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// RiskFactor is one threshold condition that held for a day.
type RiskFactor struct {
	Factor   string `json:"factor"`
	Severity string `json:"severity"`
}

// DailySummary is the derived per-day indicator bundle. A row exists only
// for days that had at least one wearable record; indicator pointers are nil
// when the contributing metric had no observations that day.
type DailySummary struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_summary_user_period,unique" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	PeriodStart time.Time `gorm:"column:period_start;not null;index:idx_summary_user_period,unique" json:"period_start"`
	PeriodEnd   time.Time `gorm:"column:period_end;not null;index:idx_summary_user_period,unique" json:"period_end"`

	AvgStress        *float64 `gorm:"column:avg_stress" json:"avg_stress,omitempty"`
	MaxStress        *float64 `gorm:"column:max_stress" json:"max_stress,omitempty"`
	StressVolatility *float64 `gorm:"column:stress_volatility" json:"stress_volatility,omitempty"`
	StressTrend      *string  `gorm:"column:stress_trend" json:"stress_trend,omitempty"`

	AvgRecovery   *float64 `gorm:"column:avg_recovery" json:"avg_recovery,omitempty"`
	MinRecovery   *float64 `gorm:"column:min_recovery" json:"min_recovery,omitempty"`
	RecoveryTrend *string  `gorm:"column:recovery_trend" json:"recovery_trend,omitempty"`

	AvgHeartRate     *float64 `gorm:"column:avg_heart_rate" json:"avg_heart_rate,omitempty"`
	RestingHeartRate *float64 `gorm:"column:resting_heart_rate" json:"resting_heart_rate,omitempty"`
	MaxHeartRate     *float64 `gorm:"column:max_heart_rate" json:"max_heart_rate,omitempty"`

	AvgHRV        *float64 `gorm:"column:avg_hrv" json:"avg_hrv,omitempty"`
	HRVTrend      *string  `gorm:"column:hrv_trend" json:"hrv_trend,omitempty"`
	HRVVolatility *float64 `gorm:"column:hrv_volatility" json:"hrv_volatility,omitempty"`

	AvgSleepEfficiency *float64 `gorm:"column:avg_sleep_efficiency" json:"avg_sleep_efficiency,omitempty"`
	AvgSleepHeartRate  *float64 `gorm:"column:avg_sleep_heart_rate" json:"avg_sleep_heart_rate,omitempty"`
	AvgRestlessPeriods *float64 `gorm:"column:avg_restless_periods" json:"avg_restless_periods,omitempty"`

	AvgSkinTemperature   *float64 `gorm:"column:avg_skin_temperature" json:"avg_skin_temperature,omitempty"`
	SkinTemperatureRange *float64 `gorm:"column:skin_temperature_range" json:"skin_temperature_range,omitempty"`

	OverallWellnessScore float64        `gorm:"column:overall_wellness_score;not null" json:"overall_wellness_score"`
	RiskFactors          datatypes.JSON `gorm:"type:jsonb;column:risk_factors" json:"risk_factors,omitempty"`

	DataPointsCount int       `gorm:"column:data_points_count;not null;default:0" json:"data_points_count"`
	ProcessedAt     time.Time `gorm:"column:processed_at;not null" json:"processed_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailySummary) TableName() string { return "daily_summary" }
