package steps

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/auratrack-backend/internal/domain"
)

// DayAggregate is the per-day metric bundle shared by the daily rollup and
// the correlation engine.
type DayAggregate struct {
	AvgStress        *float64
	MaxStress        *float64
	StressVolatility *float64
	StressTrend      *string

	AvgRecovery   *float64
	MinRecovery   *float64
	RecoveryTrend *string

	AvgHeartRate     *float64
	RestingHeartRate *float64
	MaxHeartRate     *float64

	AvgHRV        *float64
	HRVTrend      *string
	HRVVolatility *float64

	AvgSleepEfficiency *float64
	AvgSleepHeartRate  *float64
	AvgRestlessPeriods *float64

	AvgSkinTemperature   *float64
	SkinTemperatureRange *float64

	DataPointsCount int
}

// AggregateDay reduces a day's hourly records to indicator values. Metrics
// with no observations stay nil.
func AggregateDay(records []*types.WearableRecord) *DayAggregate {
	agg := &DayAggregate{DataPointsCount: len(records)}

	stress := collect(records, func(r *types.WearableRecord) *float64 { return r.Stress })
	if len(stress) > 0 {
		agg.AvgStress = ptr(mean(stress))
		agg.MaxStress = ptr(maxOf(stress))
		agg.StressVolatility = ptr(popStdDev(stress))
		agg.StressTrend = strPtr(trendOf(stress))
	}

	recovery := collect(records, func(r *types.WearableRecord) *float64 { return r.Recovery })
	if len(recovery) > 0 {
		agg.AvgRecovery = ptr(mean(recovery))
		agg.MinRecovery = ptr(minOf(recovery))
		agg.RecoveryTrend = strPtr(trendOf(recovery))
	}

	heartRate := collect(records, func(r *types.WearableRecord) *float64 { return r.HeartRate })
	if len(heartRate) > 0 {
		agg.AvgHeartRate = ptr(mean(heartRate))
		// Resting heart rate is the day's minimum.
		agg.RestingHeartRate = ptr(minOf(heartRate))
		agg.MaxHeartRate = ptr(maxOf(heartRate))
	}

	hrv := collect(records, func(r *types.WearableRecord) *float64 { return r.HRV })
	if len(hrv) > 0 {
		agg.AvgHRV = ptr(mean(hrv))
		agg.HRVTrend = strPtr(trendOf(hrv))
		agg.HRVVolatility = ptr(popStdDev(hrv))
	}

	sleepEff := collect(records, func(r *types.WearableRecord) *float64 { return r.SleepEfficiency })
	if len(sleepEff) > 0 {
		agg.AvgSleepEfficiency = ptr(mean(sleepEff))
	}

	sleepHR := collect(records, func(r *types.WearableRecord) *float64 { return r.SleepHeartRate })
	if len(sleepHR) > 0 {
		agg.AvgSleepHeartRate = ptr(mean(sleepHR))
	}

	restless := collect(records, func(r *types.WearableRecord) *float64 { return r.RestlessPeriods })
	if len(restless) > 0 {
		agg.AvgRestlessPeriods = ptr(mean(restless))
	}

	skinTemp := collect(records, func(r *types.WearableRecord) *float64 { return r.SkinTemperature })
	if len(skinTemp) > 0 {
		agg.AvgSkinTemperature = ptr(mean(skinTemp))
		agg.SkinTemperatureRange = ptr(maxOf(skinTemp) - minOf(skinTemp))
	}

	return agg
}

func collect(records []*types.WearableRecord, get func(*types.WearableRecord) *float64) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if v := get(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// WellnessScore starts at 50 and adds up to four capped contributions, one
// per available input, clamping the sum to [0, 100].
func WellnessScore(agg *DayAggregate) float64 {
	score := 50.0
	if agg.AvgStress != nil {
		score += clamp(max(0, 30-*agg.AvgStress)/30*25, 0, 25)
	}
	if agg.AvgRecovery != nil {
		score += clamp(*agg.AvgRecovery/100*25, 0, 25)
	}
	if agg.AvgSleepEfficiency != nil {
		score += clamp(*agg.AvgSleepEfficiency/100*25, 0, 25)
	}
	if agg.AvgHRV != nil {
		score += clamp((*agg.AvgHRV-20)/60, 0, 1) * 25
	}
	return clamp(score, 0, 100)
}

// Risk factor severities.
const (
	severityModerate = "moderate"
	severityHigh     = "high"
)

// RiskFactors evaluates the seven threshold conditions for a day.
func RiskFactors(agg *DayAggregate) []types.RiskFactor {
	var out []types.RiskFactor
	if agg.AvgStress != nil && *agg.AvgStress > 25 {
		out = append(out, types.RiskFactor{Factor: "high_stress", Severity: severityModerate})
		if *agg.AvgStress > 35 {
			out = append(out, types.RiskFactor{Factor: "very_high_stress", Severity: severityHigh})
		}
	}
	if agg.AvgRecovery != nil && *agg.AvgRecovery < 30 {
		out = append(out, types.RiskFactor{Factor: "low_recovery", Severity: severityModerate})
	}
	if agg.AvgHRV != nil && *agg.AvgHRV < 30 {
		out = append(out, types.RiskFactor{Factor: "low_hrv", Severity: severityModerate})
	}
	if agg.AvgSleepEfficiency != nil && *agg.AvgSleepEfficiency < 80 {
		out = append(out, types.RiskFactor{Factor: "poor_sleep", Severity: severityModerate})
	}
	if agg.StressVolatility != nil && *agg.StressVolatility > 5 {
		out = append(out, types.RiskFactor{Factor: "stress_volatility", Severity: severityModerate})
	}
	if agg.StressTrend != nil && *agg.StressTrend == types.TrendIncreasing {
		out = append(out, types.RiskFactor{Factor: "increasing_stress", Severity: severityModerate})
	}
	if agg.RecoveryTrend != nil && *agg.RecoveryTrend == types.TrendDecreasing {
		out = append(out, types.RiskFactor{Factor: "decreasing_recovery", Severity: severityModerate})
	}
	return out
}

// toDailySummary materializes the aggregate as a persistable row. RiskFactors
// stays null when no condition held.
func (agg *DayAggregate) toDailySummary(userID uuid.UUID, periodStart, periodEnd, processedAt time.Time) *types.DailySummary {
	summary := &types.DailySummary{
		ID:          uuid.New(),
		UserID:      userID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,

		AvgStress:        agg.AvgStress,
		MaxStress:        agg.MaxStress,
		StressVolatility: agg.StressVolatility,
		StressTrend:      agg.StressTrend,

		AvgRecovery:   agg.AvgRecovery,
		MinRecovery:   agg.MinRecovery,
		RecoveryTrend: agg.RecoveryTrend,

		AvgHeartRate:     agg.AvgHeartRate,
		RestingHeartRate: agg.RestingHeartRate,
		MaxHeartRate:     agg.MaxHeartRate,

		AvgHRV:        agg.AvgHRV,
		HRVTrend:      agg.HRVTrend,
		HRVVolatility: agg.HRVVolatility,

		AvgSleepEfficiency: agg.AvgSleepEfficiency,
		AvgSleepHeartRate:  agg.AvgSleepHeartRate,
		AvgRestlessPeriods: agg.AvgRestlessPeriods,

		AvgSkinTemperature:   agg.AvgSkinTemperature,
		SkinTemperatureRange: agg.SkinTemperatureRange,

		OverallWellnessScore: WellnessScore(agg),
		DataPointsCount:      agg.DataPointsCount,
		ProcessedAt:          processedAt,
	}
	if factors := RiskFactors(agg); len(factors) > 0 {
		if raw, err := json.Marshal(factors); err == nil {
			summary.RiskFactors = datatypes.JSON(raw)
		}
	}
	return summary
}
