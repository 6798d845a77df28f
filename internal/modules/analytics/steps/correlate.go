package steps

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/auratrack-backend/internal/data/repos"
	types "github.com/yungbote/auratrack-backend/internal/domain"
	"github.com/yungbote/auratrack-backend/internal/platform/dbctx"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
)

type CorrelateDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Records  repos.WearableRecordRepo
	Markers  repos.MigraineDayRepo
	Patterns repos.CorrelationPatternRepo
}

type CorrelateInput struct {
	UserID uuid.UUID
	Loc    *time.Location // nil means time.Local
}

type CorrelateOutput struct {
	Patterns          []*types.CorrelationPattern
	MigraineDaysCount int
	NormalDaysCount   int
	Message           string
}

// candidate binds a pattern type to the day-level metric it tests and the
// direction migraine days are expected to differ in.
type candidate struct {
	patternType string
	patternName string
	metric      string
	positive    bool // true: higher on migraine days
	extract     func(*DayAggregate) *float64
}

// Evaluation order is fixed; pattern upserts happen in this order.
var candidates = []candidate{
	{types.PatternHighStress, "High Stress Levels", "avgStress", true,
		func(a *DayAggregate) *float64 { return a.AvgStress }},
	{types.PatternStressSpike, "Stress Spikes", "maxStress", true,
		func(a *DayAggregate) *float64 { return a.MaxStress }},
	{types.PatternLowRecovery, "Low Recovery", "avgRecovery", false,
		func(a *DayAggregate) *float64 { return a.AvgRecovery }},
	{types.PatternLowHRV, "Low Heart Rate Variability", "avgHrv", false,
		func(a *DayAggregate) *float64 { return a.AvgHRV }},
	{types.PatternPoorSleep, "Poor Sleep Quality", "avgSleepEfficiency", false,
		func(a *DayAggregate) *float64 { return a.AvgSleepEfficiency }},
	{types.PatternStressVolatility, "Stress Volatility", "stressVolatility", true,
		func(a *DayAggregate) *float64 { return a.StressVolatility }},
}

// Correlate partitions the user's day-level aggregates by migraine marker and
// upserts one pattern row per candidate that passes the direction gate.
// Candidates below the magnitude floor are skipped, not deleted; a previously
// learned pattern whose signal has decayed stays until re-examined.
func Correlate(ctx context.Context, deps CorrelateDeps, in CorrelateInput) (*CorrelateOutput, error) {
	if deps.Log == nil || deps.Records == nil || deps.Markers == nil || deps.Patterns == nil {
		return nil, fmt.Errorf("correlate: missing deps")
	}
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("correlate: missing user_id")
	}
	log := deps.Log.With("step", "Correlate", "user_id", in.UserID)
	dbc := dbctx.Context{Ctx: ctx}
	loc := in.Loc
	if loc == nil {
		loc = time.Local
	}

	minAt, maxAt, err := deps.Records.MinMaxRecordedAt(dbc, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("correlate: record bounds: %w", err)
	}
	out := &CorrelateOutput{Patterns: []*types.CorrelationPattern{}}
	if minAt == nil || maxAt == nil {
		out.Message = "no wearable data available"
		return out, nil
	}

	records, err := deps.Records.ListByUserInRange(dbc, in.UserID, *minAt, *maxAt)
	if err != nil {
		return nil, fmt.Errorf("correlate: load records: %w", err)
	}

	byDay := map[string][]*types.WearableRecord{}
	dayKeys := []string{}
	for _, r := range records {
		key := r.RecordedAt.In(loc).Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			dayKeys = append(dayKeys, key)
		}
		byDay[key] = append(byDay[key], r)
	}

	markers, err := deps.Markers.ListMarkedByUser(dbc, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("correlate: load migraine days: %w", err)
	}
	marked := map[string]bool{}
	for _, m := range markers {
		marked[m.Day.Format("2006-01-02")] = true
	}

	var migraine, normal []*DayAggregate
	for _, key := range dayKeys {
		agg := AggregateDay(byDay[key])
		if marked[key] {
			migraine = append(migraine, agg)
		} else {
			normal = append(normal, agg)
		}
	}
	out.MigraineDaysCount = len(migraine)
	out.NormalDaysCount = len(normal)

	if len(migraine) == 0 || len(normal) == 0 {
		out.Message = "need both migraine and migraine-free days to correlate"
		log.Info("correlation skipped", "migraine_days", len(migraine), "normal_days", len(normal))
		return out, nil
	}

	now := time.Now().UTC()
	for _, c := range candidates {
		vm := collectDays(migraine, c.extract)
		vn := collectDays(normal, c.extract)
		if len(vm) == 0 || len(vn) == 0 {
			continue
		}

		muM := mean(vm)
		muN := mean(vn)
		d := cohenD(vm, vn)
		correlation := clamp(d/3, -1, 1)
		if c.positive && correlation <= 0.1 {
			continue
		}
		if !c.positive && correlation >= -0.1 {
			continue
		}

		operator := ">"
		if !c.positive {
			operator = "<"
		}
		pattern := &types.CorrelationPattern{
			ID:                     uuid.New(),
			UserID:                 in.UserID,
			PatternType:            c.patternType,
			PatternName:            c.patternName,
			Metric:                 c.metric,
			Operator:               operator,
			ThresholdValue:         muN + 0.7*(muM-muN),
			CorrelationStrength:    correlation,
			ConfidenceScore:        confidenceScore(vm, vn, d),
			MigraineDaysCount:      len(vm),
			TotalDaysAnalyzed:      len(vm) + len(vn),
			AvgValueOnMigraineDays: muM,
			AvgValueOnNormalDays:   muN,
			LastUpdatedAt:          now,
		}
		if err := deps.Patterns.Upsert(dbc, pattern); err != nil {
			return nil, fmt.Errorf("correlate: upsert %s: %w", c.patternType, err)
		}
		out.Patterns = append(out.Patterns, pattern)
	}

	log.Info("correlation refreshed",
		"migraine_days", len(migraine),
		"normal_days", len(normal),
		"patterns", len(out.Patterns),
	)
	return out, nil
}

func collectDays(days []*DayAggregate, get func(*DayAggregate) *float64) []float64 {
	out := make([]float64, 0, len(days))
	for _, d := range days {
		if v := get(d); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// confidenceScore mixes sample size, effect magnitude, variance, and group
// balance. Fewer than 3 migraine observations pins the score to the 0.1 floor.
func confidenceScore(vm, vn []float64, d float64) float64 {
	if len(vm) < 3 {
		return 0.1
	}
	size := clamp((float64(len(vm))-2)/28, 0, 1)
	effect := clamp(math.Abs(d)/1.5, 0, 1)
	variance := 1 / (1 + (popVariance(vm)+popVariance(vn))/2/100)
	balance := math.Sqrt(math.Min(float64(len(vn)), 10*float64(len(vm))) / (10 * float64(len(vm))))
	score := 0.35*size + 0.30*effect + 0.20*variance + 0.15*balance
	return clamp(score, 0.1, 0.95)
}
