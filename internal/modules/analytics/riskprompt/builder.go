// Package riskprompt assembles the migraine risk-analysis prompt. The builder
// is pure: given identical inputs it produces byte-identical output, and it
// performs no I/O.
package riskprompt

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	types "github.com/yungbote/auratrack-backend/internal/domain"
)

// Input is everything the builder reads. Records must be in ascending
// recorded_at order and already restricted to the last 24 hours.
type Input struct {
	Records   []*types.WearableRecord
	Patterns  []*types.CorrelationPattern
	Profile   *types.MigraineProfile
	Now       time.Time
	Simulated bool
}

// Meta describes what went into the prompt; callers return it alongside.
type Meta struct {
	DataPoints   int       `json:"data_points"`
	PatternsUsed int       `json:"patterns_used"`
	IsSimulated  bool      `json:"is_simulated"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
}

// Sample is a point-in-time metric snapshot used for simulated prompts.
type Sample struct {
	Stress          *float64 `json:"stress,omitempty"`
	Recovery        *float64 `json:"recovery,omitempty"`
	HeartRate       *float64 `json:"heart_rate,omitempty"`
	HRV             *float64 `json:"hrv,omitempty"`
	SleepEfficiency *float64 `json:"sleep_efficiency,omitempty"`
}

// SynthesizeHourly expands a snapshot into 24 hourly records ending at now,
// every entry carrying the sample's metrics.
func SynthesizeHourly(sample Sample, now time.Time) []*types.WearableRecord {
	out := make([]*types.WearableRecord, 0, 24)
	for i := 23; i >= 0; i-- {
		out = append(out, &types.WearableRecord{
			RecordedAt:      now.Add(-time.Duration(i) * time.Hour),
			Stress:          sample.Stress,
			Recovery:        sample.Recovery,
			HeartRate:       sample.HeartRate,
			HRV:             sample.HRV,
			SleepEfficiency: sample.SleepEfficiency,
		})
	}
	return out
}

// Build renders the prompt artifact. Section headers and numeric formatting
// are stable contract: one decimal everywhere except heart rate (integer),
// nil renders as N/A.
func Build(in Input) (string, Meta) {
	var b strings.Builder

	b.WriteString("You are a migraine risk analyst reviewing wearable sensor data.\n\n")
	writeProfileSection(&b, in.Profile)
	writeWearableSection(&b, in.Records, in.Simulated)
	patternsUsed := writePatternsSection(&b, in.Patterns)
	writeInstructionsSection(&b)

	meta := Meta{
		DataPoints:   len(in.Records),
		PatternsUsed: patternsUsed,
		IsSimulated:  in.Simulated,
		WindowStart:  in.Now.Add(-24 * time.Hour),
		WindowEnd:    in.Now,
	}
	return b.String(), meta
}

func writeProfileSection(b *strings.Builder, profile *types.MigraineProfile) {
	b.WriteString("## User Profile & Migraine History\n")
	if profile == nil {
		b.WriteString("No migraine profile on file.\n\n")
		return
	}
	diagnosed := profile.DiagnosedType
	if diagnosed == "" {
		diagnosed = "N/A"
	}
	fmt.Fprintf(b, "Diagnosed type: %s\n", diagnosed)
	fmt.Fprintf(b, "Monthly frequency: %s migraines/month\n", num1(profile.MonthlyFrequency))
	fmt.Fprintf(b, "Typical duration: %s hours\n", num1(profile.TypicalDurationHours))
	fmt.Fprintf(b, "Symptoms: %s\n", symptomList(profile))
	fmt.Fprintf(b, "Family history: %s\n\n", yesNo(profile.FamilyHistory))
}

var symptomFlags = []struct {
	label string
	get   func(*types.MigraineProfile) bool
}{
	{"nausea", func(p *types.MigraineProfile) bool { return p.HasNausea }},
	{"vomiting", func(p *types.MigraineProfile) bool { return p.HasVomiting }},
	{"light sensitivity", func(p *types.MigraineProfile) bool { return p.HasLightSensitivity }},
	{"sound sensitivity", func(p *types.MigraineProfile) bool { return p.HasSoundSensitivity }},
	{"visual aura", func(p *types.MigraineProfile) bool { return p.HasVisualAura }},
	{"sensory aura", func(p *types.MigraineProfile) bool { return p.HasSensoryAura }},
}

func symptomList(p *types.MigraineProfile) string {
	var on []string
	for _, s := range symptomFlags {
		if s.get(p) {
			on = append(on, s.label)
		}
	}
	if len(on) == 0 {
		return "none reported"
	}
	return strings.Join(on, ", ")
}

func writeWearableSection(b *strings.Builder, records []*types.WearableRecord, simulated bool) {
	b.WriteString("## Last 24 Hours Wearable Data Summary\n")
	if simulated {
		b.WriteString("(simulated data)\n")
	}
	if len(records) == 0 {
		b.WriteString("No wearable data in the last 24 hours.\n\n")
		return
	}
	fmt.Fprintf(b, "Data points: %d\n", len(records))
	fmt.Fprintf(b, "Average stress: %s\n", num1(avgOf(records, func(r *types.WearableRecord) *float64 { return r.Stress })))
	fmt.Fprintf(b, "Average recovery: %s\n", num1(avgOf(records, func(r *types.WearableRecord) *float64 { return r.Recovery })))
	fmt.Fprintf(b, "Average HRV: %s\n", num1(avgOf(records, func(r *types.WearableRecord) *float64 { return r.HRV })))
	fmt.Fprintf(b, "Average heart rate: %s\n", num0(avgOf(records, func(r *types.WearableRecord) *float64 { return r.HeartRate })))
	fmt.Fprintf(b, "Average sleep efficiency: %s\n", num1(avgOf(records, func(r *types.WearableRecord) *float64 { return r.SleepEfficiency })))

	b.WriteString("Recent hourly trends:\n")
	tail := records
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	for _, r := range tail {
		fmt.Fprintf(b, "- %s: stress %s, recovery %s, hrv %s, heart rate %s\n",
			r.RecordedAt.Format("15:04"),
			num1(r.Stress), num1(r.Recovery), num1(r.HRV), num0(r.HeartRate))
	}
	b.WriteString("\n")
}

// writePatternsSection renders patterns above the 0.1 magnitude floor, sorted
// by absolute strength, ten at most. Returns how many were rendered.
func writePatternsSection(b *strings.Builder, patterns []*types.CorrelationPattern) int {
	kept := make([]*types.CorrelationPattern, 0, len(patterns))
	for _, p := range patterns {
		if math.Abs(p.CorrelationStrength) > 0.1 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return 0
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return math.Abs(kept[i].CorrelationStrength) > math.Abs(kept[j].CorrelationStrength)
	})
	if len(kept) > 10 {
		kept = kept[:10]
	}

	b.WriteString("## Historical Migraine Correlation Patterns\n")
	for _, p := range kept {
		direction := "higher"
		if p.CorrelationStrength < 0 {
			direction = "lower"
		}
		fmt.Fprintf(b, "- %s: %s is %s on migraine days (%s effect, migraine avg %.1f vs normal avg %.1f, based on %d migraine days)\n",
			p.PatternName, p.Metric, direction, effectBucket(p.CorrelationStrength),
			p.AvgValueOnMigraineDays, p.AvgValueOnNormalDays, p.MigraineDaysCount)
	}
	b.WriteString("\n")
	return len(kept)
}

func effectBucket(strength float64) string {
	switch abs := math.Abs(strength); {
	case abs >= 0.3:
		return "strong"
	case abs >= 0.15:
		return "moderate"
	default:
		return "weak"
	}
}

func writeInstructionsSection(b *strings.Builder) {
	b.WriteString("## Instructions\n")
	b.WriteString("Based on the data above, provide:\n")
	b.WriteString("1. Migraine risk percentage for the next 24 hours (0-100).\n")
	b.WriteString("2. Risk category: low, moderate, high, or very high.\n")
	b.WriteString("3. Key risk factors observed in the current data.\n")
	b.WriteString("4. Trend analysis: whether the risk is rising, stable, or falling.\n")
	b.WriteString("5. Specific, actionable recommendations to reduce risk.\n")
	b.WriteString("6. Your confidence in this assessment (low, medium, high) and why.\n")
}

func avgOf(records []*types.WearableRecord, get func(*types.WearableRecord) *float64) *float64 {
	sum := 0.0
	n := 0
	for _, r := range records {
		if v := get(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func num1(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

// num0 renders heart rate: integer, rounded.
func num0(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", int(math.Round(*v)))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
