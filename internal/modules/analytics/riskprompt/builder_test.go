package riskprompt

import (
	"strings"
	"testing"
	"time"

	types "github.com/yungbote/auratrack-backend/internal/domain"
)

func f(v float64) *float64 { return &v }

func sampleRecords(now time.Time) []*types.WearableRecord {
	out := make([]*types.WearableRecord, 0, 8)
	for i := 7; i >= 0; i-- {
		out = append(out, &types.WearableRecord{
			RecordedAt: now.Add(-time.Duration(i) * time.Hour),
			Stress:     f(20 + float64(i)),
			Recovery:   f(70),
			HRV:        f(50),
			HeartRate:  f(64.6),
		})
	}
	return out
}

func TestBuild_SectionHeadersPresent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt, _ := Build(Input{
		Records: sampleRecords(now),
		Patterns: []*types.CorrelationPattern{{
			PatternName:            "High Stress Levels",
			Metric:                 "avgStress",
			CorrelationStrength:    0.4,
			AvgValueOnMigraineDays: 30,
			AvgValueOnNormalDays:   20,
			MigraineDaysCount:      5,
		}},
		Profile: &types.MigraineProfile{DiagnosedType: "migraine with aura", HasNausea: true},
		Now:     now,
	})

	for _, header := range []string{
		"## User Profile & Migraine History",
		"## Last 24 Hours Wearable Data Summary",
		"## Historical Migraine Correlation Patterns",
		"## Instructions",
	} {
		if !strings.Contains(prompt, header) {
			t.Fatalf("prompt missing section %q", header)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := Input{
		Records: sampleRecords(now),
		Patterns: []*types.CorrelationPattern{{
			PatternName:         "Low Recovery",
			Metric:              "avgRecovery",
			CorrelationStrength: -0.3,
			MigraineDaysCount:   4,
		}},
		Profile: &types.MigraineProfile{MonthlyFrequency: f(4)},
		Now:     now,
	}
	first, _ := Build(in)
	second, _ := Build(in)
	if first != second {
		t.Fatal("identical inputs produced different prompts")
	}
}

func TestBuild_NilProfilePlaceholder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt, _ := Build(Input{Records: sampleRecords(now), Now: now})
	if !strings.Contains(prompt, "No migraine profile on file.") {
		t.Fatal("missing profile placeholder")
	}
}

func TestBuild_NumberFormatting(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*types.WearableRecord{{
		RecordedAt: now,
		Stress:     f(20.56),
		HeartRate:  f(64.6),
	}}
	prompt, _ := Build(Input{Records: records, Now: now})

	// One decimal for metrics, integer heart rate, N/A for nil.
	if !strings.Contains(prompt, "Average stress: 20.6") {
		t.Fatalf("stress formatting wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Average heart rate: 65") {
		t.Fatalf("heart rate formatting wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Average recovery: N/A") {
		t.Fatalf("nil metric should render N/A:\n%s", prompt)
	}
}

func TestBuild_RecentTrendsShowLastSix(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt, _ := Build(Input{Records: sampleRecords(now), Now: now})

	// 8 records in, only the last 6 hourly rows rendered.
	rows := 0
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "- ") && strings.Contains(line, "stress ") {
			rows++
		}
	}
	if rows != 6 {
		t.Fatalf("trend rows = %d, want 6", rows)
	}
}

func TestBuild_PatternFilterSortAndCap(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	patterns := []*types.CorrelationPattern{
		{PatternName: "Weak", Metric: "avgHrv", CorrelationStrength: 0.05},
		{PatternName: "Strong", Metric: "avgStress", CorrelationStrength: 0.5, MigraineDaysCount: 5},
		{PatternName: "Moderate", Metric: "avgRecovery", CorrelationStrength: -0.2, MigraineDaysCount: 5},
	}
	prompt, meta := Build(Input{Records: sampleRecords(now), Patterns: patterns, Now: now})

	if meta.PatternsUsed != 2 {
		t.Fatalf("patternsUsed = %d, want 2 (0.05 is below the floor)", meta.PatternsUsed)
	}
	if strings.Contains(prompt, "Weak") {
		t.Fatal("below-floor pattern rendered")
	}
	strongIdx := strings.Index(prompt, "Strong")
	moderateIdx := strings.Index(prompt, "Moderate")
	if strongIdx < 0 || moderateIdx < 0 || strongIdx > moderateIdx {
		t.Fatal("patterns not sorted by |strength| descending")
	}
	if !strings.Contains(prompt, "strong effect") || !strings.Contains(prompt, "moderate effect") {
		t.Fatal("effect buckets missing")
	}
	if !strings.Contains(prompt, "lower on migraine days") {
		t.Fatal("negative pattern should report lower direction")
	}
}

func TestBuild_NoPatternsSectionWithoutSignal(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt, meta := Build(Input{
		Records:  sampleRecords(now),
		Patterns: []*types.CorrelationPattern{{PatternName: "Weak", CorrelationStrength: 0.05}},
		Now:      now,
	})
	if meta.PatternsUsed != 0 {
		t.Fatalf("patternsUsed = %d", meta.PatternsUsed)
	}
	if strings.Contains(prompt, "## Historical Migraine Correlation Patterns") {
		t.Fatal("patterns section rendered with no qualifying pattern")
	}
}

func TestBuild_SymptomsAndFamilyHistory(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	profile := &types.MigraineProfile{
		HasNausea:           true,
		HasLightSensitivity: true,
		HasVisualAura:       true,
		FamilyHistory:       true,
	}
	prompt, _ := Build(Input{Records: sampleRecords(now), Profile: profile, Now: now})
	if !strings.Contains(prompt, "Symptoms: nausea, light sensitivity, visual aura") {
		t.Fatalf("symptom list wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Family history: yes") {
		t.Fatal("family history missing")
	}
}

func TestSynthesizeHourly(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := SynthesizeHourly(Sample{Stress: f(30), HRV: f(40)}, now)
	if len(records) != 24 {
		t.Fatalf("synthesized %d records, want 24", len(records))
	}
	if !records[len(records)-1].RecordedAt.Equal(now) {
		t.Fatalf("last record at %v, want %v", records[len(records)-1].RecordedAt, now)
	}
	for _, r := range records {
		if r.Stress == nil || *r.Stress != 30 || r.HRV == nil || *r.HRV != 40 {
			t.Fatal("sample metrics not carried onto every entry")
		}
	}
}

func TestBuild_SimulatedTagged(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := SynthesizeHourly(Sample{Stress: f(30)}, now)
	prompt, meta := Build(Input{Records: records, Now: now, Simulated: true})
	if !meta.IsSimulated {
		t.Fatal("meta should flag simulated mode")
	}
	if !strings.Contains(prompt, "(simulated data)") {
		t.Fatal("simulated tag missing from summary section")
	}
}
