package csvparse

import "testing"

func TestResolveHeader_ExactVariants(t *testing.T) {
	cases := map[string]string{
		"timestamp":      FieldTimestamp,
		"Datetime":       FieldTimestamp,
		"recorded_at":    FieldTimestamp,
		"stress":         FieldStress,
		"Stress Level":   FieldStress,
		"recovery_score": FieldRecovery,
		"readiness":      FieldRecovery,
		"hrv":            FieldHRV,
		"RMSSD":          FieldHRV,
		"heart_rate":     FieldHeartRate,
		"bpm":            FieldHeartRate,
		"sleep-efficiency": FieldSleepEfficiency,
		"sleep_hr":         FieldSleepHeartRate,
		"skin temp":        FieldSkinTemperature,
		"restless_count":   FieldRestlessPeriods,
	}
	for header, want := range cases {
		got, ok := resolveHeader(header)
		if !ok {
			t.Fatalf("header %q did not resolve", header)
		}
		if got != want {
			t.Fatalf("header %q resolved to %q, want %q", header, got, want)
		}
	}
}

func TestResolveHeader_HeaderAmbiguity(t *testing.T) {
	// "HRV_ms" must land on hrv, never heartRate, despite containing "hr".
	if got, ok := resolveHeader("HRV_ms"); !ok || got != FieldHRV {
		t.Fatalf("HRV_ms resolved to %q (ok=%v), want hrv", got, ok)
	}
	if got, ok := resolveHeader("resting_HR"); !ok || got != FieldHeartRate {
		t.Fatalf("resting_HR resolved to %q (ok=%v), want heartRate", got, ok)
	}
	if got, ok := resolveHeader("HR"); !ok || got != FieldHeartRate {
		t.Fatalf("HR resolved to %q (ok=%v), want heartRate", got, ok)
	}
}

func TestResolveHeader_HRVNeverHeartRate(t *testing.T) {
	for _, header := range []string{"hrv", "HRV_ms", "daily_hrv", "hrv_bpm"} {
		got, ok := resolveHeader(header)
		if ok && got == FieldHeartRate {
			t.Fatalf("header %q resolved to heartRate, blocked by the hrv rule", header)
		}
	}
}

func TestResolveHeader_Unrecognized(t *testing.T) {
	for _, header := range []string{"steps", "calories", "xyz", ""} {
		if got, ok := resolveHeader(header); ok {
			t.Fatalf("header %q unexpectedly resolved to %q", header, got)
		}
	}
}

func TestResolveHeader_ContainmentAtBoundary(t *testing.T) {
	// "oura_stress_value" contains the exact variant at a token boundary.
	if got, ok := resolveHeader("oura_stress_value"); !ok || got != FieldStress {
		t.Fatalf("oura_stress_value resolved to %q (ok=%v), want stress", got, ok)
	}
	if got, ok := resolveHeader("daily recovery score"); !ok || got != FieldRecovery {
		t.Fatalf("daily recovery score resolved to %q (ok=%v), want recovery", got, ok)
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		" Heart Rate ":   "heart_rate",
		"HRV (ms)":       "hrv_ms",
		"sleep--score":   "sleep_score",
		"Stress_Level":   "stress_level",
		"skin-temp":      "skin_temp",
	}
	for in, want := range cases {
		if got := normalizeHeader(in); got != want {
			t.Fatalf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}
