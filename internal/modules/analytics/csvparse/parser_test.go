package csvparse

import (
	"errors"
	"testing"
	"time"
)

func TestParse_SemicolonFile(t *testing.T) {
	data := []byte("timestamp;stress;recovery\n" +
		"2025-01-01 10:00;20;80\n" +
		"2025-01-01 11:00;25;75\n")

	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if got := result.FieldMapping["stress"]; got != FieldStress {
		t.Fatalf("stress mapped to %q", got)
	}
	row := result.Rows[0]
	if row.Values[FieldStress] != 20 || row.Values[FieldRecovery] != 80 {
		t.Fatalf("unexpected values: %#v", row.Values)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	if !row.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", row.Timestamp, want)
	}
}

func TestParse_CommaFile(t *testing.T) {
	data := []byte("timestamp,hrv,heart_rate\n2025-02-10T08:00:00,55,62\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].Values[FieldHRV] != 55 {
		t.Fatalf("hrv = %v", result.Rows[0].Values[FieldHRV])
	}
	if result.Rows[0].Values[FieldHeartRate] != 62 {
		t.Fatalf("heartRate = %v", result.Rows[0].Values[FieldHeartRate])
	}
}

func TestDetectSeparator_TieGoesToSemicolon(t *testing.T) {
	sep, err := detectSeparator("a;b,c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sep != ';' {
		t.Fatalf("separator = %q, want ';'", sep)
	}
}

func TestDetectSeparator_NoSeparator(t *testing.T) {
	if _, err := detectSeparator("justoneheader"); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParse_HeaderAmbiguityMapping(t *testing.T) {
	data := []byte("timestamp;HRV_ms;resting_HR\n2025-01-01 10:00;48;60\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := result.FieldMapping["HRV_ms"]; got != FieldHRV {
		t.Fatalf("HRV_ms mapped to %q, want hrv", got)
	}
	if got := result.FieldMapping["resting_HR"]; got != FieldHeartRate {
		t.Fatalf("resting_HR mapped to %q, want heartRate", got)
	}
	if len(result.UnrecognizedFields) != 0 {
		t.Fatalf("unexpected unrecognized fields: %v", result.UnrecognizedFields)
	}
}

func TestParse_UnrecognizedHeadersGoToAdditional(t *testing.T) {
	data := []byte("timestamp;stress;steps\n2025-01-01 10:00;20;12000\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.UnrecognizedFields) != 1 || result.UnrecognizedFields[0] != "steps" {
		t.Fatalf("unrecognized = %v", result.UnrecognizedFields)
	}
	if got := result.Rows[0].Additional["steps"]; got != "12000" {
		t.Fatalf("additional steps = %q", got)
	}
}

func TestParse_NonNumericMappedValueKeptAsAdditional(t *testing.T) {
	data := []byte("timestamp;stress\n2025-01-01 10:00;n/a\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if _, ok := result.Rows[0].Values[FieldStress]; ok {
		t.Fatal("non-numeric stress should not be a typed value")
	}
	if got := result.Rows[0].Additional["stress"]; got != "n/a" {
		t.Fatalf("additional stress = %q", got)
	}
}

func TestParse_RowWithoutTimestamp(t *testing.T) {
	data := []byte("timestamp;stress\n;20\n2025-01-01 10:00;25\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	// The timestamp-less row carried a value, so it counts as an error.
	if len(result.RowErrors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(result.RowErrors))
	}
}

func TestParse_FullyEmptyRowIgnoredSilently(t *testing.T) {
	data := []byte("timestamp;stress\n;\n2025-01-01 10:00;25\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 1 || len(result.RowErrors) != 0 {
		t.Fatalf("rows=%d errors=%d, want 1/0", len(result.Rows), len(result.RowErrors))
	}
}

func TestParse_HeaderOnlyFile(t *testing.T) {
	result, err := Parse([]byte("timestamp;stress;recovery\n"), "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(result.Rows))
	}
	if len(result.FieldMapping) != 3 {
		t.Fatalf("fieldMapping = %v", result.FieldMapping)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	if _, err := Parse([]byte{0xff, 0xfe, 0x00, 0x41}, "export.csv"); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for invalid UTF-8, got %v", err)
	}
}

func TestParse_BOMStripped(t *testing.T) {
	data := []byte("\ufefftimestamp;stress\n2025-01-01 10:00;20\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := result.FieldMapping["timestamp"]; got != FieldTimestamp {
		t.Fatalf("BOM header mapped to %q", got)
	}
}

func TestParse_SourceDetection(t *testing.T) {
	cases := map[string]string{
		"oura_export.csv":   "oura",
		"FitBit-data.csv":   "fitbit",
		"garmin.csv":        "garmin",
		"apple_health.csv":  "apple_watch",
		"mydata.csv":        "manual_upload",
	}
	for filename, want := range cases {
		result, err := Parse([]byte("timestamp;stress\n2025-01-01 10:00;20\n"), filename)
		if err != nil {
			t.Fatalf("Parse(%s) returned error: %v", filename, err)
		}
		if result.Source != want {
			t.Fatalf("source for %s = %q, want %q", filename, result.Source, want)
		}
	}
}

func TestParseTimestamp_Formats(t *testing.T) {
	cases := []string{
		"2025-01-01T10:00:00Z",
		"2025-01-01T10:00:00",
		"2025-01-01 10:00",
		"2025-01-01",
		"01/02/2025 10:00",
		"02.01.2025 10:00",
	}
	for _, c := range cases {
		if _, err := parseTimestamp(c); err != nil {
			t.Fatalf("parseTimestamp(%q) failed: %v", c, err)
		}
	}
}

func TestParseTimestamp_UnixEpoch(t *testing.T) {
	ts, err := parseTimestamp("1735725600")
	if err != nil {
		t.Fatalf("epoch seconds failed: %v", err)
	}
	if ts.Unix() != 1735725600 {
		t.Fatalf("epoch seconds = %d", ts.Unix())
	}
	ts, err = parseTimestamp("1735725600000")
	if err != nil {
		t.Fatalf("epoch millis failed: %v", err)
	}
	if ts.UnixMilli() != 1735725600000 {
		t.Fatalf("epoch millis = %d", ts.UnixMilli())
	}
}

func TestParse_MalformedLineSkipped(t *testing.T) {
	// An unterminated quote only breaks its own line.
	data := []byte("timestamp,stress\n2025-01-01 10:00,20\n\"broken,99\n2025-01-01 12:00,30\n")
	result, err := Parse(data, "export.csv")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Rows) < 1 {
		t.Fatal("expected at least the first valid row to survive")
	}
	if result.Rows[0].Values[FieldStress] != 20 {
		t.Fatalf("unexpected first row: %#v", result.Rows[0].Values)
	}
}
