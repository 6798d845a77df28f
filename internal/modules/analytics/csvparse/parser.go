package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrParse marks a file-level parse failure: the caller gets no rows and
// should not persist anything.
var ErrParse = errors.New("csv parse failed")

// Row is one parsed hourly sample, not yet bound to an upload session.
// Values holds only the metrics the row actually supplied; absent keys mean
// the source file had no observation for that field.
type Row struct {
	Timestamp  time.Time
	Values     map[string]float64
	Additional map[string]string
}

// RowError records a dropped row that carried data but no usable timestamp.
type RowError struct {
	Line int    `json:"line"`
	Raw  string `json:"raw"`
	Err  string `json:"error"`
}

// Result is the full outcome of parsing one CSV export.
type Result struct {
	Rows               []Row
	FieldMapping       map[string]string // original header -> canonical field
	UnrecognizedFields []string
	RowErrors          []RowError
	Source             string
}

var sources = []string{"oura", "fitbit", "garmin", "apple"}

// Parse translates a CSV export into typed hourly rows. The separator is
// decided from the first line (";" wins ties) and fixed for the whole file.
// Malformed lines are skipped, never fatal; a file with zero valid rows is
// not an error here.
func Parse(data []byte, filename string) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrParse)
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")

	firstLine := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		firstLine = text[:i]
	}
	sep, err := detectSeparator(firstLine)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: no header line: %v", ErrParse, err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	mapping := map[string]string{}
	unrecognized := []string{}
	for _, h := range headers {
		if h == "" {
			continue
		}
		if field, ok := resolveHeader(h); ok {
			mapping[h] = field
		} else {
			unrecognized = append(unrecognized, h)
		}
	}

	result := &Result{
		Rows:               []Row{},
		FieldMapping:       mapping,
		UnrecognizedFields: unrecognized,
		Source:             detectSource(filename, headers),
	}

	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}
		row, hadValues, rowErr := parseRecord(headers, mapping, record)
		if rowErr != nil {
			if hadValues {
				result.RowErrors = append(result.RowErrors, RowError{
					Line: line,
					Raw:  strings.Join(record, string(sep)),
					Err:  rowErr.Error(),
				})
			}
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// detectSeparator inspects the first line only; ties go to semicolon.
func detectSeparator(firstLine string) (rune, error) {
	semis := strings.Count(firstLine, ";")
	commas := strings.Count(firstLine, ",")
	if semis == 0 && commas == 0 {
		return 0, fmt.Errorf("%w: no recognizable separator in header line", ErrParse)
	}
	if semis >= commas {
		return ';', nil
	}
	return ',', nil
}

func parseRecord(headers []string, mapping map[string]string, record []string) (Row, bool, error) {
	row := Row{
		Values:     map[string]float64{},
		Additional: map[string]string{},
	}
	hadValues := false
	var tsErr error = errTimestampMissing

	for i, h := range headers {
		if i >= len(record) {
			break
		}
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		field, recognized := mapping[h]
		if !recognized {
			row.Additional[h] = cell
			hadValues = true
			continue
		}
		if field == FieldTimestamp {
			ts, err := parseTimestamp(cell)
			if err != nil {
				tsErr = err
				continue
			}
			row.Timestamp = ts
			tsErr = nil
			continue
		}
		hadValues = true
		val, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			// Non-numeric value for a numeric field: keep the raw cell.
			row.Additional[h] = cell
			continue
		}
		row.Values[field] = val
	}

	if row.Timestamp.IsZero() {
		if tsErr == nil {
			tsErr = errTimestampMissing
		}
		return Row{}, hadValues, tsErr
	}
	if len(row.Additional) == 0 {
		row.Additional = nil
	}
	return row, hadValues, nil
}

var errTimestampMissing = errors.New("row has no parseable timestamp")

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	time.RFC1123,
	time.RFC1123Z,
}

// parseTimestamp accepts the common wearable export formats. Interior
// semicolons become spaces first; some vendors join date and time with ";".
func parseTimestamp(cell string) (time.Time, error) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ";", " "))
	if s == "" {
		return time.Time{}, errTimestampMissing
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	// Unix epoch seconds or milliseconds.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		switch {
		case n > 1e12:
			return time.UnixMilli(n).In(time.Local), nil
		case n > 1e9:
			return time.Unix(n, 0).In(time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", cell)
}

// detectSource scans the filename and header text for a vendor tag.
func detectSource(filename string, headers []string) string {
	haystack := strings.ToLower(filename + " " + strings.Join(headers, " "))
	for _, s := range sources {
		if strings.Contains(haystack, s) {
			if s == "apple" {
				return "apple_watch"
			}
			return s
		}
	}
	return "manual_upload"
}
