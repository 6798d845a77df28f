package csvparse

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical metric fields. These strings are the stable external vocabulary
// for CSV ingestion; field mappings persisted on upload sessions use them.
const (
	FieldTimestamp       = "timestamp"
	FieldStress          = "stress"
	FieldRecovery        = "recovery"
	FieldHRV             = "hrv"
	FieldHeartRate       = "heartRate"
	FieldSleepEfficiency = "sleepEfficiency"
	FieldSleepHeartRate  = "sleepHeartRate"
	FieldSkinTemperature = "skinTemperature"
	FieldRestlessPeriods = "restlessPeriods"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogEntry struct {
	Field    string   `yaml:"field"`
	Variants []string `yaml:"variants"`
}

type catalogFile struct {
	Fields []catalogEntry `yaml:"fields"`
}

var catalog []catalogEntry

func init() {
	var parsed catalogFile
	if err := yaml.Unmarshal(catalogYAML, &parsed); err != nil {
		panic(fmt.Sprintf("csvparse: embedded catalog is invalid: %v", err))
	}
	if len(parsed.Fields) == 0 {
		panic("csvparse: embedded catalog is empty")
	}
	catalog = parsed.Fields
}

var (
	separatorRunRE = regexp.MustCompile(`[_\s-]+`)
	nonAlnumRE     = regexp.MustCompile(`[^a-z0-9_]`)
)

// normalizeHeader lowercases, trims, collapses separator runs to "_", and
// strips everything that is not alphanumeric or "_".
func normalizeHeader(h string) string {
	n := strings.ToLower(strings.TrimSpace(h))
	n = separatorRunRE.ReplaceAllString(n, "_")
	n = nonAlnumRE.ReplaceAllString(n, "")
	return strings.Trim(n, "_")
}

// resolveHeader maps a raw CSV header to a canonical field. Three passes over
// the catalog, in order: exact variant match, token-aligned containment for
// variants of 3+ chars (plus whole-token equality for shorter ones), then a
// looser substring pass for variants of 4+ chars. A header containing "hrv"
// never resolves to heartRate, in any pass.
func resolveHeader(header string) (string, bool) {
	n := normalizeHeader(header)
	if n == "" {
		return "", false
	}
	blocked := strings.Contains(n, "hrv")

	// Pass 1: exact.
	for _, entry := range catalog {
		if blocked && entry.Field == FieldHeartRate {
			continue
		}
		for _, v := range entry.Variants {
			if n == v {
				return entry.Field, true
			}
		}
	}

	tokens := strings.Split(n, "_")

	// Pass 2: token-aligned prefix/containment.
	for _, entry := range catalog {
		if blocked && entry.Field == FieldHeartRate {
			continue
		}
		for _, v := range entry.Variants {
			if len(v) >= 3 && containsAtTokenStart(n, v) {
				return entry.Field, true
			}
			for _, tok := range tokens {
				if tok == v {
					return entry.Field, true
				}
			}
		}
	}

	// Pass 3: substring, longer variants only.
	for _, entry := range catalog {
		if blocked && entry.Field == FieldHeartRate {
			continue
		}
		for _, v := range entry.Variants {
			if len(v) >= 4 && containsAtBoundary(n, v) {
				return entry.Field, true
			}
		}
	}

	return "", false
}

// containsAtTokenStart reports whether v occurs in n starting at the string
// start or immediately after "_".
func containsAtTokenStart(n, v string) bool {
	idx := 0
	for {
		i := strings.Index(n[idx:], v)
		if i < 0 {
			return false
		}
		at := idx + i
		if at == 0 || n[at-1] == '_' {
			return true
		}
		idx = at + 1
		if idx >= len(n) {
			return false
		}
	}
}

// containsAtBoundary accepts occurrences that either start at a token start
// or end at the string end / before "_".
func containsAtBoundary(n, v string) bool {
	idx := 0
	for {
		i := strings.Index(n[idx:], v)
		if i < 0 {
			return false
		}
		at := idx + i
		end := at + len(v)
		startsOK := at == 0 || n[at-1] == '_'
		endsOK := end == len(n) || n[end] == '_'
		if startsOK || endsOK {
			return true
		}
		idx = at + 1
		if idx >= len(n) {
			return false
		}
	}
}
