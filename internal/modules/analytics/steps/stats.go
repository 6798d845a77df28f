package steps

import (
	"math"

	types "github.com/yungbote/auratrack-backend/internal/domain"
)

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// popVariance is the population form: mean of squared deviations.
func popVariance(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	mu := mean(v)
	sum := 0.0
	for _, x := range v {
		d := x - mu
		sum += d * d
	}
	return sum / float64(len(v))
}

func popStdDev(v []float64) float64 {
	return math.Sqrt(popVariance(v))
}

// trendOf splits the vector in half by index and compares half-means.
// Differences within 5% of the first half's mean count as stable; vectors
// shorter than 2 are stable by definition.
func trendOf(v []float64) string {
	if len(v) < 2 {
		return types.TrendStable
	}
	half := len(v) / 2
	first := mean(v[:half])
	second := mean(v[half:])
	diff := second - first
	if math.Abs(diff) <= 0.05*math.Abs(first) {
		return types.TrendStable
	}
	if diff > 0 {
		return types.TrendIncreasing
	}
	return types.TrendDecreasing
}

// cohenD computes the standardized mean difference with the sample-size
// weighted pooled SD: sqrt((nM*varM + nN*varN)/(nM+nN)). Zero pooled SD
// yields d = 0.
func cohenD(m, n []float64) float64 {
	if len(m) == 0 || len(n) == 0 {
		return 0
	}
	varM := popVariance(m)
	varN := popVariance(n)
	pooled := math.Sqrt((float64(len(m))*varM + float64(len(n))*varN) / float64(len(m)+len(n)))
	if pooled == 0 {
		return 0
	}
	return (mean(m) - mean(n)) / pooled
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func ptr(x float64) *float64 { return &x }

func strPtr(s string) *string { return &s }
