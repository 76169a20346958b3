package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
)

// Synthetic series defaults.
const (
	DefaultSamples = 30
	DefaultSeed    = 42
	ForecastDays   = 7
)

// SeriesStart is the date of the first synthetic row.
var SeriesStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// GenerateSynthetic produces a deterministic daily series of n rows with raw
// bands, weather covariates, derived NDVI features and all three targets.
func GenerateSynthetic(n int, seed uint64) *Table {
	if n <= 0 {
		n = DefaultSamples
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = SeriesStart.AddDate(0, 0, i)
	}

	base := uniform(rng, n, 0.3, 0.9)
	ndvi := make([]float64, n)
	for i := range ndvi {
		ndvi[i] = clip(base[i]+rng.NormFloat64()*0.05, 0, 1)
	}

	t := NewTable(dates)
	must(t.Set(feature.NDVI, ndvi))
	must(t.Set(feature.RedBand, uniform(rng, n, 0.1, 0.4)))
	must(t.Set(feature.NIRBand, uniform(rng, n, 0.3, 0.6)))
	must(t.Set(feature.BlueBand, uniform(rng, n, 0.05, 0.3)))
	must(t.Set(feature.GreenBand, uniform(rng, n, 0.1, 0.4)))
	must(t.Set(feature.CloudCover, uniform(rng, n, 0, 0.3)))
	must(t.Set(feature.Temperature, uniform(rng, n, 15, 35)))
	must(t.Set(feature.Humidity, uniform(rng, n, 30, 90)))
	must(Derive(t))
	return t
}

// Derive fills ndvi_prev, ndvi_change, ndvi_7day_ahead, is_change and
// risk_level from the ndvi column. The first row has no previous day, so its
// ndvi_prev and ndvi_change are missing; the last ForecastDays rows have no
// forecast target.
func Derive(t *Table) error {
	ndvi, ok := t.Column(feature.NDVI)
	if !ok {
		return fmt.Errorf("dataset: missing column %s", feature.NDVI)
	}
	n := len(ndvi)

	prev := make([]float64, n)
	change := make([]float64, n)
	ahead := make([]float64, n)
	isChange := make([]float64, n)
	risk := make([]float64, n)

	for i := 0; i < n; i++ {
		if i == 0 {
			// Row 0 wraps to the last reading and diffs against zero.
			prev[i], change[i] = ndvi[n-1], ndvi[0]
		} else {
			prev[i] = ndvi[i-1]
			change[i] = ndvi[i] - ndvi[i-1]
		}

		if i+ForecastDays < n {
			ahead[i] = stat.Mean(ndvi[i+1:i+1+ForecastDays], nil)
		} else {
			ahead[i] = Missing
		}

		if change[i] < -0.1 {
			isChange[i] = 1
		}
		risk[i] = riskLevel(ndvi[i], change[i])
	}

	derived := []struct {
		name string
		col  []float64
	}{
		{feature.NDVIPrev, prev},
		{feature.NDVIChange, change},
		{feature.TargetNDVI7DayAhead, ahead},
		{feature.TargetIsChange, isChange},
		{feature.TargetRiskLevel, risk},
	}
	for _, d := range derived {
		if err := t.Set(d.name, d.col); err != nil {
			return err
		}
	}
	return nil
}

// riskLevel is 2 below 0.4 NDVI, 1 below 0.6 or on a drop steeper than 0.05,
// else 0.
func riskLevel(ndvi, change float64) float64 {
	switch {
	case ndvi < 0.4:
		return 2
	case ndvi < 0.6 || change < -0.05:
		return 1
	default:
		return 0
	}
}

func uniform(rng *rand.Rand, n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
