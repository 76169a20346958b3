package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
)

func TestGenerateSynthetic_Shape(t *testing.T) {
	tbl := GenerateSynthetic(30, DefaultSeed)
	require.Equal(t, 30, tbl.Rows())
	assert.Equal(t, SeriesStart, tbl.Dates[0])
	assert.Equal(t, SeriesStart.AddDate(0, 0, 29), tbl.Dates[29])

	for _, name := range append(feature.ScalerFields(), feature.BlueBand, feature.GreenBand,
		feature.TargetNDVI7DayAhead, feature.TargetIsChange, feature.TargetRiskLevel) {
		_, ok := tbl.Column(name)
		assert.True(t, ok, "missing column %s", name)
	}
}

func TestGenerateSynthetic_Ranges(t *testing.T) {
	tbl := GenerateSynthetic(200, 7)
	ranges := map[string][2]float64{
		feature.NDVI:        {0, 1},
		feature.RedBand:     {0.1, 0.4},
		feature.NIRBand:     {0.3, 0.6},
		feature.BlueBand:    {0.05, 0.3},
		feature.GreenBand:   {0.1, 0.4},
		feature.CloudCover:  {0, 0.3},
		feature.Temperature: {15, 35},
		feature.Humidity:    {30, 90},
	}
	for name, r := range ranges {
		col, _ := tbl.Column(name)
		for _, v := range col {
			assert.GreaterOrEqual(t, v, r[0], name)
			assert.LessOrEqual(t, v, r[1], name)
		}
	}
}

func TestGenerateSynthetic_Reproducible(t *testing.T) {
	a := GenerateSynthetic(30, 42)
	b := GenerateSynthetic(30, 42)
	c := GenerateSynthetic(30, 43)

	na, _ := a.Column(feature.NDVI)
	nb, _ := b.Column(feature.NDVI)
	nc, _ := c.Column(feature.NDVI)
	assert.Equal(t, na, nb)
	assert.NotEqual(t, na, nc)
}

func TestGenerateSynthetic_DefaultsRowCount(t *testing.T) {
	assert.Equal(t, DefaultSamples, GenerateSynthetic(0, 1).Rows())
}

func TestDerive(t *testing.T) {
	dates := make([]time.Time, 10)
	for i := range dates {
		dates[i] = SeriesStart.AddDate(0, 0, i)
	}
	tbl := NewTable(dates)
	require.NoError(t, tbl.Set(feature.NDVI, []float64{0.8, 0.65, 0.62, 0.35, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7}))
	require.NoError(t, Derive(tbl))

	prev, _ := tbl.Column(feature.NDVIPrev)
	change, _ := tbl.Column(feature.NDVIChange)
	ahead, _ := tbl.Column(feature.TargetNDVI7DayAhead)
	isChange, _ := tbl.Column(feature.TargetIsChange)
	risk, _ := tbl.Column(feature.TargetRiskLevel)

	// Row 0 takes the last reading as history and the raw value as change.
	assert.Equal(t, 0.7, prev[0])
	assert.Equal(t, 0.8, change[0])
	assert.Equal(t, 0.8, prev[1])
	assert.InDelta(t, -0.15, change[1], 1e-12)

	// Mean of rows 1..7.
	assert.InDelta(t, (0.65+0.62+0.35+0.7*4)/7, ahead[0], 1e-12)
	assert.InDelta(t, (0.35+0.7*6)/7, ahead[2], 1e-12)
	for i := 3; i < 10; i++ {
		assert.True(t, IsMissing(ahead[i]), "row %d", i)
	}

	assert.Equal(t, []float64{0, 1, 0, 1, 0, 0, 0, 0, 0, 0}, isChange)
	// 0.8 rising -> 0; drop of 0.15 -> 1; 0.62 with drop 0.03 -> 0; 0.35 -> 2.
	assert.Equal(t, []float64{0, 1, 0, 2, 0, 0, 0, 0, 0, 0}, risk)
}

func TestDerive_MissingNDVI(t *testing.T) {
	assert.Error(t, Derive(NewTable(nil)))
}

func TestProject_DropsIncompleteRows(t *testing.T) {
	tbl := GenerateSynthetic(30, DefaultSeed)

	x, y, rows, err := tbl.Project(feature.TaskNDVI.Fields(), feature.TaskNDVI.Target())
	require.NoError(t, err)
	// Only the last 7 rows lack a forecast target.
	assert.Len(t, x, 23)
	assert.Len(t, y, 23)
	assert.Equal(t, 0, rows[0])
	assert.Equal(t, 22, rows[len(rows)-1])
	for _, row := range x {
		assert.Len(t, row, 7)
		for _, v := range row {
			assert.False(t, math.IsNaN(v))
		}
	}

	x, _, _, err = tbl.Project(feature.TaskChange.Fields(), feature.TaskChange.Target())
	require.NoError(t, err)
	assert.Len(t, x, 30)

	x, _, _, err = tbl.Project(feature.TaskRisk.Fields(), feature.TaskRisk.Target())
	require.NoError(t, err)
	assert.Len(t, x, 30)
}

func TestProject_MissingColumns(t *testing.T) {
	tbl := GenerateSynthetic(10, 1)

	_, _, _, err := tbl.Project([]string{"ndvi", "soil"}, feature.TargetRiskLevel)
	assert.ErrorContains(t, err, "missing columns [soil]")

	_, _, _, err = tbl.Project([]string{"ndvi"}, "yield")
	assert.ErrorContains(t, err, "missing target column yield")
}

func TestLabels(t *testing.T) {
	l, err := Labels([]float64{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, l)

	_, err = Labels([]float64{0.5})
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	tbl := GenerateSynthetic(12, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.True(t, strings.HasPrefix(buf.String(), "date,ndvi,"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Dates, back.Dates)
	assert.Equal(t, tbl.Columns(), back.Columns())

	want, _ := tbl.Column(feature.NDVIChange)
	got, _ := back.Column(feature.NDVIChange)
	assert.Equal(t, want, got)
}

func TestReadCSV_DerivesFromRawBands(t *testing.T) {
	raw := "date,ndvi,red_band,is_flag\n2024-01-01,0.7,0.2,True\n2024-01-02,0.5,0.3,false\n"
	tbl, err := ReadCSV(strings.NewReader(raw))
	require.NoError(t, err)

	change, ok := tbl.Column(feature.NDVIChange)
	require.True(t, ok)
	assert.InDelta(t, 0.7, change[0], 1e-12)
	assert.InDelta(t, -0.2, change[1], 1e-12)

	flag, _ := tbl.Column("is_flag")
	assert.Equal(t, []float64{1, 0}, flag)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("ndvi\n0.4\n"))
	assert.ErrorContains(t, err, "no date column")

	_, err = ReadCSV(strings.NewReader("date,ndvi\n2024-01-01,lush\n"))
	assert.ErrorContains(t, err, "column ndvi")

	_, err = ReadCSV(strings.NewReader("date,ndvi\nyesterday,0.4\n"))
	assert.Error(t, err)
}
