package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFromCode(t *testing.T) {
	tests := []struct {
		code   int
		label  string
		action ActionRequired
	}{
		{code: 0, label: "Low", action: ActionNone},
		{code: 1, label: "Medium", action: ActionModerate},
		{code: 2, label: "High", action: ActionHigh},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			level, err := RiskLevelFromCode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.label, level.String())
			assert.Equal(t, tt.code, level.Code())
			assert.Equal(t, tt.action, level.ActionRequired())
			assert.False(t, level.IsZero())
		})
	}
}

func TestRiskLevelFromCode_Invalid(t *testing.T) {
	for _, code := range []int{-1, 3, 42} {
		_, err := RiskLevelFromCode(code)
		assert.Error(t, err)
	}
}

func TestRiskLevelFromString(t *testing.T) {
	level, err := RiskLevelFromString("Medium")
	require.NoError(t, err)
	assert.True(t, level.Equal(RiskLevelMedium))

	_, err = RiskLevelFromString("MEDIUM")
	assert.Error(t, err)
}

func TestRiskLevel_ZeroValue(t *testing.T) {
	var r RiskLevel
	assert.True(t, r.IsZero())
	assert.Equal(t, ActionNone, r.ActionRequired())
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name       string
		detected   bool
		confidence float64
		want       Severity
	}{
		{name: "confident detection", detected: true, confidence: 0.95, want: SeverityHigh},
		{name: "threshold is exclusive", detected: true, confidence: 0.8, want: SeverityLow},
		{name: "weak detection", detected: true, confidence: 0.55, want: SeverityLow},
		{name: "no change", detected: false, confidence: 0.99, want: SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityFor(tt.detected, tt.confidence))
		})
	}
}
