package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertUnitInterval checks 0 <= v <= 1.
func AssertUnitInterval(t *testing.T, v float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.GreaterOrEqual(t, v, 0.0, msgAndArgs...) && assert.LessOrEqual(t, v, 1.0, msgAndArgs...)
}
