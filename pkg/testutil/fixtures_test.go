package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx, "scaler")
	require.ErrorIs(t, err, port.ErrArtifactNotFound)

	buf := []byte(`{"a":1}`)
	require.NoError(t, s.Save(ctx, "scaler", buf))
	buf[0] = 'x'

	got, err := s.Load(ctx, "scaler")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
	assert.Equal(t, []string{"scaler"}, s.Names())

	s.Delete("scaler")
	assert.Empty(t, s.Names())
}

func TestFullInputCoversScalerFields(t *testing.T) {
	in := FullInput()
	for _, f := range feature.ScalerFields() {
		assert.Contains(t, in, f)
	}
}
