package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

func TestFileStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "scaler", []byte(`{"fields":["ndvi"]}`)))
	require.NoError(t, store.Save(ctx, "scaler", []byte(`{"fields":["ndvi_prev"]}`)))

	got, err := store.Load(ctx, "scaler")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fields":["ndvi_prev"]}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scaler.json", entries[0].Name())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "risk_classifier")

	require.Error(t, err)
	assert.True(t, errors.Is(err, port.ErrArtifactNotFound))
	assert.Contains(t, err.Error(), "risk_classifier.json")
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	store := NewFileStore(t.TempDir())
	for _, name := range []string{"", "..", "../etc/passwd", `a\b`} {
		assert.Error(t, store.Save(context.Background(), name, nil), name)
		_, err := store.Load(context.Background(), name)
		assert.Error(t, err, name)
	}
}
