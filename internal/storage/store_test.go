package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydromon/internal/types"
)

// storeUnderTest exercises the DocumentStore contract shared by all backends.
func storeUnderTest(t *testing.T, store types.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	// Missing document is not an error.
	body, ok, err := store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)

	// Save then load round-trips.
	require.NoError(t, store.Save(ctx, DocWaterLogs, []byte(`[{"amount":250}]`)))
	body, ok, err = store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"amount":250}]`, string(body))

	// Save replaces the previous version whole.
	require.NoError(t, store.Save(ctx, DocWaterLogs, []byte(`[]`)))
	body, _, err = store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))

	// Documents are independent.
	require.NoError(t, store.Save(ctx, DocThrottleMarks, []byte(`{}`)))
	_, ok, err = store.Load(ctx, DocRiskEntries)
	require.NoError(t, err)
	assert.False(t, ok)

	// Delete is idempotent.
	require.NoError(t, store.Delete(ctx, DocWaterLogs))
	require.NoError(t, store.Delete(ctx, DocWaterLogs))
	_, ok, err = store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Contract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storeUnderTest(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, DocUserProfile, []byte(`{"age":30,"weight":160,"sex":"female"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	body, ok, err := reopened.Load(ctx, DocUserProfile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"age":30,"weight":160,"sex":"female"}`, string(body))
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, DocWaterLogs, []byte(`[1]`)))

	body, _, err := store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	body[0] = 'X'

	again, _, err := store.Load(ctx, DocWaterLogs)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), again)
}
