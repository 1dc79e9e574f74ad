package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

func TestStore_AbsentProfile(t *testing.T) {
	s := NewStore(context.Background(), storage.NewMemoryStore(), &mockLogger{})
	assert.Nil(t, s.Current())
}

func TestStore_SaveAndRoundTrip(t *testing.T) {
	docs := storage.NewMemoryStore()
	ctx := context.Background()

	s := NewStore(ctx, docs, &mockLogger{})
	p := types.UserProfile{Age: 28, WeightLb: 143, Sex: types.SexFemale, Location: "94107"}
	require.NoError(t, s.Save(ctx, p))

	got := s.Current()
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	reloaded := NewStore(ctx, docs, &mockLogger{})
	require.NotNil(t, reloaded.Current())
	assert.Equal(t, 143.0, reloaded.Current().WeightLb)
}

func TestStore_SaveRejectsInvalidProfile(t *testing.T) {
	s := NewStore(context.Background(), storage.NewMemoryStore(), &mockLogger{})

	err := s.Save(context.Background(), types.UserProfile{Age: 0, WeightLb: 150, Sex: types.SexMale})
	require.Error(t, err)

	appErr, ok := err.(*types.AppError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeValidationProfile, appErr.Code)
	assert.Nil(t, s.Current())
}

func TestStore_MalformedPayloadTreatedAsAbsent(t *testing.T) {
	docs := storage.NewMemoryStore()
	require.NoError(t, docs.Save(context.Background(), storage.DocUserProfile, []byte(`"nope"`)))

	s := NewStore(context.Background(), docs, &mockLogger{})
	assert.Nil(t, s.Current())
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, storage.NewMemoryStore(), &mockLogger{})
	require.NoError(t, s.Save(ctx, types.UserProfile{Age: 40, WeightLb: 180, Sex: types.SexMale}))

	got := s.Current()
	got.WeightLb = 999

	assert.Equal(t, 180.0, s.Current().WeightLb)
}
