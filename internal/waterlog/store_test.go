package waterlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

// mockClock implements types.Clock for deterministic testing.
type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

// mockLogger implements types.Logger as a no-op for tests.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

var testNow = time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *mockClock, *storage.MemoryStore) {
	t.Helper()
	clock := &mockClock{now: testNow}
	docs := storage.NewMemoryStore()
	s := NewStore(context.Background(), docs, clock, &mockLogger{}, Config{RetentionDays: 5})
	return s, clock, docs
}

func TestAddWater_RejectsNegativeAmount(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.AddWater(context.Background(), -100)
	require.Error(t, err)

	appErr, ok := err.(*types.AppError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeValidationAmount, appErr.Code)
	assert.Equal(t, 0, s.Len())
}

func TestAddWater_AppendsAndPersists(t *testing.T) {
	s, _, docs := newTestStore(t)

	ev, err := s.AddWater(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, 250.0, ev.Amount)
	assert.Equal(t, testNow, ev.Date)

	body, ok, err := docs.Load(context.Background(), storage.DocWaterLogs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(body), `"amount":250`)
}

func TestTotalSince_WindowedSums(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	clock.now = testNow.Add(-30 * time.Hour)
	_, _ = s.AddWater(ctx, 500)
	clock.now = testNow.Add(-10 * time.Hour)
	_, _ = s.AddWater(ctx, 300)
	clock.now = testNow
	_, _ = s.AddWater(ctx, 200)

	assert.Equal(t, 200.0, s.TotalSince(time.Hour))
	assert.Equal(t, 500.0, s.TotalSince(24*time.Hour))
	assert.Equal(t, 1000.0, s.TotalSince(48*time.Hour))
}

func TestTotalSince_MonotonicInDuration(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	for _, age := range []time.Duration{2 * time.Hour, 20 * time.Hour, 60 * time.Hour, 100 * time.Hour} {
		clock.now = testNow.Add(-age)
		_, _ = s.AddWater(ctx, 100)
	}
	clock.now = testNow

	prev := 0.0
	for d := time.Hour; d <= 120*time.Hour; d += 6 * time.Hour {
		total := s.TotalSince(d)
		assert.GreaterOrEqual(t, total, prev)
		prev = total
	}
}

func TestWeightedExposure_SegmentWeights(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	// One liter in each segment.
	for _, age := range []time.Duration{
		6 * time.Hour,   // [0,12h)   w=0.50
		18 * time.Hour,  // [12h,24h) w=0.25
		36 * time.Hour,  // [24h,48h) w=0.13
		60 * time.Hour,  // [48h,72h) w=0.07
		84 * time.Hour,  // [72h,96h) w=0.035
		108 * time.Hour, // [96h,120h) w=0.015
	} {
		clock.now = testNow.Add(-age)
		_, err := s.AddWater(ctx, 1000)
		require.NoError(t, err)
	}
	clock.now = testNow

	want := 1000 * (0.50 + 0.25 + 0.13 + 0.07 + 0.035 + 0.015)
	assert.InDelta(t, want, s.WeightedExposure(), 1e-6)
}

func TestWeightedExposure_BatchingInvariant(t *testing.T) {
	// Only the per-segment sum matters, not how events are batched.
	one, clockA, _ := newTestStore(t)
	many, clockB, _ := newTestStore(t)
	ctx := context.Background()

	clockA.now = testNow.Add(-6 * time.Hour)
	_, _ = one.AddWater(ctx, 900)

	for i := 0; i < 3; i++ {
		clockB.now = testNow.Add(-time.Duration(2+3*i) * time.Hour)
		_, _ = many.AddWater(ctx, 300)
	}

	clockA.now = testNow
	clockB.now = testNow
	assert.InDelta(t, one.WeightedExposure(), many.WeightedExposure(), 1e-9)
}

func TestWeightedExposure_IncreasesWithAnyAmount(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	clock.now = testNow.Add(-100 * time.Hour) // oldest, lightest segment
	_, _ = s.AddWater(ctx, 500)
	clock.now = testNow
	before := s.WeightedExposure()

	clock.now = testNow.Add(-100 * time.Hour)
	_, _ = s.AddWater(ctx, 1)
	clock.now = testNow
	assert.Greater(t, s.WeightedExposure(), before)
}

func TestDailyBreakdown_GroupsByDayAndHour(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	clock.now = time.Date(2026, 8, 9, 8, 15, 0, 0, time.UTC)
	_, _ = s.AddWater(ctx, 200)
	clock.now = time.Date(2026, 8, 9, 8, 45, 0, 0, time.UTC)
	_, _ = s.AddWater(ctx, 300)
	clock.now = time.Date(2026, 8, 10, 11, 0, 0, 0, time.UTC)
	_, _ = s.AddWater(ctx, 400)
	clock.now = testNow

	days := s.DailyBreakdown(5)
	require.Len(t, days, 2)

	assert.Equal(t, 500.0, days[0].Total)
	assert.Equal(t, 500.0, days[0].ByHour[8])
	assert.True(t, days[0].Day.Before(days[1].Day))
	assert.Equal(t, 400.0, days[1].Total)
	assert.Equal(t, 400.0, days[1].ByHour[11])
}

func TestTrim_DropsExpiredOnAppend(t *testing.T) {
	s, clock, _ := newTestStore(t)
	ctx := context.Background()

	clock.now = testNow.Add(-6 * 24 * time.Hour) // beyond 5-day horizon
	_, _ = s.AddWater(ctx, 999)
	clock.now = testNow
	_, _ = s.AddWater(ctx, 100)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 100.0, s.TotalSince(120*time.Hour))
}

func TestLoad_MalformedPayloadYieldsEmptyStore(t *testing.T) {
	docs := storage.NewMemoryStore()
	require.NoError(t, docs.Save(context.Background(), storage.DocWaterLogs, []byte(`{not json`)))

	s := NewStore(context.Background(), docs, &mockClock{now: testNow}, &mockLogger{}, Config{RetentionDays: 5})
	assert.Equal(t, 0, s.Len())
}

func TestLoad_RoundTripPreservesTotals(t *testing.T) {
	clock := &mockClock{now: testNow}
	docs := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewStore(ctx, docs, clock, &mockLogger{}, Config{RetentionDays: 5})
	_, _ = first.AddWater(ctx, 250)
	_, _ = first.AddWater(ctx, 500)

	second := NewStore(ctx, docs, clock, &mockLogger{}, Config{RetentionDays: 5})
	assert.Equal(t, 2, second.Len())
	assert.Equal(t, 750.0, second.TotalSince(24*time.Hour))
	assert.InDelta(t, first.WeightedExposure(), second.WeightedExposure(), 1e-9)
}

func TestLoad_TrimsExpiredEntriesAndSavesBack(t *testing.T) {
	clock := &mockClock{now: testNow}
	docs := storage.NewMemoryStore()
	ctx := context.Background()

	old := NewStore(ctx, docs, &mockClock{now: testNow.Add(-10 * 24 * time.Hour)}, &mockLogger{}, Config{RetentionDays: 5})
	_, _ = old.AddWater(ctx, 800)

	s := NewStore(ctx, docs, clock, &mockLogger{}, Config{RetentionDays: 5})
	assert.Equal(t, 0, s.Len())

	// Trimmed state was written back.
	body, ok, err := docs.Load(ctx, storage.DocWaterLogs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(body))
}
