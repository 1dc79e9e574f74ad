// Package history implements the append-only risk history store: persisted
// risk samples with day-bucketed averaging, retention trimming, and optional
// archiving of trimmed samples.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

// ArchiveSink receives samples dropped by retention trimming, before they
// are discarded. Archive failures must not block trimming.
type ArchiveSink interface {
	Archive(samples []types.RiskSample) error
}

// Config tunes the history store.
type Config struct {
	// RetentionDays is the horizon beyond which samples are trimmed.
	// The store appends every accepted evaluation (no overwrite-per-day);
	// display layers use DailyAverages for per-day values.
	RetentionDays int
}

// Store is the risk history. Samples are append-only within a session and
// never edited in place. All operations are mutex-guarded.
type Store struct {
	mu      sync.Mutex
	samples []types.RiskSample
	docs    types.DocumentStore
	clock   types.Clock
	logger  types.Logger
	sink    ArchiveSink
	horizon time.Duration
}

// NewStore creates a Store and loads any persisted history. A malformed
// payload yields an empty store (warn-logged, non-fatal). sink may be nil to
// disable archiving.
func NewStore(ctx context.Context, docs types.DocumentStore, clock types.Clock, logger types.Logger, sink ArchiveSink, cfg Config) *Store {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 5
	}
	s := &Store{
		docs:    docs,
		clock:   clock,
		logger:  logger,
		sink:    sink,
		horizon: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}
	s.load(ctx)
	return s
}

// Record appends a sample for the given risk value, trims expired samples,
// and persists the result. Persistence failures are warn-logged; the sample
// stays in memory either way.
func (s *Store) Record(ctx context.Context, risk float64) types.RiskSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample := types.RiskSample{
		ID:   uuid.NewString(),
		Date: s.clock.Now(),
		Risk: risk,
	}
	s.samples = append(s.samples, sample)
	s.trimLocked()
	s.saveLocked(ctx)
	return sample
}

// DailyAverages groups retained samples by local calendar day and returns
// (day, mean risk) pairs sorted ascending by day, for trend charts.
func (s *Store) DailyAverages(days int) []types.DayAverage {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	start := dayStart(now).AddDate(0, 0, -(days - 1))

	type bucket struct {
		sum   float64
		count int
	}
	byDay := make(map[time.Time]*bucket)
	for _, sample := range s.samples {
		local := sample.Date.Local()
		if local.Before(start) {
			continue
		}
		day := dayStart(local)
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.sum += sample.Risk
		b.count++
	}

	out := make([]types.DayAverage, 0, len(byDay))
	for day := start; !day.After(now); day = day.AddDate(0, 0, 1) {
		if b, ok := byDay[day]; ok {
			out = append(out, types.DayAverage{Day: day, Mean: b.sum / float64(b.count)})
		}
	}
	return out
}

// Empty reports whether the store holds no samples. Used by the evaluation
// throttle, which records unconditionally while history is empty.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples) == 0
}

// Len returns the number of retained samples.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Latest returns the most recent sample, if any.
func (s *Store) Latest() (types.RiskSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return types.RiskSample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// Clear empties the store and removes the persisted document. This is an
// explicit reset operation, not part of the normal flow.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = nil
	if err := s.docs.Delete(ctx, storage.DocRiskEntries); err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage, "failed to delete risk history", err)
	}
	return nil
}

// trimLocked drops samples older than the retention horizon, handing them to
// the archive sink first. Caller holds mu.
func (s *Store) trimLocked() bool {
	cutoff := s.clock.Now().Add(-s.horizon)
	i := 0
	for i < len(s.samples) && s.samples[i].Date.Before(cutoff) {
		i++
	}
	if i == 0 {
		return false
	}

	if s.sink != nil {
		trimmed := make([]types.RiskSample, i)
		copy(trimmed, s.samples[:i])
		if err := s.sink.Archive(trimmed); err != nil {
			s.logger.Warn("failed to archive trimmed risk samples", "error", err.Error(), "count", i)
		}
	}

	s.samples = append([]types.RiskSample(nil), s.samples[i:]...)
	return true
}

// saveLocked persists the history. Caller holds mu.
func (s *Store) saveLocked(ctx context.Context) {
	samples := s.samples
	if samples == nil {
		samples = []types.RiskSample{}
	}
	body, err := json.Marshal(samples)
	if err != nil {
		s.logger.Error("failed to marshal risk history", "error", err.Error())
		return
	}
	if err := s.docs.Save(ctx, storage.DocRiskEntries, body); err != nil {
		s.logger.Warn("failed to persist risk history", "error", err.Error(), "samples", len(s.samples))
	}
}

// load reads the persisted history, trims it, and saves back if trimming
// dropped anything. Malformed payloads degrade to an empty store.
func (s *Store) load(ctx context.Context) {
	body, ok, err := s.docs.Load(ctx, storage.DocRiskEntries)
	if err != nil {
		s.logger.Warn("failed to load risk history, starting empty", "error", err.Error())
		return
	}
	if !ok {
		return
	}

	var samples []types.RiskSample
	if err := json.Unmarshal(body, &samples); err != nil {
		s.logger.Warn("malformed risk history payload, resetting to empty", "error", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = samples
	if s.trimLocked() {
		s.saveLocked(ctx)
	}
}

// dayStart returns midnight at the start of t's local calendar day.
func dayStart(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
