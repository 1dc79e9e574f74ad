// Package waterlog implements the append-only water intake log and its
// rolling aggregations: windowed totals, the decay-weighted exposure metric,
// and calendar-day breakdowns for charting.
package waterlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

// DefaultSegmentWeights is the reference decay profile, newest segment first.
var DefaultSegmentWeights = []float64{0.50, 0.25, 0.13, 0.07, 0.035, 0.015}

// segmentBounds are the lookback segment edges in hours, measured backward
// from now. Segment i covers [segmentBounds[i], segmentBounds[i+1]).
var segmentBounds = []time.Duration{
	0,
	12 * time.Hour,
	24 * time.Hour,
	48 * time.Hour,
	72 * time.Hour,
	96 * time.Hour,
	120 * time.Hour,
}

// Config tunes the water log store.
type Config struct {
	// RetentionDays is the horizon beyond which intake events are dropped.
	RetentionDays int

	// SegmentWeights are the six decay weights applied to the lookback
	// segments, newest first. Nil means DefaultSegmentWeights.
	SegmentWeights []float64
}

// Store is the water intake log. All operations are mutex-guarded so a
// concurrent read never observes a half-trimmed log. Events are kept ordered
// by time (insertion order equals chronological order) and trimmed to the
// retention horizon after every load and every append.
type Store struct {
	mu      sync.Mutex
	events  []types.IntakeEvent
	docs    types.DocumentStore
	clock   types.Clock
	logger  types.Logger
	horizon time.Duration
	weights []float64
}

// NewStore creates a Store and loads any persisted log from the document
// store. A malformed persisted payload yields an empty log (warn-logged,
// non-fatal). If loading trimmed expired entries, the trimmed log is saved
// back immediately.
func NewStore(ctx context.Context, docs types.DocumentStore, clock types.Clock, logger types.Logger, cfg Config) *Store {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 5
	}
	weights := cfg.SegmentWeights
	if len(weights) == 0 {
		weights = DefaultSegmentWeights
	}

	s := &Store{
		docs:    docs,
		clock:   clock,
		logger:  logger,
		horizon: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		weights: weights,
	}
	s.load(ctx)
	return s
}

// AddWater appends an intake event stamped with the current time, trims the
// log, and persists it. Negative amounts are rejected; zero is allowed (a
// dismissed reminder logs nothing but callers may record an explicit zero).
func (s *Store) AddWater(ctx context.Context, amount float64) (types.IntakeEvent, error) {
	if amount < 0 {
		return types.IntakeEvent{}, types.NewAppError(types.ErrCodeValidationAmount,
			fmt.Sprintf("intake amount must be non-negative, got %v", amount), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := types.IntakeEvent{Amount: amount, Date: s.clock.Now()}
	s.events = append(s.events, ev)
	s.trimLocked()
	s.saveLocked(ctx)
	return ev, nil
}

// TotalSince returns the summed intake volume for events no older than d.
func (s *Store) TotalSince(d time.Duration) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-d)
	var total float64
	for _, ev := range s.events {
		if !ev.Date.Before(cutoff) {
			total += ev.Amount
		}
	}
	return total
}

// WeightedExposure partitions the lookback window into six contiguous
// segments measured backward from now and sums each segment's volume scaled
// by its weight. The weights sum to ~1.0, so the result is a decayed-recency
// exposure proxy in the same units as raw volume, heavier on recent intake.
func (s *Store) WeightedExposure() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	segments := make([]float64, len(segmentBounds)-1)
	for _, ev := range s.events {
		age := now.Sub(ev.Date)
		if age < 0 {
			age = 0
		}
		for i := 0; i < len(segmentBounds)-1; i++ {
			if age >= segmentBounds[i] && age < segmentBounds[i+1] {
				segments[i] += ev.Amount
				break
			}
		}
	}

	var exposure float64
	for i, vol := range segments {
		if i < len(s.weights) {
			exposure += vol * s.weights[i]
		}
	}
	return exposure
}

// DailyBreakdown groups events by local calendar day (and by hour within
// each day) over the last days days, returning per-day totals sorted
// ascending by day. Days without intake are omitted.
func (s *Store) DailyBreakdown(days int) []types.DayTotal {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	start := dayStart(now).AddDate(0, 0, -(days - 1))

	byDay := make(map[time.Time]*types.DayTotal)
	for _, ev := range s.events {
		local := ev.Date.Local()
		if local.Before(start) {
			continue
		}
		day := dayStart(local)
		dt, ok := byDay[day]
		if !ok {
			dt = &types.DayTotal{Day: day, ByHour: make(map[int]float64)}
			byDay[day] = dt
		}
		dt.Total += ev.Amount
		dt.ByHour[local.Hour()] += ev.Amount
	}

	out := make([]types.DayTotal, 0, len(byDay))
	for day := start; !day.After(now); day = day.AddDate(0, 0, 1) {
		if dt, ok := byDay[day]; ok {
			out = append(out, *dt)
		}
	}
	return out
}

// Len returns the number of retained events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// trimLocked drops events older than the retention horizon. Caller holds mu.
func (s *Store) trimLocked() bool {
	cutoff := s.clock.Now().Add(-s.horizon)
	i := 0
	for i < len(s.events) && s.events[i].Date.Before(cutoff) {
		i++
	}
	if i == 0 {
		return false
	}
	s.events = append([]types.IntakeEvent(nil), s.events[i:]...)
	return true
}

// saveLocked persists the log. Write failures are warn-logged; in-memory
// state stays authoritative for the running process. Caller holds mu.
func (s *Store) saveLocked(ctx context.Context) {
	events := s.events
	if events == nil {
		events = []types.IntakeEvent{}
	}
	body, err := json.Marshal(events)
	if err != nil {
		s.logger.Error("failed to marshal water log", "error", err.Error())
		return
	}
	if err := s.docs.Save(ctx, storage.DocWaterLogs, body); err != nil {
		s.logger.Warn("failed to persist water log", "error", err.Error(), "events", len(s.events))
	}
}

// load reads the persisted log, trims it, and saves back if trimming dropped
// anything. Malformed payloads degrade to an empty log.
func (s *Store) load(ctx context.Context) {
	body, ok, err := s.docs.Load(ctx, storage.DocWaterLogs)
	if err != nil {
		s.logger.Warn("failed to load water log, starting empty", "error", err.Error())
		return
	}
	if !ok {
		return
	}

	var events []types.IntakeEvent
	if err := json.Unmarshal(body, &events); err != nil {
		s.logger.Warn("malformed water log payload, resetting to empty", "error", err.Error())
		s.events = nil
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	if s.trimLocked() {
		s.saveLocked(ctx)
	}
}

// dayStart returns midnight at the start of t's local calendar day.
func dayStart(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
