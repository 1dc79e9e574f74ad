package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

// throttle enforces the minimum interval between persisted risk samples per
// trigger kind. Last-recorded marks are durable so a restart cannot defeat
// the window.
type throttle struct {
	mu     sync.Mutex
	marks  map[types.TriggerKind]time.Time
	window time.Duration
	docs   types.DocumentStore
	logger types.Logger
}

func newThrottle(ctx context.Context, docs types.DocumentStore, logger types.Logger, window time.Duration) *throttle {
	t := &throttle{
		marks:  make(map[types.TriggerKind]time.Time),
		window: window,
		docs:   docs,
		logger: logger,
	}
	t.load(ctx)
	return t
}

// ShouldRecord reports whether an evaluation for the given trigger should
// persist a risk sample. IntakeLogged always records. Every kind records
// unconditionally while the history is empty. Otherwise a kind records at
// most once per window.
func (t *throttle) ShouldRecord(kind types.TriggerKind, historyEmpty bool, now time.Time) bool {
	if kind == types.TriggerIntakeLogged {
		return true
	}
	if historyEmpty {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	mark, ok := t.marks[kind]
	if !ok {
		return true
	}
	return now.Sub(mark) >= t.window
}

// MarkRecorded updates the durable last-recorded timestamp for the kind.
// A failed write is logged; the in-memory mark stays authoritative for the
// running process.
func (t *throttle) MarkRecorded(ctx context.Context, kind types.TriggerKind, now time.Time) {
	t.mu.Lock()
	t.marks[kind] = now
	body, err := json.Marshal(t.marks)
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("failed to marshal throttle marks", "error", err.Error())
		return
	}
	if err := t.docs.Save(ctx, storage.DocThrottleMarks, body); err != nil {
		t.logger.Warn("failed to persist throttle marks", "error", err.Error())
	}
}

func (t *throttle) load(ctx context.Context) {
	body, found, err := t.docs.Load(ctx, storage.DocThrottleMarks)
	if err != nil {
		t.logger.Warn("failed to load throttle marks, starting empty", "error", err.Error())
		return
	}
	if !found {
		return
	}
	var marks map[types.TriggerKind]time.Time
	if err := json.Unmarshal(body, &marks); err != nil {
		t.logger.Warn("malformed throttle marks document, starting empty", "error", err.Error())
		return
	}
	if marks != nil {
		t.marks = marks
	}
}
