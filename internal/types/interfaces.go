package types

import (
	"context"
	"time"
)

// Validator is implemented by entities to self-validate.
type Validator interface {
	Validate() error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Logger defines the structured logging interface used throughout the engine.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// DocumentStore is the persistence port: a key-value store of named JSON
// documents. Implementations must make Save atomic per document so a
// concurrent Load never observes a partial write.
type DocumentStore interface {
	// Load returns the document body and whether it exists. A missing
	// document is not an error.
	Load(ctx context.Context, name string) ([]byte, bool, error)

	// Save writes the document body, replacing any previous version.
	Save(ctx context.Context, name string, body []byte) error

	// Delete removes the document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, name string) error
}

// AlertSink receives threshold-crossing alert requests from the engine.
// Implementations deliver them to external collaborators (webhooks, queues)
// and must treat delivery failures as soft errors.
type AlertSink interface {
	Emit(ctx context.Context, req AlertRequest)
}
