// Package alerts delivers threshold-crossing alert requests from the engine
// to outbound channels: signed webhooks and an SQS queue for downstream
// notification workers. Delivery failures are soft; the engine's state
// transitions never depend on a channel succeeding.
package alerts

import (
	"context"

	"hydromon/internal/types"
)

// Channel is a single outbound alert delivery channel.
type Channel interface {
	// Type returns the channel type (e.g., "webhook", "sqs").
	Type() types.ChannelType

	// Deliver transmits the alert request.
	Deliver(ctx context.Context, req types.AlertRequest) error
}

// Compile-time assertion that Dispatcher implements types.AlertSink.
var _ types.AlertSink = (*Dispatcher)(nil)

// Dispatcher fans one alert request out to every configured channel. With no
// channels configured it degrades to a log-only sink.
type Dispatcher struct {
	channels []Channel
	logger   types.Logger
}

// NewDispatcher creates a Dispatcher over the given channels.
func NewDispatcher(logger types.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

// Emit delivers the alert to every channel. Per-channel failures are
// warn-logged and do not affect the other channels.
func (d *Dispatcher) Emit(ctx context.Context, req types.AlertRequest) {
	d.logger.Info("alert emitted",
		"kind", string(req.Kind),
		"risk", req.Risk,
		"trigger", string(req.Trigger),
		"channels", len(d.channels),
	)

	for _, ch := range d.channels {
		if err := ch.Deliver(ctx, req); err != nil {
			d.logger.Warn("alert delivery failed",
				"channel", string(ch.Type()),
				"kind", string(req.Kind),
				"error", err.Error(),
			)
		}
	}
}
