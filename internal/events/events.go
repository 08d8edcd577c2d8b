package events

import (
	"context"

	"monad-explorer/internal/interfaces"
	"monad-explorer/internal/logger"
	"monad-explorer/internal/models"
)

// LogEmitter logs every search and forwards it to the wrapped emitter
type LogEmitter struct {
	WrappedEmitter interfaces.EventEmitter
}

// EmitEvent logs the search and forwards to the wrapped emitter
func (d *LogEmitter) EmitEvent(ctx context.Context, event models.SearchEvent) error {
	logger.GetLogger().Info().
		Str("query", event.Query).
		Str("type", event.Type).
		Str("value", event.Value).
		Str("path", event.Path).
		Time("timestamp", event.Timestamp).
		Msg("Search")

	// Forward to wrapped emitter
	if d.WrappedEmitter != nil {
		return d.WrappedEmitter.EmitEvent(ctx, event)
	}
	return nil
}
