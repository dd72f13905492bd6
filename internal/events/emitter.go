// Package events publishes setup lifecycle events. Emission is
// fire-and-forget: a failed emit never propagates to the caller.
package events

import (
	"context"

	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
)

// Event names emitted by the setup pipeline.
const (
	EventSetupCompleted = "payroll.setup.completed"
	EventSetupFailed    = "payroll.setup.failed"
)

// Emitter publishes an event to an external channel. Implementations
// must be safe for concurrent use and must swallow delivery failures.
type Emitter interface {
	Emit(ctx context.Context, name string, payload map[string]interface{}) error
}

// LogEmitter writes events to the structured log. It is the default
// sink when no webhook is configured.
type LogEmitter struct {
	log *logger.Logger
}

// NewLogEmitter creates a new LogEmitter.
func NewLogEmitter(log *logger.Logger) *LogEmitter {
	return &LogEmitter{log: log}
}

// Emit logs the event. Never fails.
func (e *LogEmitter) Emit(ctx context.Context, name string, payload map[string]interface{}) error {
	log := e.log
	if l := logger.FromContext(ctx); l != nil {
		log = l
	}
	log.WithFields(logger.Fields{
		"event":   name,
		"payload": payload,
	}).Info("Event emitted")
	return nil
}
