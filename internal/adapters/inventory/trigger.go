// Package inventory adapts batch milestones to the external inventory system.
package inventory

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/example/brewctl/internal/ctxutil"
	"github.com/example/brewctl/internal/ports/secondary"
)

// LogTrigger implements secondary.InventoryTrigger by recording each milestone
// as a structured log event for the inventory system to pick up.
type LogTrigger struct {
	log logrus.FieldLogger
}

// NewLogTrigger creates a new logging inventory trigger.
func NewLogTrigger(log logrus.FieldLogger) *LogTrigger {
	return &LogTrigger{log: log}
}

// BatchStarted records that ingredients for a batch were consumed.
func (t *LogTrigger) BatchStarted(ctx context.Context, event secondary.InventoryEvent) error {
	t.emit(ctx, "consume_ingredients", event)
	return nil
}

// BatchPackaged records that packaging materials for a batch were used.
func (t *LogTrigger) BatchPackaged(ctx context.Context, event secondary.InventoryEvent) error {
	t.emit(ctx, "consume_packaging", event)
	return nil
}

// BatchFinished records finished stock for a batch.
func (t *LogTrigger) BatchFinished(ctx context.Context, event secondary.InventoryEvent) error {
	t.emit(ctx, "receive_finished_goods", event)
	return nil
}

func (t *LogTrigger) emit(ctx context.Context, action string, event secondary.InventoryEvent) {
	t.log.WithFields(logrus.Fields{
		"module":       "inventory",
		"action":       action,
		"batch_id":     event.BatchID,
		"batch_number": event.BatchNumber,
		"recipe_id":    event.RecipeID,
		"location_id":  event.LocationID,
		"volume":       event.Volume,
		"at":           event.At,
		"actor":        ctxutil.ActorFromContext(ctx),
	}).Info("inventory milestone")
}

// Ensure LogTrigger implements the interface
var _ secondary.InventoryTrigger = (*LogTrigger)(nil)
