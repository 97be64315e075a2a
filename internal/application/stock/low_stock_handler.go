package stock

import (
	"context"
	"fmt"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler handles ProductLowStock events. It logs a warning so
// operators can reorder; a notifier can be attached to fan the alert out to
// other channels.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// LowStockNotifier is the interface for sending low-stock alerts
type LowStockNotifier interface {
	// NotifyLowStock sends a low-stock alert for a product
	NotifyLowStock(ctx context.Context, event *catalog.ProductLowStockEvent) error
}

// NewLowStockHandler creates a new handler for product low-stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle processes a ProductLowStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductLowStock),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductLowStock, event.EventType())
	}

	h.logger.Warn("product stock at or below reorder level",
		zap.String("product_id", lowStockEvent.AggregateID().String()),
		zap.String("product_name", lowStockEvent.ProductName),
		zap.Int("quantity_in_stock", lowStockEvent.QuantityInStock),
		zap.Int("reorder_level", lowStockEvent.ReorderLevel),
	)

	if h.notifier != nil {
		if err := h.notifier.NotifyLowStock(ctx, lowStockEvent); err != nil {
			h.logger.Error("failed to send low-stock alert",
				zap.String("product_id", lowStockEvent.AggregateID().String()),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
