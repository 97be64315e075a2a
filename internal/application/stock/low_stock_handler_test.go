package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/billfold/backend/internal/domain/catalog"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	received []*catalog.ProductLowStockEvent
	err      error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, event *catalog.ProductLowStockEvent) error {
	n.received = append(n.received, event)
	return n.err
}

func newLowStockEvent(t *testing.T) *catalog.ProductLowStockEvent {
	t.Helper()
	product, err := catalog.NewProduct("Stapler", uuid.New(), decimal.NewFromInt(40), decimal.NewFromInt(60), 10)
	require.NoError(t, err)
	product.QuantityInStock = 4
	return catalog.NewProductLowStockEvent(product)
}

func TestLowStockHandler_Handle(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := NewLowStockHandler(zap.NewNop()).WithNotifier(notifier)

	event := newLowStockEvent(t)
	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, notifier.received, 1)
	assert.Equal(t, 4, notifier.received[0].QuantityInStock)
}

func TestLowStockHandler_Handle_WithoutNotifier(t *testing.T) {
	handler := NewLowStockHandler(zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), newLowStockEvent(t)))
}

func TestLowStockHandler_Handle_NotifierError(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	handler := NewLowStockHandler(zap.NewNop()).WithNotifier(notifier)

	err := handler.Handle(context.Background(), newLowStockEvent(t))
	require.Error(t, err)
}

func TestLowStockHandler_Handle_RejectsOtherEventTypes(t *testing.T) {
	handler := NewLowStockHandler(zap.NewNop())

	other := shared.NewBaseDomainEvent("catalog.product.renamed", uuid.New(), "Product")
	err := handler.Handle(context.Background(), &other)
	require.Error(t, err)
}

func TestLowStockHandler_EventTypes(t *testing.T) {
	handler := NewLowStockHandler(zap.NewNop())
	assert.Equal(t, []string{catalog.EventTypeProductLowStock}, handler.EventTypes())
}
