package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

func (h *capturingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *capturingHandler) EventTypes() []string {
	return h.types
}

func (h *capturingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, uuid.New(), "Product")
	return &ev
}

func TestInMemoryEventBus_PublishToSubscribedType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{types: []string{"catalog.product.low_stock"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newEvent("catalog.product.low_stock")))
	require.NoError(t, bus.Publish(context.Background(), newEvent("billing.invoice.paid")))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_WildcardReceivesAll(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newEvent("catalog.product.low_stock"),
		newEvent("billing.invoice.paid"),
	))

	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &capturingHandler{types: []string{"billing.invoice.paid"}, err: errors.New("boom")}
	healthy := &capturingHandler{types: []string{"billing.invoice.paid"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newEvent("billing.invoice.paid")))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{types: []string{"billing.invoice.paid"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newEvent("billing.invoice.paid")))

	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_ExplicitEventTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{types: []string{"catalog.product.low_stock"}}
	bus.Subscribe(handler, "billing.invoice.cancelled")

	require.NoError(t, bus.Publish(context.Background(), newEvent("catalog.product.low_stock")))
	require.NoError(t, bus.Publish(context.Background(), newEvent("billing.invoice.cancelled")))

	assert.Equal(t, 1, handler.count())
}
