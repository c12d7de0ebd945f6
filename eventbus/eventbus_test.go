package eventbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulengine/dul/dulerr"
	"github.com/dulengine/dul/eventbus"
)

func TestNotificationBusDeliversToAllSubscribers(t *testing.T) {
	bus := eventbus.NewNotificationBus(zerolog.Nop())
	var gotA, gotB bool
	bus.Subscribe(eventbus.NotifyAssociationEstablished, func(_ context.Context, ev eventbus.NotificationEvent) error {
		gotA = true
		return nil
	})
	bus.Subscribe(eventbus.NotifyAssociationEstablished, func(_ context.Context, ev eventbus.NotificationEvent) error {
		gotB = true
		return nil
	})
	bus.Subscribe(eventbus.NotifyAssociationAborted, func(_ context.Context, ev eventbus.NotificationEvent) error {
		t.Fatal("subscriber for the wrong kind was invoked")
		return nil
	})

	bus.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyAssociationEstablished})

	assert.True(t, gotA)
	assert.True(t, gotB)
}

func TestNotificationBusSwallowsSubscriberError(t *testing.T) {
	bus := eventbus.NewNotificationBus(zerolog.Nop())
	called := false
	bus.Subscribe(eventbus.NotifyDIMSESent, func(_ context.Context, ev eventbus.NotificationEvent) error {
		return errors.New("boom")
	})
	bus.Subscribe(eventbus.NotifyDIMSESent, func(_ context.Context, ev eventbus.NotificationEvent) error {
		called = true
		return nil
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), eventbus.NotificationEvent{Kind: eventbus.NotifyDIMSESent})
	})
	assert.True(t, called, "a failing subscriber must not block delivery to the next one")
}

func TestRegistryInvokeUnboundReturnsHandlerFailure(t *testing.T) {
	r := eventbus.NewRegistry()
	_, err := r.Invoke(context.Background(), eventbus.InterventionCEcho, nil)
	require.Error(t, err)
	var hf *dulerr.HandlerFailure
	require.ErrorAs(t, err, &hf)
	assert.ErrorIs(t, err, dulerr.ErrHandlerFailure)
}

func TestRegistryInvokeReturnsHandlerResponse(t *testing.T) {
	r := eventbus.NewRegistry()
	r.Bind(eventbus.InterventionCEcho, func(_ context.Context, req interface{}) (interface{}, error) {
		return "pong", nil
	})
	assert.True(t, r.Bound(eventbus.InterventionCEcho))

	resp, err := r.Invoke(context.Background(), eventbus.InterventionCEcho, "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)
}

func TestRegistryInvokeRecoversPanic(t *testing.T) {
	r := eventbus.NewRegistry()
	r.Bind(eventbus.InterventionCStore, func(_ context.Context, req interface{}) (interface{}, error) {
		panic("handler exploded")
	})

	_, err := r.Invoke(context.Background(), eventbus.InterventionCStore, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dulerr.ErrHandlerFailure)
}

func TestRegistryBindReplacesExistingHandler(t *testing.T) {
	r := eventbus.NewRegistry()
	r.Bind(eventbus.InterventionCFind, func(_ context.Context, req interface{}) (interface{}, error) {
		return "first", nil
	})
	r.Bind(eventbus.InterventionCFind, func(_ context.Context, req interface{}) (interface{}, error) {
		return "second", nil
	})

	resp, err := r.Invoke(context.Background(), eventbus.InterventionCFind, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", resp)
}
