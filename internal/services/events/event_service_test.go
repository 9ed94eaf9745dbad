package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
)

func TestPublishSyncDeliversToAllSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	var delivered int32
	handler := func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&delivered, 1)
		return nil
	}

	_, err := svc.Subscribe(interfaces.EventNotification, handler)
	require.NoError(t, err)
	_, err = svc.Subscribe(interfaces.EventNotification, handler)
	require.NoError(t, err)

	err = svc.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventNotification,
		Payload: interfaces.Notification{Level: interfaces.NotificationInfo, Message: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&delivered))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	var delivered int32
	id, err := svc.Subscribe(interfaces.EventChatExchange, func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&delivered, 1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(interfaces.EventChatExchange, id))

	err = svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventChatExchange})
	require.NoError(t, err)
	assert.Zero(t, atomic.LoadInt32(&delivered))
}

func TestUnsubscribeUnknownIDFails(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	err := svc.Unsubscribe(interfaces.EventNotification, 99)
	assert.Error(t, err)
}

func TestNilHandlerRejected(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	_, err := svc.Subscribe(interfaces.EventNotification, nil)
	assert.Error(t, err)
}

func TestPublishSyncSurfacesHandlerError(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	_, err := svc.Subscribe(interfaces.EventDocumentStatus, func(ctx context.Context, event interfaces.Event) error {
		return errors.New("handler broke")
	})
	require.NoError(t, err)

	err = svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventDocumentStatus})
	assert.Error(t, err)
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	err := svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventSessionRemoved})
	assert.NoError(t, err)
}
