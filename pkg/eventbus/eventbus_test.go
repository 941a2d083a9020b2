package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_PublishCallsOnlySubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	var updated, deleted atomic.Int32

	bus.Subscribe("ticket.updated", func(context.Context, Event) error {
		updated.Add(1)
		return nil
	})
	bus.Subscribe("ticket.updated", func(context.Context, Event) error {
		updated.Add(1)
		return errors.New("ошибка слушателя не должна ломать остальных")
	})
	bus.Subscribe("ticket.deleted", func(context.Context, Event) error {
		deleted.Add(1)
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "ticket.updated"})
	bus.Wait()

	assert.Equal(t, int32(2), updated.Load())
	assert.Zero(t, deleted.Load())
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Publish(context.Background(), testEvent{name: "nobody.listens"})
	bus.Wait()
}
