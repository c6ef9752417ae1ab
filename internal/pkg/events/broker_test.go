package events

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	event string
	data  string
}

func collector(frames *[]frame) WriteFunc {
	return func(eventType string, data []byte) error {
		*frames = append(*frames, frame{event: eventType, data: string(data)})
		return nil
	}
}

func TestPublishWithZeroSubscribers(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	assert.NotPanics(t, func() {
		b.Publish(EventRequestUpdated, RequestEvent{StudentNo: "2021-00418"})
	})
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var order []string
	b.Subscribe("a", func(eventType string, data []byte) error {
		order = append(order, "a")
		return nil
	})
	b.Subscribe("b", func(eventType string, data []byte) error {
		order = append(order, "b")
		return nil
	})
	b.Subscribe("c", func(eventType string, data []byte) error {
		order = append(order, "c")
		return nil
	})

	b.Publish(EventStudentUpdated, StudentEvent{StudentNo: "2021-00418", Status: "Active"})

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSubscribeAfterPublishReceivesNoReplay(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var early []frame
	b.Subscribe("early", collector(&early))

	b.Publish(EventRequestCreated, RequestEvent{StudentNo: "2021-00001", RequestID: "r1"})
	b.Publish(EventRequestCreated, RequestEvent{StudentNo: "2021-00001", RequestID: "r2"})

	var late []frame
	b.Subscribe("late", collector(&late))

	b.Publish(EventRequestUpdated, RequestEvent{StudentNo: "2021-00001", RequestID: "r1", Status: "processing"})

	require.Len(t, early, 3)
	require.Len(t, late, 1)
	assert.Equal(t, EventRequestUpdated, late[0].event)
	assert.JSONEq(t, `{"studentNo":"2021-00001","requestId":"r1","status":"processing"}`, late[0].data)
}

func TestSubscribeIsIdempotentPerID(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var first, second []frame
	b.Subscribe("conn", collector(&first))
	b.Subscribe("conn", collector(&second))

	require.Equal(t, 1, b.SubscriberCount())

	b.Publish(EventStudentCreated, StudentEvent{StudentNo: "2021-00002"})

	// Re-subscribing replaced the write target; only the latest one receives.
	assert.Empty(t, first)
	assert.Len(t, second, 1)
}

func TestUnsubscribeTwiceIsHarmless(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var a, c []frame
	b.Subscribe("a", collector(&a))
	b.Subscribe("b", func(string, []byte) error { t.Fatal("should not be called"); return nil })
	b.Subscribe("c", collector(&c))

	b.Unsubscribe("b")
	assert.NotPanics(t, func() { b.Unsubscribe("b") })
	b.Unsubscribe("never-registered")

	b.Publish(EventRequestUpdated, RequestEvent{StudentNo: "2021-00003"})

	assert.Len(t, a, 1)
	assert.Len(t, c, 1)
	assert.Equal(t, 2, b.SubscriberCount())
}

func TestFailingSubscriberDoesNotAbortDelivery(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var after []frame
	b.Subscribe("broken", func(string, []byte) error {
		return errors.New("connection reset")
	})
	b.Subscribe("panicky", func(string, []byte) error {
		panic("dead writer")
	})
	b.Subscribe("healthy", collector(&after))

	assert.NotPanics(t, func() {
		b.Publish(EventRequestUpdated, RequestEvent{StudentNo: "2021-00004"})
	})

	assert.Len(t, after, 1)
	// Failing writers are not removed by publish; their connection handler owns cleanup.
	assert.Equal(t, 3, b.SubscriberCount())
}

func TestDrainDropsAllSubscribers(t *testing.T) {
	b := NewBroker(zerolog.Nop())

	var got []frame
	b.Subscribe("a", collector(&got))
	b.Subscribe("b", collector(&got))

	b.Drain()

	b.Publish(EventStudentUpdated, StudentEvent{StudentNo: "2021-00005"})
	assert.Empty(t, got)
	assert.Equal(t, 0, b.SubscriberCount())
}
