package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(TopicLevel, func(ev Event) { got = append(got, "first") })
	b.SubscribeAll(func(ev Event) { got = append(got, "all:"+string(ev.Topic)) })
	b.Subscribe(TopicLevel, func(ev Event) { got = append(got, "second") })

	b.Publish(TopicLevel, 3)
	b.Publish(TopicTarget, 400)

	assert.Equal(t, []string{"first", "second", "all:level", "all:target"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	stop := b.Subscribe(TopicMute, func(Event) { calls++ })
	stopAll := b.SubscribeAll(func(Event) { calls++ })

	b.Publish(TopicMute, true)
	stop()
	stopAll()
	b.Publish(TopicMute, false)

	assert.Equal(t, 2, calls)
}

func TestSubscribeFromHandler(t *testing.T) {
	b := NewBus()
	inner := 0
	b.Subscribe(TopicScores, func(Event) {
		b.Subscribe(TopicScores, func(Event) { inner++ })
	})

	b.Publish(TopicScores, Counter{Current: 1, Total: 1})
	assert.Equal(t, 0, inner, "new subscriber waits for the next publish")
	b.Publish(TopicScores, Counter{Current: 2, Total: 2})
	assert.Equal(t, 1, inner)
}

func TestPayloadPassThrough(t *testing.T) {
	b := NewBus()
	var got Event
	b.Subscribe(TopicPersistedLoaded, func(ev Event) { got = ev })
	b.Publish(TopicPersistedLoaded, PersistedData{Level: 4, Score: 900, Move: 3})

	assert.Equal(t, TopicPersistedLoaded, got.Topic)
	assert.Equal(t, PersistedData{Level: 4, Score: 900, Move: 3}, got.Payload)
}
