package services

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	TopicOperationUpdated = "operation.updated"
	TopicToolUpdated      = "tool.updated"
	TopicVPNStatus        = "vpn.status"
	TopicVPNLog           = "vpn.log"
	TopicVPNRealtime      = "vpn.realtime"
	TopicVPNKillSwitch    = "vpn.killswitch"
	TopicVPNServers       = "vpn.servers"
	TopicAlert            = "alert"
)

const DefaultEventBuffer = 64

type Event struct {
	Topic     string      `json:"topic"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is the write side of the event broker.
type Publisher interface {
	Publish(topic string, data interface{})
}

// EventBroker fans events out to subscribers. A subscriber whose buffer is
// full misses the event rather than blocking the publisher.
type EventBroker struct {
	mu      sync.RWMutex
	subs    map[chan Event]struct{}
	buffer  int
	dropped uint64
}

func NewEventBroker(buffer int) *EventBroker {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &EventBroker{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
	}
}

func (b *EventBroker) Publish(topic string, data interface{}) {
	if b == nil {
		return
	}
	ev := Event{Topic: topic, Data: data, Timestamp: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			atomic.AddUint64(&b.dropped, 1)
		}
	}
}

// Subscribe returns a channel of events and a function that ends the subscription.
func (b *EventBroker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			close(ch)
			b.mu.Unlock()
		})
	}
}

func (b *EventBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped counts events not delivered to slow subscribers.
func (b *EventBroker) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}
