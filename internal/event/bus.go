package event

import (
	"context"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Bus delivers events to subscriptions synchronously, in priority order.
// Subscribe and Cancel are safe to call from handlers during delivery:
// Publish operates on a snapshot taken at publish time.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]*subscription
	byID map[string]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}

	sub := &subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: handler,
		config:  config,
	}
	sub.onCancel = b.remove

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := append(b.subs[topic], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].config.Priority < subs[j].config.Priority
	})
	b.subs[topic] = subs
	b.byID[sub.id] = sub

	return sub, nil
}

// SubscribeFunc registers a function handler for a topic.
func (b *Bus) SubscribeFunc(topic Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(topic, fn, opts...)
}

// Publish delivers an event to every active subscription on topic, in
// priority order, in the caller's goroutine. Delivery stops at the first
// handler error or panic, which is returned to the caller; remaining
// subscriptions for this publish are not invoked.
func (b *Bus) Publish(ctx context.Context, topic Topic, event any) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	b.mu.RLock()
	snapshot := make([]*subscription, len(b.subs[topic]))
	copy(snapshot, b.subs[topic])
	b.mu.RUnlock()

	for _, sub := range snapshot {
		if !sub.IsActive() {
			continue
		}
		if sub.config.Filter != nil && !sub.config.Filter(event) {
			continue
		}
		// One-shot subscriptions come down before the handler runs, so a
		// re-publish from inside the handler cannot re-trigger them.
		if sub.config.Once {
			sub.Cancel()
		}
		if err := b.deliver(ctx, sub, topic, event); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(ctx context.Context, sub *subscription, topic Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				SubscriptionID: sub.id,
				Topic:          topic,
				Value:          r,
				Stack:          debug.Stack(),
			}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		return &HandlerError{
			SubscriptionID: sub.id,
			Topic:          topic,
			Err:            herr,
		}
	}
	return nil
}

// Unsubscribe cancels a subscription obtained from Subscribe.
func (b *Bus) Unsubscribe(sub Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// Count returns the number of live subscriptions across all topics.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}

// CountByTopic returns the number of live subscriptions for a topic.
func (b *Bus) CountByTopic(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// remove detaches a cancelled subscription from the bus maps.
func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[sub.topic]
	for i, s := range subs {
		if s.id == sub.id {
			b.subs[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.topic]) == 0 {
		delete(b.subs, sub.topic)
	}
	delete(b.byID, sub.id)
}
