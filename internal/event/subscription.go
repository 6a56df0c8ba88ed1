package event

import "sync/atomic"

// Priority determines handler execution order within a topic.
// Lower values execute first.
type Priority int

// Standard priorities.
const (
	PriorityHigh   Priority = -100
	PriorityNormal Priority = 0
	PriorityLow    Priority = 100
)

// Subscription represents an active registration on the bus.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic.
	Topic() Topic

	// IsActive reports whether the subscription can still receive events.
	IsActive() bool

	// Cancel permanently cancels the subscription. Cancelling twice is a
	// no-op.
	Cancel()
}

// SubscriptionConfig holds per-subscription settings.
type SubscriptionConfig struct {
	// Priority orders handlers within a topic (lower values first).
	Priority Priority

	// Filter, if set, must return true for an event to be delivered.
	Filter FilterFunc

	// Once auto-cancels the subscription after its first delivery.
	Once bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a delivery filter.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce makes the subscription one-shot: it is cancelled and removed
// from the bus after its first delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// subscription is the bus's internal Subscription implementation.
type subscription struct {
	id        string
	topic     Topic
	handler   Handler
	config    SubscriptionConfig
	cancelled atomic.Bool
	onCancel  func(*subscription)
}

// ID returns the subscription identifier.
func (s *subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic.
func (s *subscription) Topic() Topic {
	return s.topic
}

// IsActive reports whether the subscription is still live.
func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel cancels the subscription and detaches it from the bus.
func (s *subscription) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) {
		if s.onCancel != nil {
			s.onCancel(s)
		}
	}
}
