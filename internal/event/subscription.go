package event

import "github.com/google/uuid"

// Subscription is a handle to a registered listener. It is returned by
// On/Once and accepted by Off.
type Subscription struct {
	id       string
	topic    Topic
	priority int
	once     bool
	handler  Handler
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscriptionConfig)

type subscriptionConfig struct {
	priority   int
	listenerID string
}

// WithPriority sets the listener priority. Higher values run first;
// listeners with equal priority run in registration order.
func WithPriority(p int) SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.priority = p
	}
}

// WithListenerID sets an explicit listener ID instead of a generated one.
func WithListenerID(id string) SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.listenerID = id
	}
}

// newSubscription builds a subscription handle.
func newSubscription(topic Topic, handler Handler, once bool, opts ...SubscriptionOption) *Subscription {
	cfg := subscriptionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.listenerID == "" {
		cfg.listenerID = uuid.NewString()
	}

	return &Subscription{
		id:       cfg.listenerID,
		topic:    topic,
		priority: cfg.priority,
		once:     once,
		handler:  handler,
	}
}

// ID returns the unique listener identifier.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic { return s.topic }

// Priority returns the listener priority.
func (s *Subscription) Priority() int { return s.priority }

// Once reports whether the listener auto-cancels after its first delivery.
func (s *Subscription) Once() bool { return s.once }
