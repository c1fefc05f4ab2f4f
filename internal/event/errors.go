package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrBusClosed is returned when operations are attempted on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNilPayload is returned when Emit is called with a nil payload.
	ErrNilPayload = errors.New("payload cannot be nil")

	// ErrInvalidTopic is returned when a topic is empty.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrListenerLimit is returned when a topic's listener set is already
	// at capacity. Hitting the cap usually means a subscriber leak.
	ErrListenerLimit = errors.New("listener limit reached for topic")

	// ErrUnknownSubscription is returned when cancelling a subscription
	// the bus does not hold.
	ErrUnknownSubscription = errors.New("subscription not found")
)

// ListenerError wraps a listener failure with its subscription context.
type ListenerError struct {
	// ListenerID is the ID of the subscription whose handler failed.
	ListenerID string

	// Topic is the topic being delivered.
	Topic Topic

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener " + e.ListenerID + " failed on " + string(e.Topic) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
