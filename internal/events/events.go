package events

import "context"

// Event types
const (
	EventIdentityRegistered = "identity_registered"
	EventAuthSucceeded      = "auth_succeeded"
)

// StreamAuth is the pub/sub channel bots and bridges listen on.
const StreamAuth = "chat_auth_events"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
