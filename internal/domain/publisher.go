package domain

import "context"

// Routing keys of the domain events published to the message broker.
const (
	TopicEventCreated          = "event.created"
	TopicEventUpdated          = "event.updated"
	TopicRegistrationCreated   = "registration.created"
	TopicRegistrationCheckedIn = "registration.checked_in"
)

// EventPublisher publishes domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
