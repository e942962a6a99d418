// Package service holds the business logic between the HTTP handlers and the
// repositories. Notifications are created here by writing records; realtime
// delivery happens solely through the change-stream consumer observing those
// inserts.
package service

import "context"

// EventPublisher pushes domain events to the CRM events topic. A nil
// publisher disables event publishing; services treat publish failures as
// non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
