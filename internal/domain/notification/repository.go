package notification

import "context"

// Repository describes notification persistence needs from use cases.
// ListByRecipient returns newest first. MarkRead is idempotent: marking an
// already-read notification succeeds.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, notificationID string) (Notification, bool, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}
