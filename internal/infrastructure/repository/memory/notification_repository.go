package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arrotech/codarena/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.Mutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[n.ID] = n

	return nil
}

func (r *NotificationRepository) GetByID(_ context.Context, notificationID string) (notification.Notification, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[notificationID]
	if !ok {
		return notification.Notification{}, false, nil
	}

	return n, true, nil
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipientID string) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[notificationID]
	if !ok {
		return nil
	}
	n.IsRead = true
	r.items[notificationID] = n

	return nil
}
