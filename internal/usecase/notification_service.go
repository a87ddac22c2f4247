package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/arrotech/codarena/internal/domain/notification"
	idgen "github.com/arrotech/codarena/internal/platform/id"
)

// Notifier is the outbound side of the notification service, consumed by
// the other services when domain events happen.
type Notifier interface {
	Emit(ctx context.Context, input EmitNotificationInput) (notification.Notification, error)
	Broadcast(ctx context.Context, recipientIDs []string, input EmitNotificationInput) error
}

type noopNotifier struct{}

func (noopNotifier) Emit(_ context.Context, _ EmitNotificationInput) (notification.Notification, error) {
	return notification.Notification{}, nil
}

func (noopNotifier) Broadcast(_ context.Context, _ []string, _ EmitNotificationInput) error {
	return nil
}

// NoopNotifier is used when a caller has no notification sink wired.
func NoopNotifier() Notifier { return noopNotifier{} }

// EmitNotificationInput is one notification to deliver. RecipientID is
// ignored by Broadcast, which sets it per recipient.
type EmitNotificationInput struct {
	RecipientID string
	ActorID     string
	Type        notification.Type
	Message     string
	Link        string
}

type NotificationService struct {
	notifRepo notification.Repository
	idGen     idgen.Generator
	pool      *ants.Pool
	logger    *slog.Logger
	now       func() time.Time
}

func NewNotificationService(
	notifRepo notification.Repository,
	idGen idgen.Generator,
	broadcastWorkers int,
	logger *slog.Logger,
) (*NotificationService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if broadcastWorkers < 1 {
		broadcastWorkers = 8
	}

	pool, err := ants.NewPool(broadcastWorkers, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create broadcast pool: %w", err)
	}

	return &NotificationService{
		notifRepo: notifRepo,
		idGen:     idGen,
		pool:      pool,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Close releases the broadcast worker pool.
func (s *NotificationService) Close() {
	s.pool.Release()
}

func (s *NotificationService) Emit(ctx context.Context, input EmitNotificationInput) (notification.Notification, error) {
	input.RecipientID = strings.TrimSpace(input.RecipientID)
	input.Message = strings.TrimSpace(input.Message)

	if input.RecipientID == "" {
		return notification.Notification{}, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}
	if input.Message == "" {
		return notification.Notification{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	notifID, err := s.idGen.NewID()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
	}

	n := notification.Notification{
		ID:          notifID,
		RecipientID: input.RecipientID,
		ActorID:     input.ActorID,
		Message:     input.Message,
		Type:        input.Type,
		Link:        input.Link,
		CreatedAt:   s.now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return notification.Notification{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.notifRepo.Create(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return n, nil
}

// Broadcast fans one message out to many recipients through the worker
// pool. Per-recipient failures are logged and the first one is returned;
// remaining deliveries still run.
func (s *NotificationService) Broadcast(ctx context.Context, recipientIDs []string, input EmitNotificationInput) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, recipientID := range recipientIDs {
		recipientID := recipientID
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()

			perRecipient := input
			perRecipient.RecipientID = recipientID
			if _, err := s.Emit(ctx, perRecipient); err != nil {
				s.logger.ErrorContext(ctx, "broadcast delivery failed",
					"recipient_id", recipientID,
					"error", err,
				)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit broadcast task: %w", err)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	s.logger.InfoContext(ctx, "notification broadcast delivered",
		"recipient_count", len(recipientIDs),
		"type", string(input.Type),
	)
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID string) ([]notification.Notification, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}

	notifications, err := s.notifRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one notification as read. Only the recipient may mark it;
// marking an already-read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) error {
	actorID = strings.TrimSpace(actorID)
	notificationID = strings.TrimSpace(notificationID)
	if actorID == "" || notificationID == "" {
		return fmt.Errorf("%w: actor id and notification id are required", ErrInvalidInput)
	}

	n, exists, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: notification=%s", ErrNotFound, notificationID)
	}
	if n.RecipientID != actorID {
		return fmt.Errorf("%w: notification belongs to another user", ErrUnauthorized)
	}
	if n.IsRead {
		return nil
	}

	if err := s.notifRepo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}
