package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arrotech/codarena/internal/domain/notification"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationRow struct {
	PublicID    string    `db:"public_id"`
	RecipientID string    `db:"recipient_public_id"`
	ActorID     *string   `db:"actor_public_id"`
	Message     string    `db:"message"`
	Type        string    `db:"type"`
	Link        string    `db:"link"`
	IsRead      bool      `db:"is_read"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row notificationRow) toDomain() notification.Notification {
	n := notification.Notification{
		ID:          row.PublicID,
		RecipientID: row.RecipientID,
		Message:     row.Message,
		Type:        notification.Type(row.Type),
		Link:        row.Link,
		IsRead:      row.IsRead,
		CreatedAt:   row.CreatedAt,
	}
	if row.ActorID != nil {
		n.ActorID = *row.ActorID
	}

	return n
}

const notificationColumns = `public_id, recipient_public_id, actor_public_id, message, type, link, is_read, created_at`

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	const query = `
INSERT INTO notifications (public_id, recipient_public_id, actor_public_id, message, type, link, is_read, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.ActorID, n.Message, string(n.Type), n.Link, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, notificationID string) (notification.Notification, bool, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE public_id = $1`

	var row notificationRow
	if err := r.db.GetContext(ctx, &row, query, notificationID); err != nil {
		if isNotFound(err) {
			return notification.Notification{}, false, nil
		}
		return notification.Notification{}, false, fmt.Errorf("get notification: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]notification.Notification, error) {
	query := `SELECT ` + notificationColumns + `
FROM notifications
WHERE recipient_public_id = $1
ORDER BY created_at DESC`

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, recipientID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, notificationID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}
