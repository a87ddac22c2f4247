package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/usecase"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	notifications, err := h.notificationService.List(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationToDTO(ctx, n))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	notificationID := r.PathValue("notificationID")
	if err := h.notificationService.MarkRead(ctx, principal.UserID, notificationID); err != nil {
		h.logger.WarnContext(ctx, "mark notification read failed", "user_id", principal.UserID, "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"notificationId": notificationID, "status": "read"})
}

type notificationDTO struct {
	ID        string `json:"id"`
	ActorID   string `json:"actorId,omitempty"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAtUtc"`
}

func notificationToDTO(ctx context.Context, v notification.Notification) notificationDTO {
	ctx, span := startSpan(ctx, "httpapi.notificationToDTO")
	defer span.End()

	return notificationDTO{
		ID:        v.ID,
		ActorID:   v.ActorID,
		Message:   v.Message,
		Type:      string(v.Type),
		Link:      v.Link,
		IsRead:    v.IsRead,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
