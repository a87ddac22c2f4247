package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/arrotech/codarena/internal/domain/notification"
	"github.com/arrotech/codarena/internal/infrastructure/repository/memory"
)

func TestNotificationService_MarkRead_RecipientOnlyAndIdempotent(t *testing.T) {
	notifRepo := memory.NewNotificationRepository()
	service := newTestNotifier(t, notifRepo)

	n, err := service.Emit(t.Context(), EmitNotificationInput{
		RecipientID: "user-wanjiru",
		Type:        notification.TypeSystem,
		Message:     "Welcome to the arena.",
	})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if err := service.MarkRead(t.Context(), "user-otieno", n.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for other user, got %v", err)
	}

	if err := service.MarkRead(t.Context(), "user-wanjiru", n.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if err := service.MarkRead(t.Context(), "user-wanjiru", n.ID); err != nil {
		t.Fatalf("expected idempotent mark read, got %v", err)
	}

	if err := service.MarkRead(t.Context(), "user-wanjiru", "notif-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationService_List_NewestFirst(t *testing.T) {
	notifRepo := memory.NewNotificationRepository()
	service := newTestNotifier(t, notifRepo)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		service.now = func() time.Time { return at }
		if _, err := service.Emit(t.Context(), EmitNotificationInput{
			RecipientID: "user-wanjiru",
			Type:        notification.TypeSystem,
			Message:     msg,
		}); err != nil {
			t.Fatalf("emit %q failed: %v", msg, err)
		}
	}

	notifications, err := service.List(t.Context(), "user-wanjiru")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(notifications) != 3 {
		t.Fatalf("expected three notifications, got %d", len(notifications))
	}
	if notifications[0].Message != "third" || notifications[2].Message != "first" {
		t.Fatalf("expected newest first, got %q .. %q", notifications[0].Message, notifications[2].Message)
	}
}

func TestNotificationService_Broadcast_DeliversToAllRecipients(t *testing.T) {
	notifRepo := memory.NewNotificationRepository()
	service := newTestNotifier(t, notifRepo)

	recipients := []string{"user-wanjiru", "user-otieno", "user-mutua", "user-chebet"}
	err := service.Broadcast(t.Context(), recipients, EmitNotificationInput{
		ActorID: "user-admin",
		Type:    notification.TypeFixture,
		Message: "Round 3 results are in.",
	})
	if err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	for _, recipientID := range recipients {
		notifications, err := notifRepo.ListByRecipient(t.Context(), recipientID)
		if err != nil {
			t.Fatalf("list for %s: %v", recipientID, err)
		}
		if len(notifications) != 1 {
			t.Fatalf("expected one notification for %s, got %d", recipientID, len(notifications))
		}
	}
}

func TestNotificationService_Emit_RequiresRecipientAndMessage(t *testing.T) {
	notifRepo := memory.NewNotificationRepository()
	service := newTestNotifier(t, notifRepo)

	if _, err := service.Emit(t.Context(), EmitNotificationInput{
		Type:    notification.TypeSystem,
		Message: "no recipient",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := service.Emit(t.Context(), EmitNotificationInput{
		RecipientID: "user-wanjiru",
		Type:        notification.TypeSystem,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
