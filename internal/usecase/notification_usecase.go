package usecase

import (
	"context"
	"net/http"
	"time"

	repo "samaka/internal/repository"
)

type NotificationUsecase struct {
	notifications repo.NotificationRepository
}

func NewNotificationUsecase(notifications repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

type NotificationOutput struct {
	ID            int64     `json:"id"`
	FishItem      string    `json:"fish_item"`
	WeightKg      string    `json:"weight_kg"`
	TotalAmount   string    `json:"total_amount"`
	NetEarnings   string    `json:"net_earnings"`
	ReceiptNumber string    `json:"receipt_number"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationListOutput struct {
	Notifications []NotificationOutput `json:"notifications"`
	UnreadCount   int64                `json:"unread_count"`
}

// List は直近5件と未読件数を返す。
func (u *NotificationUsecase) List(ctx context.Context, fishermanID int64) (NotificationListOutput, error) {
	if fishermanID <= 0 {
		return NotificationListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.notifications.ListByFisherman(ctx, fishermanID, 5)
	if err != nil {
		return NotificationListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	unread, err := u.notifications.CountUnread(ctx, fishermanID)
	if err != nil {
		return NotificationListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := NotificationListOutput{
		Notifications: make([]NotificationOutput, 0, len(items)),
		UnreadCount:   unread,
	}
	for _, n := range items {
		out.Notifications = append(out.Notifications, NotificationOutput{
			ID:            n.ID,
			FishItem:      n.FishItem,
			WeightKg:      n.WeightKg.StringFixed(2),
			TotalAmount:   n.TotalAmount.StringFixed(2),
			NetEarnings:   n.NetEarnings.StringFixed(2),
			ReceiptNumber: n.ReceiptNumber,
			Message:       n.Message,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead は本人の通知だけ既読化する。
func (u *NotificationUsecase) MarkRead(ctx context.Context, fishermanID int64, notificationID int64) error {
	if fishermanID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if notificationID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.notifications.MarkRead(ctx, notificationID, fishermanID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
