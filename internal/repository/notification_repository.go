package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type NotificationRepository interface {
	// PaymentTransactionをキーにget-or-create。作成したときだけtrueを返す。
	GetOrCreate(ctx context.Context, n model.SellerNotification) (bool, error)
	ListByFisherman(ctx context.Context, fishermanID int64, limit int) ([]model.SellerNotification, error)
	CountUnread(ctx context.Context, fishermanID int64) (int64, error)
	MarkRead(ctx context.Context, notificationID int64, fishermanID int64) error
}

// 手数料台帳。PaymentTransactionをキーにget-or-create。
type FeeLogRepository interface {
	GetOrCreate(ctx context.Context, log model.PlatformFeeLog) (bool, error)
}
