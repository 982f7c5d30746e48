package repository

import (
	"context"

	"samaka/internal/domain/model"
)

// 魚の取引監査ログの保存。
type FishLogRepository interface {
	Create(ctx context.Context, log model.FishTransactionLog) error
	ListByFishID(ctx context.Context, fishID int64, limit int) ([]model.FishTransactionLog, error)
}

// 配送ステータス遷移の監査ログ。
type DeliveryLogRepository interface {
	Create(ctx context.Context, log model.DeliveryAuditLog) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.DeliveryAuditLog, error)
}
