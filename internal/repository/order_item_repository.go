package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type OrderItemRepository interface {
	// 採番済みIDを載せて返す（課金フェーズで明細IDが要る）
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	FindByID(ctx context.Context, itemID int64) (model.OrderItem, error)
	// 漁師本人の明細だけを引く（所有チェック込み）
	FindForFisherman(ctx context.Context, itemID int64, orderNumber string, fishermanID int64) (model.OrderItem, error)
	UpdateFulfillmentStatus(ctx context.Context, itemID int64, status model.FulfillmentStatus) error
}
