package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type DeliveryRepository interface {
	FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error)

	// 注文に対する配送レコードを作成または更新して返す。
	Upsert(ctx context.Context, orderID int64, fishermanID int64, status model.DeliveryStatus, updatedByID int64) (model.Delivery, error)

	Update(ctx context.Context, d model.Delivery) error
}
