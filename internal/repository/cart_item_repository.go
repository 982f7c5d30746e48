package repository

import (
	"context"

	"samaka/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同じ魚は重量を置き換える（加算ではなく指定kgで上書き）
	UpsertByCartAndFish(ctx context.Context, cartID int64, fishID int64, weightKg decimal.Decimal, unitPriceSnapshot decimal.Decimal) error
	UpdateWeight(ctx context.Context, cartItemID int64, weightKg decimal.Decimal) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
