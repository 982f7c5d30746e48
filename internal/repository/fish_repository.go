package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 出品の永続化だけを約束。
type FishRepository interface {
	FindByID(ctx context.Context, id int64) (model.Fish, error)

	// 残量が足りるときだけ減算。0以下になったらstatusをsoldへ。
	ReduceStock(ctx context.Context, fishID int64, weightKg decimal.Decimal) (bool, error)
}
