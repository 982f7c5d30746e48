package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type PickupPointRepository interface {
	FindByID(ctx context.Context, id int64) (model.PickupPoint, error)
	List(ctx context.Context) ([]model.PickupPoint, error)
}
