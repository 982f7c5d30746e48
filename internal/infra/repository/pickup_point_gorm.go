package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
)

type PickupPointGormRepository struct {
	db *gorm.DB
}

func NewPickupPointGormRepository(db *gorm.DB) *PickupPointGormRepository {
	return &PickupPointGormRepository{db: db}
}

func (r *PickupPointGormRepository) FindByID(ctx context.Context, id int64) (model.PickupPoint, error) {
	var p model.PickupPoint
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PickupPoint{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PickupPoint{}, err
	}
	return p, nil
}

func (r *PickupPointGormRepository) List(ctx context.Context) ([]model.PickupPoint, error) {
	var points []model.PickupPoint
	if err := r.db.WithContext(ctx).Order("id asc").Find(&points).Error; err != nil {
		return []model.PickupPoint{}, err
	}
	return points, nil
}
