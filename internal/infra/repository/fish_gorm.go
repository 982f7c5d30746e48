package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FishGormRepository struct {
	db *gorm.DB
}

// DI
func NewFishGormRepository(db *gorm.DB) *FishGormRepository {
	return &FishGormRepository{db: db}
}

// IDで出品を取得
func (r *FishGormRepository) FindByID(ctx context.Context, id int64) (model.Fish, error) {
	var f model.Fish
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Fish{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Fish{}, err
	}
	return f, nil
}

// 残量が足りるときだけ減らす。0件更新なら在庫不足。
func (r *FishGormRepository) ReduceStock(ctx context.Context, fishID int64, weightKg decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Fish{}).
		Where("id = ? AND available_weight >= ?", fishID, weightKg).
		Update("available_weight", gorm.Expr("available_weight - ?", weightKg))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// 残量0になったらsoldへ
	err := r.db.WithContext(ctx).
		Model(&model.Fish{}).
		Where("id = ? AND available_weight <= 0", fishID).
		Update("status", model.FishStatusSold).Error
	if err != nil {
		return false, err
	}

	return true, nil
}
