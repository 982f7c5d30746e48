package repository

import (
	"context"
	"errors"
	"time"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeliveryGormRepository struct {
	db *gorm.DB
}

func NewDeliveryGormRepository(db *gorm.DB) *DeliveryGormRepository {
	return &DeliveryGormRepository{db: db}
}

func (r *DeliveryGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Delivery{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

// 注文に対する配送レコードを作成または更新して返す。
func (r *DeliveryGormRepository) Upsert(ctx context.Context, orderID int64, fishermanID int64, status model.DeliveryStatus, updatedByID int64) (model.Delivery, error) {
	var d model.Delivery

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).
			First(&d).Error

		if findErr == nil {
			d.Status = status
			d.FishermanID = &fishermanID
			d.UpdatedByID = &updatedByID
			res := tx.Model(&model.Delivery{}).
				Where("id = ?", d.ID).
				Updates(map[string]interface{}{
					"status":        status,
					"fisherman_id":  fishermanID,
					"updated_by_id": updatedByID,
				})
			if res.Error != nil {
				return res.Error
			}
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		d = model.Delivery{
			OrderID:     orderID,
			Status:      status,
			FishermanID: &fishermanID,
			UpdatedByID: &updatedByID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		return model.Delivery{}, err
	}
	return d, nil
}

func (r *DeliveryGormRepository) Update(ctx context.Context, d model.Delivery) error {
	res := r.db.WithContext(ctx).
		Model(&model.Delivery{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"status":          d.Status,
			"updated_by_id":   d.UpdatedByID,
			"actual_delivery": d.ActualDelivery,
			"delivery_notes":  d.DeliveryNotes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
