package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// まとめて作成し、採番済みIDを載せて返す
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

// 漁師本人の明細だけを引く（注文番号と所有チェック込み）
func (r *OrderItemGormRepository) FindForFisherman(ctx context.Context, itemID int64, orderNumber string, fishermanID int64) (model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.WithContext(ctx).
		Joins("join orders on orders.id = order_items.order_id").
		Where("order_items.id = ? AND orders.order_number = ? AND order_items.fisherman_id = ?",
			itemID, orderNumber, fishermanID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

func (r *OrderItemGormRepository) UpdateFulfillmentStatus(ctx context.Context, itemID int64, status model.FulfillmentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ?", itemID).
		Update("fulfillment_status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
