package repository

import (
	"context"

	"samaka/internal/domain/model"

	"gorm.io/gorm"
)

type FishLogGormRepository struct {
	db *gorm.DB
}

func NewFishLogGormRepository(db *gorm.DB) *FishLogGormRepository {
	return &FishLogGormRepository{db: db}
}

func (r *FishLogGormRepository) Create(ctx context.Context, log model.FishTransactionLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *FishLogGormRepository) ListByFishID(ctx context.Context, fishID int64, limit int) ([]model.FishTransactionLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []model.FishTransactionLog
	err := r.db.WithContext(ctx).
		Where("fish_id = ?", fishID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

type DeliveryLogGormRepository struct {
	db *gorm.DB
}

func NewDeliveryLogGormRepository(db *gorm.DB) *DeliveryLogGormRepository {
	return &DeliveryLogGormRepository{db: db}
}

func (r *DeliveryLogGormRepository) Create(ctx context.Context, log model.DeliveryAuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *DeliveryLogGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.DeliveryAuditLog, error) {
	var logs []model.DeliveryAuditLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
