package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

// PaymentTransactionをキーにget-or-create。作成したときだけtrueを返す。
func (r *NotificationGormRepository) GetOrCreate(ctx context.Context, n model.SellerNotification) (bool, error) {
	var existing model.SellerNotification
	err := r.db.WithContext(ctx).
		Where("payment_transaction_id = ?", n.PaymentTransactionID).
		First(&existing).Error

	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		// uniqueIndex衝突なら先着がいる
		retryErr := r.db.WithContext(ctx).
			Where("payment_transaction_id = ?", n.PaymentTransactionID).
			First(&existing).Error
		if retryErr == nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *NotificationGormRepository) ListByFisherman(ctx context.Context, fishermanID int64, limit int) ([]model.SellerNotification, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var items []model.SellerNotification
	err := r.db.WithContext(ctx).
		Where("fisherman_id = ?", fishermanID).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NotificationGormRepository) CountUnread(ctx context.Context, fishermanID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SellerNotification{}).
		Where("fisherman_id = ? AND is_read = ?", fishermanID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// 本人の通知だけ既読化できる
func (r *NotificationGormRepository) MarkRead(ctx context.Context, notificationID int64, fishermanID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.SellerNotification{}).
		Where("id = ? AND fisherman_id = ?", notificationID, fishermanID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type FeeLogGormRepository struct {
	db *gorm.DB
}

func NewFeeLogGormRepository(db *gorm.DB) *FeeLogGormRepository {
	return &FeeLogGormRepository{db: db}
}

func (r *FeeLogGormRepository) GetOrCreate(ctx context.Context, log model.PlatformFeeLog) (bool, error) {
	var existing model.PlatformFeeLog
	err := r.db.WithContext(ctx).
		Where("payment_transaction_id = ?", log.PaymentTransactionID).
		First(&existing).Error

	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		retryErr := r.db.WithContext(ctx).
			Where("payment_transaction_id = ?", log.PaymentTransactionID).
			First(&existing).Error
		if retryErr == nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
