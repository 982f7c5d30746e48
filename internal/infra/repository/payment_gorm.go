package repository

import (
	"context"
	"errors"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, txn model.PaymentTransaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return 0, err
	}
	return txn.ID, nil
}

// 行ロック付き検索。同一CheckoutRequestIDへの並行コールバックを直列化する。
func (r *PaymentGormRepository) FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&txn).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentTransaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentTransaction{}, err
	}
	return txn, nil
}

func (r *PaymentGormRepository) UpdateResult(ctx context.Context, txnID int64, status model.PaymentStatus, resultCode int, resultDesc string, receiptNumber string) error {
	res := r.db.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Where("id = ?", txnID).
		Updates(map[string]interface{}{
			"status":               status,
			"result_code":          resultCode,
			"result_desc":          resultDesc,
			"mpesa_receipt_number": receiptNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaymentGormRepository) CountByOrderAndStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Where("order_id = ? AND status = ?", orderID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

type VerificationGormRepository struct {
	db *gorm.DB
}

func NewVerificationGormRepository(db *gorm.DB) *VerificationGormRepository {
	return &VerificationGormRepository{db: db}
}

func (r *VerificationGormRepository) Create(ctx context.Context, txn model.PhoneVerificationTransaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return 0, err
	}
	return txn.ID, nil
}

func (r *VerificationGormRepository) FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PhoneVerificationTransaction, error) {
	var txn model.PhoneVerificationTransaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&txn).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PhoneVerificationTransaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PhoneVerificationTransaction{}, err
	}
	return txn, nil
}

func (r *VerificationGormRepository) UpdateResult(ctx context.Context, txnID int64, status model.VerificationStatus, resultCode int, resultDesc string, receiptNumber string) error {
	res := r.db.WithContext(ctx).
		Model(&model.PhoneVerificationTransaction{}).
		Where("id = ?", txnID).
		Updates(map[string]interface{}{
			"status":               status,
			"result_code":          resultCode,
			"result_desc":          resultDesc,
			"mpesa_receipt_number": receiptNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
