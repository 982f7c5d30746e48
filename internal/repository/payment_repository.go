package repository

import (
	"context"

	"samaka/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, txn model.PaymentTransaction) (int64, error)

	// 行ロック付き検索。同一CheckoutRequestIDへの並行コールバックを直列化する。
	FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PaymentTransaction, error)

	// ステータスと結果フィールドをまとめて反映。
	UpdateResult(ctx context.Context, txnID int64, status model.PaymentStatus, resultCode int, resultDesc string, receiptNumber string) error

	CountByOrderAndStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (int64, error)
}

// 電話番号確認の課金。注文決済とは別の照合名前空間。
type VerificationRepository interface {
	Create(ctx context.Context, txn model.PhoneVerificationTransaction) (int64, error)
	FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PhoneVerificationTransaction, error)
	UpdateResult(ctx context.Context, txnID int64, status model.VerificationStatus, resultCode int, resultDesc string, receiptNumber string) error
}
