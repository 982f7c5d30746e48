package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 手数料台帳（追記専用）。完了したPaymentTransactionにつき必ず1件。
type PlatformFeeLog struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	PaymentTransactionID int64           `gorm:"not null;uniqueIndex" json:"payment_transaction_id"`
	FishermanID          int64           `gorm:"not null;index" json:"fisherman_id"`
	GrossAmount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"gross_amount"`
	FeeAmount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fee_amount"`
	NetAmount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net_amount"`
	LoggedAt             time.Time       `gorm:"not null;index;autoCreateTime" json:"logged_at"`
}
