package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 入金確定時に漁師へ作る通知。
// PaymentTransactionに対してユニークで、重複コールバックでも1件しか作られない。
type SellerNotification struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FishermanID          int64           `gorm:"not null;index" json:"fisherman_id"`
	BuyerID              int64           `gorm:"not null" json:"buyer_id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	PaymentTransactionID int64           `gorm:"not null;uniqueIndex" json:"payment_transaction_id"`
	FishItem             string          `gorm:"type:varchar(100)" json:"fish_item"`
	WeightKg             decimal.Decimal `gorm:"type:numeric(8,2)" json:"weight_kg"`
	TotalAmount          decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount"`
	NetEarnings          decimal.Decimal `gorm:"type:numeric(12,2)" json:"net_earnings"`
	ReceiptNumber        string          `gorm:"type:varchar(100)" json:"receipt_number"`
	Message              string          `gorm:"type:text" json:"message"`
	IsRead               bool            `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt            time.Time       `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
