package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// ResultCodeUnknown は整数にパースできなかったResultCodeの正規化値。
// 成功（0）とは絶対に解釈しない。
const ResultCodeUnknown = -1

// 明細1件=STK1件の課金リクエスト。
// CheckoutRequestIDがゲートウェイ発行の冪等キー（unique）。
type PaymentTransaction struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            int64           `gorm:"not null;index" json:"order_id"`
	OrderItemID        int64           `gorm:"not null;index" json:"order_item_id"`
	BuyerID            int64           `gorm:"not null;index" json:"buyer_id"`
	FishermanID        int64           `gorm:"not null;index" json:"fisherman_id"`
	TransactionID      string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"transaction_id"`
	MerchantRequestID  string          `gorm:"type:varchar(100)" json:"merchant_request_id"`
	CheckoutRequestID  string          `gorm:"type:varchar(100);index" json:"checkout_request_id"`
	MpesaReceiptNumber string          `gorm:"type:varchar(100)" json:"mpesa_receipt_number"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	UnitPricePerKg     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price_per_kg"`
	WeightKg           decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"weight_kg"`
	PlatformFee        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"platform_fee"`
	NetPayout          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net_payout"`
	PhoneNumber        string          `gorm:"type:varchar(20);not null" json:"phone_number"`
	Status             PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	ResultCode         *int            `json:"result_code,omitempty"`
	ResultDesc         string          `gorm:"type:text" json:"result_desc"`
	CreatedAt          time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
