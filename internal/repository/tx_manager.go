package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Fish() FishRepository
	Payments() PaymentRepository
	Verifications() VerificationRepository
	Deliveries() DeliveryRepository
	FishLogs() FishLogRepository
	DeliveryLogs() DeliveryLogRepository
	Notifications() NotificationRepository
	FeeLogs() FeeLogRepository
	Users() UserRepository
	Profiles() FishermanProfileRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
