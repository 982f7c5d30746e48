package repository

import (
	"context"

	repo "samaka/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	fish          repo.FishRepository
	payments      repo.PaymentRepository
	verifications repo.VerificationRepository
	deliveries    repo.DeliveryRepository
	fishLogs      repo.FishLogRepository
	deliveryLogs  repo.DeliveryLogRepository
	notifications repo.NotificationRepository
	feeLogs       repo.FeeLogRepository
	users         repo.UserRepository
	profiles      repo.FishermanProfileRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                 { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository         { return r.orderItems }
func (r *txReposGorm) Carts() repo.CartRepository                   { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository           { return r.cartItems }
func (r *txReposGorm) Fish() repo.FishRepository                    { return r.fish }
func (r *txReposGorm) Payments() repo.PaymentRepository             { return r.payments }
func (r *txReposGorm) Verifications() repo.VerificationRepository   { return r.verifications }
func (r *txReposGorm) Deliveries() repo.DeliveryRepository          { return r.deliveries }
func (r *txReposGorm) FishLogs() repo.FishLogRepository             { return r.fishLogs }
func (r *txReposGorm) DeliveryLogs() repo.DeliveryLogRepository     { return r.deliveryLogs }
func (r *txReposGorm) Notifications() repo.NotificationRepository   { return r.notifications }
func (r *txReposGorm) FeeLogs() repo.FeeLogRepository               { return r.feeLogs }
func (r *txReposGorm) Users() repo.UserRepository                   { return r.users }
func (r *txReposGorm) Profiles() repo.FishermanProfileRepository    { return r.profiles }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			carts:         NewCartGormRepository(tx),
			cartItems:     NewCartItemGormRepository(tx),
			fish:          NewFishGormRepository(tx),
			payments:      NewPaymentGormRepository(tx),
			verifications: NewVerificationGormRepository(tx),
			deliveries:    NewDeliveryGormRepository(tx),
			fishLogs:      NewFishLogGormRepository(tx),
			deliveryLogs:  NewDeliveryLogGormRepository(tx),
			notifications: NewNotificationGormRepository(tx),
			feeLogs:       NewFeeLogGormRepository(tx),
			users:         NewUserGormRepository(tx),
			profiles:      NewFishermanProfileGormRepository(tx),
		}
		return fn(r)
	})
}
