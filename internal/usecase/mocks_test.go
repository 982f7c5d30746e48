package usecase_test

import (
	"context"
	"strings"
	"testing"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
	"samaka/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
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

func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository                 { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *TxReposMock) Fish() repo.FishRepository                  { return r.fish }
func (r *TxReposMock) Payments() repo.PaymentRepository           { return r.payments }
func (r *TxReposMock) Verifications() repo.VerificationRepository { return r.verifications }
func (r *TxReposMock) Deliveries() repo.DeliveryRepository        { return r.deliveries }
func (r *TxReposMock) FishLogs() repo.FishLogRepository           { return r.fishLogs }
func (r *TxReposMock) DeliveryLogs() repo.DeliveryLogRepository   { return r.deliveryLogs }
func (r *TxReposMock) Notifications() repo.NotificationRepository { return r.notifications }
func (r *TxReposMock) FeeLogs() repo.FeeLogRepository             { return r.feeLogs }
func (r *TxReposMock) Users() repo.UserRepository                 { return r.users }
func (r *TxReposMock) Profiles() repo.FishermanProfileRepository  { return r.profiles }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID, items)
	created, _ := args.Get(0).([]model.OrderItem)
	return created, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.OrderItem, error) {
	args := m.Called(ctx, itemID)
	it, _ := args.Get(0).(model.OrderItem)
	return it, args.Error(1)
}

func (m *OrderItemRepoMock) FindForFisherman(ctx context.Context, itemID int64, orderNumber string, fishermanID int64) (model.OrderItem, error) {
	args := m.Called(ctx, itemID, orderNumber, fishermanID)
	it, _ := args.Get(0).(model.OrderItem)
	return it, args.Error(1)
}

func (m *OrderItemRepoMock) UpdateFulfillmentStatus(ctx context.Context, itemID int64, status model.FulfillmentStatus) error {
	args := m.Called(ctx, itemID, status)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndFish(ctx context.Context, cartID int64, fishID int64, weightKg decimal.Decimal, unitPriceSnapshot decimal.Decimal) error {
	args := m.Called(ctx, cartID, fishID, weightKg, unitPriceSnapshot)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateWeight(ctx context.Context, cartItemID int64, weightKg decimal.Decimal) error {
	args := m.Called(ctx, cartItemID, weightKg)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type FishRepoMock struct{ mock.Mock }

func (m *FishRepoMock) FindByID(ctx context.Context, id int64) (model.Fish, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(model.Fish)
	return f, args.Error(1)
}

func (m *FishRepoMock) ReduceStock(ctx context.Context, fishID int64, weightKg decimal.Decimal) (bool, error) {
	args := m.Called(ctx, fishID, weightKg)
	return args.Bool(0), args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, txn model.PaymentTransaction) (int64, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PaymentTransaction, error) {
	args := m.Called(ctx, checkoutRequestID)
	txn, _ := args.Get(0).(model.PaymentTransaction)
	return txn, args.Error(1)
}

func (m *PaymentRepoMock) UpdateResult(ctx context.Context, txnID int64, status model.PaymentStatus, resultCode int, resultDesc string, receiptNumber string) error {
	args := m.Called(ctx, txnID, status, resultCode, resultDesc, receiptNumber)
	return args.Error(0)
}

func (m *PaymentRepoMock) CountByOrderAndStatus(ctx context.Context, orderID int64, status model.PaymentStatus) (int64, error) {
	args := m.Called(ctx, orderID, status)
	return args.Get(0).(int64), args.Error(1)
}

type VerificationRepoMock struct{ mock.Mock }

func (m *VerificationRepoMock) Create(ctx context.Context, txn model.PhoneVerificationTransaction) (int64, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *VerificationRepoMock) FindByCheckoutRequestIDForUpdate(ctx context.Context, checkoutRequestID string) (model.PhoneVerificationTransaction, error) {
	args := m.Called(ctx, checkoutRequestID)
	txn, _ := args.Get(0).(model.PhoneVerificationTransaction)
	return txn, args.Error(1)
}

func (m *VerificationRepoMock) UpdateResult(ctx context.Context, txnID int64, status model.VerificationStatus, resultCode int, resultDesc string, receiptNumber string) error {
	args := m.Called(ctx, txnID, status, resultCode, resultDesc, receiptNumber)
	return args.Error(0)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Upsert(ctx context.Context, orderID int64, fishermanID int64, status model.DeliveryStatus, updatedByID int64) (model.Delivery, error) {
	args := m.Called(ctx, orderID, fishermanID, status, updatedByID)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Update(ctx context.Context, d model.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type FishLogRepoMock struct{ mock.Mock }

func (m *FishLogRepoMock) Create(ctx context.Context, log model.FishTransactionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *FishLogRepoMock) ListByFishID(ctx context.Context, fishID int64, limit int) ([]model.FishTransactionLog, error) {
	args := m.Called(ctx, fishID, limit)
	logs, _ := args.Get(0).([]model.FishTransactionLog)
	return logs, args.Error(1)
}

type DeliveryLogRepoMock struct{ mock.Mock }

func (m *DeliveryLogRepoMock) Create(ctx context.Context, log model.DeliveryAuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *DeliveryLogRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.DeliveryAuditLog, error) {
	args := m.Called(ctx, orderID)
	logs, _ := args.Get(0).([]model.DeliveryAuditLog)
	return logs, args.Error(1)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) GetOrCreate(ctx context.Context, n model.SellerNotification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationRepoMock) ListByFisherman(ctx context.Context, fishermanID int64, limit int) ([]model.SellerNotification, error) {
	args := m.Called(ctx, fishermanID, limit)
	items, _ := args.Get(0).([]model.SellerNotification)
	return items, args.Error(1)
}

func (m *NotificationRepoMock) CountUnread(ctx context.Context, fishermanID int64) (int64, error) {
	args := m.Called(ctx, fishermanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, notificationID int64, fishermanID int64) error {
	args := m.Called(ctx, notificationID, fishermanID)
	return args.Error(0)
}

type FeeLogRepoMock struct{ mock.Mock }

func (m *FeeLogRepoMock) GetOrCreate(ctx context.Context, log model.PlatformFeeLog) (bool, error) {
	args := m.Called(ctx, log)
	return args.Bool(0), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) SetPhoneVerified(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.FishermanProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.FishermanProfile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) Update(ctx context.Context, p model.FishermanProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type PickupPointRepoMock struct{ mock.Mock }

func (m *PickupPointRepoMock) FindByID(ctx context.Context, id int64) (model.PickupPoint, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.PickupPoint)
	return p, args.Error(1)
}

func (m *PickupPointRepoMock) List(ctx context.Context) ([]model.PickupPoint, error) {
	args := m.Called(ctx)
	points, _ := args.Get(0).([]model.PickupPoint)
	return points, args.Error(1)
}

// =====================
// Gateway / generator mocks
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) InitiateCharge(ctx context.Context, req usecase.ChargeRequest) (usecase.ChargeResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(usecase.ChargeResponse)
	return resp, args.Error(1)
}

type fixedOrderNo struct{ number string }

func (g fixedOrderNo) NewOrderNumber() string { return g.number }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
