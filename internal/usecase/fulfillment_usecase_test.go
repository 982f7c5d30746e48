package usecase_test

import (
	"context"
	"testing"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
	"samaka/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fulfillmentMocks struct {
	tx           *TxManagerMock
	orders       *OrderRepoMock
	orderItems   *OrderItemRepoMock
	deliveries   *DeliveryRepoMock
	deliveryLogs *DeliveryLogRepoMock
}

func newFulfillmentMocks() fulfillmentMocks {
	m := fulfillmentMocks{
		tx:           new(TxManagerMock),
		orders:       new(OrderRepoMock),
		orderItems:   new(OrderItemRepoMock),
		deliveries:   new(DeliveryRepoMock),
		deliveryLogs: new(DeliveryLogRepoMock),
	}
	m.tx.Repos = &TxReposMock{
		orders:       m.orders,
		orderItems:   m.orderItems,
		deliveries:   m.deliveries,
		deliveryLogs: m.deliveryLogs,
	}
	m.tx.On("WithinTx", mock.Anything).Return(nil)
	return m
}

func TestUpdateItemStatus_InvalidStatus(t *testing.T) {
	m := newFulfillmentMocks()
	uc := usecase.NewFulfillmentUsecase(m.tx)

	_, err := uc.UpdateItemStatus(context.Background(), 9, "ORD-1", 5,
		usecase.UpdateItemStatusInput{Status: "SHIPPED"})

	assertErrContains(t, err, "invalid status")
}

func TestUpdateItemStatus_NotOwnItem(t *testing.T) {
	m := newFulfillmentMocks()

	m.orderItems.On("FindForFisherman", mock.Anything, int64(5), "ORD-1", int64(9)).
		Return(model.OrderItem{}, repo.ErrNotFound)

	uc := usecase.NewFulfillmentUsecase(m.tx)
	_, err := uc.UpdateItemStatus(context.Background(), 9, "ORD-1", 5,
		usecase.UpdateItemStatusInput{Status: "READY"})

	assertErrContains(t, err, "not found")
}

func TestUpdateItemStatus_OrderNotPaidYet(t *testing.T) {
	m := newFulfillmentMocks()

	m.orderItems.On("FindForFisherman", mock.Anything, int64(5), "ORD-1", int64(9)).
		Return(model.OrderItem{ID: 5, OrderID: 3, FishermanID: 9}, nil)
	m.orders.On("FindByID", mock.Anything, int64(3)).Return(model.Order{
		ID: 3, Status: model.OrderStatusPending,
	}, nil)

	uc := usecase.NewFulfillmentUsecase(m.tx)
	_, err := uc.UpdateItemStatus(context.Background(), 9, "ORD-1", 5,
		usecase.UpdateItemStatusInput{Status: "READY"})

	assertErrContains(t, err, "order is not paid yet")
	m.orderItems.AssertNotCalled(t, "UpdateFulfillmentStatus", mock.Anything, mock.Anything, mock.Anything)
}

// 他の明細がまだなら明細だけ更新して注文は動かさない
func TestUpdateItemStatus_OtherItemsStillPending(t *testing.T) {
	m := newFulfillmentMocks()

	m.orderItems.On("FindForFisherman", mock.Anything, int64(5), "ORD-1", int64(9)).
		Return(model.OrderItem{ID: 5, OrderID: 3, FishermanID: 9}, nil)
	m.orders.On("FindByID", mock.Anything, int64(3)).Return(model.Order{
		ID: 3, Status: model.OrderStatusDeliveryInProgress,
		FulfillmentMethod: model.FulfillmentDelivery,
	}, nil)
	m.orderItems.On("UpdateFulfillmentStatus", mock.Anything, int64(5), model.FulfillmentStatusReady).Return(nil)
	m.orderItems.On("ListByOrderID", mock.Anything, int64(3)).Return([]model.OrderItem{
		{ID: 5, OrderID: 3, FulfillmentStatus: model.FulfillmentStatusPaid},
		{ID: 6, OrderID: 3, FulfillmentStatus: model.FulfillmentStatusPaid},
	}, nil)

	uc := usecase.NewFulfillmentUsecase(m.tx)
	out, err := uc.UpdateItemStatus(context.Background(), 9, "ORD-1", 5,
		usecase.UpdateItemStatusInput{Status: "READY"})

	assert.NoError(t, err)
	assert.Equal(t, "READY", out.FulfillmentStatus)

	m.deliveries.AssertNotCalled(t, "Upsert",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 最後の明細がREADYになった時点で注文と配送レコードが進む。
// 直前に更新した明細の状態はDBの再読込ではなく今回の値で判定する。
func TestUpdateItemStatus_AllReady_AdvancesOrder(t *testing.T) {
	m := newFulfillmentMocks()

	m.orderItems.On("FindForFisherman", mock.Anything, int64(5), "ORD-1", int64(9)).
		Return(model.OrderItem{ID: 5, OrderID: 3, FishermanID: 9}, nil)
	m.orders.On("FindByID", mock.Anything, int64(3)).Return(model.Order{
		ID: 3, Status: model.OrderStatusFullyPaid,
		FulfillmentMethod: model.FulfillmentPickup,
	}, nil)
	m.orderItems.On("UpdateFulfillmentStatus", mock.Anything, int64(5), model.FulfillmentStatusReady).Return(nil)
	m.orderItems.On("ListByOrderID", mock.Anything, int64(3)).Return([]model.OrderItem{
		{ID: 5, OrderID: 3, FulfillmentStatus: model.FulfillmentStatusPaid},
		{ID: 6, OrderID: 3, FulfillmentStatus: model.FulfillmentStatusReady},
	}, nil)

	m.orders.On("UpdateStatus", mock.Anything, int64(3), model.OrderStatusReadyForPickup).Return(nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).
		Return(model.Delivery{}, repo.ErrNotFound)
	m.deliveries.On("Upsert", mock.Anything, int64(3), int64(9),
		model.DeliveryStatusReadyForPickup, int64(9)).Return(model.Delivery{ID: 1, OrderID: 3}, nil)
	m.deliveryLogs.On("Create", mock.Anything, mock.MatchedBy(func(log model.DeliveryAuditLog) bool {
		return log.PreviousStatus == model.DeliveryStatusPending &&
			log.NewStatus == model.DeliveryStatusReadyForPickup &&
			log.UpdatedByID == 9
	})).Return(nil)

	uc := usecase.NewFulfillmentUsecase(m.tx)
	out, err := uc.UpdateItemStatus(context.Background(), 9, "ORD-1", 5,
		usecase.UpdateItemStatusInput{Status: "READY", Notes: "packed in ice"})

	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusReadyForPickup), out.OrderStatus)

	m.orders.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.deliveryLogs.AssertExpectations(t)
}
