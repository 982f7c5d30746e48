package usecase_test

import (
	"context"
	"testing"
	"time"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
	"samaka/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type deliveryMocks struct {
	tx           *TxManagerMock
	orders       *OrderRepoMock
	deliveries   *DeliveryRepoMock
	deliveryLogs *DeliveryLogRepoMock
}

func newDeliveryMocks() deliveryMocks {
	m := deliveryMocks{
		tx:           new(TxManagerMock),
		orders:       new(OrderRepoMock),
		deliveries:   new(DeliveryRepoMock),
		deliveryLogs: new(DeliveryLogRepoMock),
	}
	m.tx.Repos = &TxReposMock{
		orders:       m.orders,
		deliveries:   m.deliveries,
		deliveryLogs: m.deliveryLogs,
	}
	m.tx.On("WithinTx", mock.Anything).Return(nil)
	return m
}

func courierActor() usecase.Actor {
	return usecase.Actor{UserID: 20, Role: model.RoleDelivery}
}

func TestUpdateDeliveryStatus_RoleGuard(t *testing.T) {
	m := newDeliveryMocks()
	uc := usecase.NewDeliveryUsecase(m.tx)

	_, err := uc.UpdateDeliveryStatus(context.Background(),
		usecase.Actor{UserID: 5, Role: model.RoleCustomer}, "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "IN_TRANSIT"})

	assertErrContains(t, err, "forbidden")
}

func TestUpdateDeliveryStatus_InvalidStatus(t *testing.T) {
	m := newDeliveryMocks()
	uc := usecase.NewDeliveryUsecase(m.tx)

	_, err := uc.UpdateDeliveryStatus(context.Background(), courierActor(), "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "TELEPORTED"})

	assertErrContains(t, err, "invalid status")
}

func TestUpdateDeliveryStatus_InTransit(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
		FulfillmentMethod: model.FulfillmentDelivery,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusDeliveryInProgress,
	}, nil)
	m.deliveries.On("Update", mock.Anything, mock.MatchedBy(func(d model.Delivery) bool {
		return d.Status == model.DeliveryStatusInTransit && d.ActualDelivery == nil
	})).Return(nil)
	m.deliveryLogs.On("Create", mock.Anything, mock.MatchedBy(func(log model.DeliveryAuditLog) bool {
		return log.PreviousStatus == model.DeliveryStatusDeliveryInProgress &&
			log.NewStatus == model.DeliveryStatusInTransit &&
			log.UpdatedByID == 20
	})).Return(nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	out, err := uc.UpdateDeliveryStatus(context.Background(), courierActor(), "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "IN_TRANSIT", Notes: "left the depot"})

	assert.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", out.Status)

	m.deliveries.AssertExpectations(t)
	m.deliveryLogs.AssertExpectations(t)
	m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// DELIVEREDで受取時刻が打たれ、注文も完了する
func TestUpdateDeliveryStatus_Delivered_CompletesOrder(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
		FulfillmentMethod: model.FulfillmentDelivery,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusInTransit,
	}, nil)
	m.orders.On("UpdateStatus", mock.Anything, int64(3), model.OrderStatusDelivered).Return(nil)
	m.deliveries.On("Update", mock.Anything, mock.MatchedBy(func(d model.Delivery) bool {
		return d.Status == model.DeliveryStatusDelivered && d.ActualDelivery != nil
	})).Return(nil)
	m.deliveryLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	out, err := uc.UpdateDeliveryStatus(context.Background(), courierActor(), "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "DELIVERED"})

	assert.NoError(t, err)
	assert.Equal(t, "DELIVERED", out.Status)
	assert.NotNil(t, out.ActualDelivery)

	m.orders.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
}

func TestUpdateDeliveryStatus_PickupOrder_EndsAsPickedUp(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
		FulfillmentMethod: model.FulfillmentPickup,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusReadyForPickup,
	}, nil)
	m.orders.On("UpdateStatus", mock.Anything, int64(3), model.OrderStatusPickedUp).Return(nil)
	m.deliveries.On("Update", mock.Anything, mock.Anything).Return(nil)
	m.deliveryLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	_, err := uc.UpdateDeliveryStatus(context.Background(), courierActor(), "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "DELIVERED"})

	assert.NoError(t, err)
	m.orders.AssertExpectations(t)
}

func TestUpdateDeliveryStatus_TerminalStateRejected(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusDelivered,
	}, nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	_, err := uc.UpdateDeliveryStatus(context.Background(), courierActor(), "ORD-1",
		usecase.UpdateDeliveryStatusInput{Status: "FAILED"})

	assertErrContains(t, err, "delivery already finalized")
	m.deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmDelivery_OwnerOnly(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
	}, nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	_, err := uc.ConfirmDelivery(context.Background(), 99, "ORD-1")

	//他人の注文は存在しない扱い
	assertErrContains(t, err, "not found")
}

func TestConfirmDelivery_MarksDelivered(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
		FulfillmentMethod: model.FulfillmentDelivery,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusInTransit,
	}, nil)
	m.orders.On("UpdateStatus", mock.Anything, int64(3), model.OrderStatusDelivered).Return(nil)
	m.deliveries.On("Update", mock.Anything, mock.Anything).Return(nil)
	m.deliveryLogs.On("Create", mock.Anything, mock.MatchedBy(func(log model.DeliveryAuditLog) bool {
		return log.Notes == "confirmed by customer" && log.UpdatedByID == 2
	})).Return(nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	out, err := uc.ConfirmDelivery(context.Background(), 2, "ORD-1")

	assert.NoError(t, err)
	assert.Equal(t, "DELIVERED", out.Status)
	m.deliveryLogs.AssertExpectations(t)
}

func TestTrack_ReturnsDeliveryAndHistory(t *testing.T) {
	m := newDeliveryMocks()

	now := time.Now()
	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).Return(model.Delivery{
		ID: 1, OrderID: 3, Status: model.DeliveryStatusInTransit, DeliveryNotes: "on the way",
	}, nil)
	m.deliveryLogs.On("ListByOrderID", mock.Anything, int64(3)).Return([]model.DeliveryAuditLog{
		{
			DeliveryID: 1, OrderID: 3,
			PreviousStatus: model.DeliveryStatusDeliveryInProgress,
			NewStatus:      model.DeliveryStatusInTransit,
			CreatedAt:      now,
		},
	}, nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	out, err := uc.Track(context.Background(), 2, "ORD-1")

	assert.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", out.Delivery.Status)
	assert.Equal(t, "on the way", out.Delivery.Notes)
	if assert.Len(t, out.History, 1) {
		assert.Equal(t, "DELIVERY_IN_PROGRESS", out.History[0].PreviousStatus)
		assert.Equal(t, "IN_TRANSIT", out.History[0].NewStatus)
	}
}

func TestTrack_StrangerGetsNotFound(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
	}, nil)

	uc := usecase.NewDeliveryUsecase(m.tx)
	_, err := uc.Track(context.Background(), 99, "ORD-1")

	assertErrContains(t, err, "not found")
}

func TestTrack_NoDeliveryYet(t *testing.T) {
	m := newDeliveryMocks()

	m.orders.On("FindByNumber", mock.Anything, "ORD-1").Return(model.Order{
		ID: 3, OrderNumber: "ORD-1", CustomerID: 2,
	}, nil)
	m.deliveries.On("FindByOrderID", mock.Anything, int64(3)).
		Return(model.Delivery{}, repo.ErrNotFound)

	uc := usecase.NewDeliveryUsecase(m.tx)
	_, err := uc.Track(context.Background(), 2, "ORD-1")

	assertErrContains(t, err, "no delivery yet")
}
