package usecase

import (
	"context"
	"net/http"
	"strings"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
)

type FulfillmentUsecase struct {
	tx repo.TransactionManager
}

func NewFulfillmentUsecase(tx repo.TransactionManager) *FulfillmentUsecase {
	return &FulfillmentUsecase{tx: tx}
}

type UpdateItemStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ItemStatusOutput struct {
	OrderItemID       int64  `json:"order_item_id"`
	FulfillmentStatus string `json:"fulfillment_status"`
	OrderStatus       string `json:"order_status"`
}

// UpdateItemStatus は漁師が自分の明細の準備状況を更新する。
// 全明細がREADY/DELIVEREDになったら注文と配送レコードを先に進める。
func (u *FulfillmentUsecase) UpdateItemStatus(ctx context.Context, fishermanID int64, orderNumber string, itemID int64, in UpdateItemStatusInput) (ItemStatusOutput, error) {
	if fishermanID <= 0 {
		return ItemStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 || strings.TrimSpace(orderNumber) == "" {
		return ItemStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	status := model.FulfillmentStatus(in.Status)
	switch status {
	case model.FulfillmentStatusPending, model.FulfillmentStatusReady, model.FulfillmentStatusDelivered:
	default:
		return ItemStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out ItemStatusOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//所有チェック込みで明細を引く
		item, err := r.OrderItems().FindForFisherman(ctx, itemID, orderNumber, fishermanID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order, err := r.Orders().FindByID(ctx, item.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//決済確定前の注文はいじれない
		if !order.Status.IsPostPayment() {
			return NewHTTPError(http.StatusConflict, "order is not paid yet")
		}

		if err := r.OrderItems().UpdateFulfillmentStatus(ctx, item.ID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ItemStatusOutput{
			OrderItemID:       item.ID,
			FulfillmentStatus: string(status),
			OrderStatus:       string(order.Status),
		}

		//全明細がそろったか
		items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		allReady := true
		for _, it := range items {
			s := it.FulfillmentStatus
			if it.ID == item.ID {
				s = status
			}
			if s != model.FulfillmentStatusReady && s != model.FulfillmentStatusDelivered {
				allReady = false
				break
			}
		}
		if !allReady {
			return nil
		}

		nextOrder := model.OrderStatusDeliveryInProgress
		nextDelivery := model.DeliveryStatusDeliveryInProgress
		if order.FulfillmentMethod == model.FulfillmentPickup {
			nextOrder = model.OrderStatusReadyForPickup
			nextDelivery = model.DeliveryStatusReadyForPickup
		}

		if order.Status != nextOrder {
			if err := r.Orders().UpdateStatus(ctx, order.ID, nextOrder); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		prevStatus := model.DeliveryStatusPending
		if existing, err := r.Deliveries().FindByOrderID(ctx, order.ID); err == nil {
			prevStatus = existing.Status
		}

		d, err := r.Deliveries().Upsert(ctx, order.ID, fishermanID, nextDelivery, fishermanID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		log := model.DeliveryAuditLog{
			DeliveryID:     d.ID,
			OrderID:        order.ID,
			UpdatedByID:    fishermanID,
			PreviousStatus: prevStatus,
			NewStatus:      nextDelivery,
			Notes:          strings.TrimSpace(in.Notes),
		}
		if err := r.DeliveryLogs().Create(ctx, log); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out.OrderStatus = string(nextOrder)
		return nil
	})

	if err != nil {
		return ItemStatusOutput{}, err
	}
	return out, nil
}
