package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
)

type DeliveryUsecase struct {
	tx repo.TransactionManager
}

func NewDeliveryUsecase(tx repo.TransactionManager) *DeliveryUsecase {
	return &DeliveryUsecase{tx: tx}
}

// Actor は操作者（配送担当か管理者）
type Actor struct {
	UserID int64
	Role   model.Role
}

type UpdateDeliveryStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type DeliveryOutput struct {
	OrderNumber    string     `json:"order_number"`
	Status         string     `json:"status"`
	ActualDelivery *time.Time `json:"actual_delivery,omitempty"`
	Notes          string     `json:"notes"`
}

type TrackingEventOutput struct {
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Notes          string    `json:"notes"`
	At             time.Time `json:"at"`
}

type TrackingOutput struct {
	Delivery DeliveryOutput        `json:"delivery"`
	History  []TrackingEventOutput `json:"history"`
}

// UpdateDeliveryStatus は配送担当（または管理者）がステータスを進める。
// DELIVERED/FAILEDは終端で、以後の変更は拒否する。
func (u *DeliveryUsecase) UpdateDeliveryStatus(ctx context.Context, actor Actor, orderNumber string, in UpdateDeliveryStatusInput) (DeliveryOutput, error) {
	if actor.UserID <= 0 {
		return DeliveryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if actor.Role != model.RoleDelivery && actor.Role != model.RoleAdmin {
		return DeliveryOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	status := model.DeliveryStatus(in.Status)
	switch status {
	case model.DeliveryStatusInTransit, model.DeliveryStatusDelivered, model.DeliveryStatusFailed:
	default:
		return DeliveryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.transition(ctx, actor.UserID, orderNumber, status, in.Notes, nil)
}

// ConfirmDelivery は購入者が自分の注文の受け取りを確定する。
func (u *DeliveryUsecase) ConfirmDelivery(ctx context.Context, customerID int64, orderNumber string) (DeliveryOutput, error) {
	if customerID <= 0 {
		return DeliveryOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.transition(ctx, customerID, orderNumber, model.DeliveryStatusDelivered,
		"confirmed by customer", &customerID)
}

// Track は配送状況と監査履歴を返す。購入者本人のみ。
func (u *DeliveryUsecase) Track(ctx context.Context, customerID int64, orderNumber string) (TrackingOutput, error) {
	if customerID <= 0 {
		return TrackingOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out TrackingOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByNumber(ctx, orderNumber)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if order.CustomerID != customerID {
			//他人の注文は「存在しない扱い」
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		d, err := r.Deliveries().FindByOrderID(ctx, order.ID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "no delivery yet")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		logs, err := r.DeliveryLogs().ListByOrderID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		history := make([]TrackingEventOutput, 0, len(logs))
		for _, l := range logs {
			history = append(history, TrackingEventOutput{
				PreviousStatus: string(l.PreviousStatus),
				NewStatus:      string(l.NewStatus),
				Notes:          l.Notes,
				At:             l.CreatedAt,
			})
		}

		out = TrackingOutput{
			Delivery: DeliveryOutput{
				OrderNumber:    order.OrderNumber,
				Status:         string(d.Status),
				ActualDelivery: d.ActualDelivery,
				Notes:          d.DeliveryNotes,
			},
			History: history,
		}
		return nil
	})

	if err != nil {
		return TrackingOutput{}, err
	}
	return out, nil
}

// 遷移の実体。mustBeCustomerが指定されたら注文の所有チェックを行う。
func (u *DeliveryUsecase) transition(ctx context.Context, actorID int64, orderNumber string, next model.DeliveryStatus, notes string, mustBeCustomer *int64) (DeliveryOutput, error) {
	var out DeliveryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByNumber(ctx, orderNumber)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if mustBeCustomer != nil && order.CustomerID != *mustBeCustomer {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		d, err := r.Deliveries().FindByOrderID(ctx, order.ID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "no delivery yet")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//終端からは動かせない
		if d.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "delivery already finalized")
		}

		prev := d.Status
		d.Status = next
		d.UpdatedByID = &actorID
		if strings.TrimSpace(notes) != "" {
			d.DeliveryNotes = strings.TrimSpace(notes)
		}

		if next == model.DeliveryStatusDelivered {
			now := time.Now()
			d.ActualDelivery = &now

			//注文も完了へ
			finalOrder := model.OrderStatusDelivered
			if order.FulfillmentMethod == model.FulfillmentPickup {
				finalOrder = model.OrderStatusPickedUp
			}
			if err := r.Orders().UpdateStatus(ctx, order.ID, finalOrder); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Deliveries().Update(ctx, d); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		log := model.DeliveryAuditLog{
			DeliveryID:     d.ID,
			OrderID:        order.ID,
			UpdatedByID:    actorID,
			PreviousStatus: prev,
			NewStatus:      next,
			Notes:          strings.TrimSpace(notes),
		}
		if err := r.DeliveryLogs().Create(ctx, log); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = DeliveryOutput{
			OrderNumber:    order.OrderNumber,
			Status:         string(next),
			ActualDelivery: d.ActualDelivery,
			Notes:          d.DeliveryNotes,
		}
		return nil
	})

	if err != nil {
		return DeliveryOutput{}, err
	}
	return out, nil
}
