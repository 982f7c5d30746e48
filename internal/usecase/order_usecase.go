package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	ID                int64  `json:"id"`
	FishName          string `json:"fish_name"`
	FishType          string `json:"fish_type"`
	WeightKg          string `json:"weight_kg"`
	PricePerKg        string `json:"price_per_kg"`
	TotalPrice        string `json:"total_price"`
	FulfillmentStatus string `json:"fulfillment_status"`
}

type OrderOutput struct {
	ID                int64             `json:"id"`
	OrderNumber       string            `json:"order_number"`
	Status            string            `json:"status"`
	TotalAmount       string            `json:"total_amount"`
	PlatformFee       string            `json:"platform_fee"`
	FulfillmentMethod string            `json:"fulfillment_method"`
	CreatedAt         time.Time         `json:"created_at"`
	Items             []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]OrderOutput, error) {
	if customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまず固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, customerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, customerID int64, orderNumber string) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNumber(ctx, orderNumber)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:                it.ID,
			FishName:          it.FishName,
			FishType:          it.FishType,
			WeightKg:          it.WeightKg.StringFixed(2),
			PricePerKg:        it.PricePerKg.StringFixed(2),
			TotalPrice:        it.TotalPrice.StringFixed(2),
			FulfillmentStatus: string(it.FulfillmentStatus),
		})
	}

	return OrderOutput{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		Status:            string(o.Status),
		TotalAmount:       o.TotalAmount.StringFixed(2),
		PlatformFee:       o.PlatformFee.StringFixed(2),
		FulfillmentMethod: string(o.FulfillmentMethod),
		CreatedAt:         o.CreatedAt,
		Items:             outItems,
	}
}
