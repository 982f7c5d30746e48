package usecase

import (
	"context"
	"net/http"

	"samaka/internal/domain/model"
	repo "samaka/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartItemOutput struct {
	ID         int64  `json:"id"`
	FishID     int64  `json:"fish_id"`
	WeightKg   string `json:"weight_kg"`
	PricePerKg string `json:"price_per_kg"`
	LineTotal  string `json:"line_total"`
}

type CartOutput struct {
	CartID int64            `json:"cart_id"`
	Items  []CartItemOutput `json:"items"`
	Total  string           `json:"total"`
}

type AddCartItemInput struct {
	FishID   int64  `json:"fish_id"`
	WeightKg string `json:"weight_kg"`
}

// GetCart はACTIVEカートを返す（無ければ作る）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toCartOutput(cart, items)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// AddItem はカートへ明細を追加する。同じ魚は重量を上書きする。
// 要求重量は残量まで切り詰める。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.FishID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid fish_id")
	}

	weight, err := decimal.NewFromString(in.WeightKg)
	if err != nil || !weight.IsPositive() {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid weight_kg")
	}
	weight = weight.Round(2)

	var out CartOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		fish, err := r.Fish().FindByID(ctx, in.FishID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "fish not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !fish.IsAvailable() {
			return NewHTTPError(http.StatusBadRequest, "fish not available")
		}

		//残量より多くは入れられない
		if weight.GreaterThan(fish.AvailableWeight) {
			weight = fish.AvailableWeight
		}

		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.CartItems().UpsertByCartAndFish(ctx, cart.ID, fish.ID, weight, fish.PricePerKg); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toCartOutput(cart, items)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// UpdateItemWeight は明細の重量を変更する。
func (u *CartUsecase) UpdateItemWeight(ctx context.Context, userID int64, cartItemID int64, weightRaw string) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	weight, err := decimal.NewFromString(weightRaw)
	if err != nil || !weight.IsPositive() {
		return NewHTTPError(http.StatusBadRequest, "invalid weight_kg")
	}
	weight = weight.Round(2)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		item, err := r.CartItems().FindByID(ctx, cartItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		fish, err := r.Fish().FindByID(ctx, item.FishID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "fish no longer available")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if weight.GreaterThan(fish.AvailableWeight) {
			weight = fish.AvailableWeight
		}
		if !weight.IsPositive() {
			return NewHTTPError(http.StatusBadRequest, "fish not available")
		}

		if err := r.CartItems().UpdateWeight(ctx, cartItemID, weight); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// RemoveItem は明細を削除する。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func toCartOutput(cart model.Cart, items []model.CartItem) CartOutput {
	outItems := make([]CartItemOutput, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		line := LineTotal(it.WeightKg, it.UnitPriceSnapshot)
		total = total.Add(line)
		outItems = append(outItems, CartItemOutput{
			ID:         it.ID,
			FishID:     it.FishID,
			WeightKg:   it.WeightKg.StringFixed(2),
			PricePerKg: it.UnitPriceSnapshot.StringFixed(2),
			LineTotal:  line.StringFixed(2),
		})
	}
	return CartOutput{
		CartID: cart.ID,
		Items:  outItems,
		Total:  total.StringFixed(2),
	}
}
