package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"samaka/internal/domain/model"
	"samaka/internal/mpesa"
	repo "samaka/internal/repository"

	"github.com/shopspring/decimal"
)

// ChargeRequest は買い手に対する1回のSTK課金指示。
type ChargeRequest struct {
	PhoneNumber      string
	Amount           decimal.Decimal
	AccountReference string
	Description      string

	// 入金先（漁師）の決済設定
	PaymentType       model.MpesaPaymentType
	ShortcodeOverride string
}

type ChargeResponse struct {
	MerchantRequestID string
	CheckoutRequestID string
}

// PaymentGateway は決済ゲートウェイの約束。実体はmpesa.Client。
type PaymentGateway interface {
	InitiateCharge(ctx context.Context, req ChargeRequest) (ChargeResponse, error)
}

// OrderNumberGenerator は注文番号の採番。
type OrderNumberGenerator interface {
	NewOrderNumber() string
}

type CheckoutUsecase struct {
	tx      repo.TransactionManager
	gateway PaymentGateway
	orderNo OrderNumberGenerator
	pickups repo.PickupPointRepository
	feeRate decimal.Decimal
}

// DI
func NewCheckoutUsecase(
	tx repo.TransactionManager,
	gateway PaymentGateway,
	orderNo OrderNumberGenerator,
	pickups repo.PickupPointRepository,
	feeRate decimal.Decimal,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:      tx,
		gateway: gateway,
		orderNo: orderNo,
		pickups: pickups,
		feeRate: feeRate,
	}
}

type PlaceOrderInput struct {
	FulfillmentMethod string `json:"fulfillment_method"`
	PickupPointID     *int64 `json:"pickup_point_id"`
	DeliveryLocation  string `json:"delivery_location"`
	DeliveryAddress   string `json:"delivery_address"`
	DeliveryNotes     string `json:"delivery_notes"`
	PhoneNumber       string `json:"phone_number"`
}

type PlaceOrderItemOutput struct {
	OrderItemID int64  `json:"order_item_id"`
	FishName    string `json:"fish_name"`
	WeightKg    string `json:"weight_kg"`
	TotalPrice  string `json:"total_price"`
	Charge      string `json:"charge_status"`
}

type PlaceOrderOutput struct {
	OrderID     int64                  `json:"order_id"`
	OrderNumber string                 `json:"order_number"`
	Status      string                 `json:"status"`
	TotalAmount string                 `json:"total_amount"`
	PlatformFee string                 `json:"platform_fee"`
	Items       []PlaceOrderItemOutput `json:"items"`
}

// 課金フェーズで使う準備済みの明細情報
type chargePlan struct {
	item              model.OrderItem
	paymentType       model.MpesaPaymentType
	shortcodeOverride string
	accountReference  string
}

// PlaceOrder はカートを注文に確定し、明細ごとにSTKプッシュを発行する。
// 注文作成とカート消込は1トランザクション、課金発行はその外で逐次実行する。
// 発行は失敗しても全明細まで続け、失敗した明細は合成IDのFAILED取引として残す。
// 1件でも失敗があれば最後に注文をFAILEDにする
// （発行済みの課金はそのまま生かす。コールバック側が突き合わせる）。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	phone, err := mpesa.NormalizePhone(in.PhoneNumber)
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid phone number")
	}

	method := model.FulfillmentMethod(in.FulfillmentMethod)
	switch method {
	case model.FulfillmentDelivery:
		if strings.TrimSpace(in.DeliveryLocation) == "" {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "delivery_location is required")
		}
	case model.FulfillmentPickup:
		if in.PickupPointID == nil || *in.PickupPointID <= 0 {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "pickup_point_id is required")
		}
		if _, err := u.pickups.FindByID(ctx, *in.PickupPointID); err != nil {
			if err == repo.ErrNotFound {
				return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "unknown pickup point")
			}
			return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	default:
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid fulfillment_method")
	}

	var (
		order model.Order
		plans []chargePlan
	)

	//注文確定はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		buyer, err := r.Users().FindByID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !buyer.EmailVerified {
			return NewHTTPError(http.StatusForbidden, "email not verified")
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		orderNumber := u.orderNo.NewOrderNumber()

		//明細を組み立てながら金額を積む
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		plans = plans[:0]
		total := decimal.Zero

		for _, ci := range cartItems {
			if !ci.WeightKg.IsPositive() || !ci.UnitPriceSnapshot.IsPositive() {
				return NewHTTPError(http.StatusBadRequest, "invalid cart item")
			}

			fish, err := r.Fish().FindByID(ctx, ci.FishID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "fish no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !fish.IsAvailable() {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("%s is no longer available", fish.Name))
			}
			if ci.WeightKg.GreaterThan(fish.AvailableWeight) {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("only %skg of %s left", fish.AvailableWeight, fish.Name))
			}

			//漁師が入金を受け取れる状態か
			plan, err := u.resolveChargePlan(ctx, r, fish.FishermanID)
			if err != nil {
				return err
			}

			lineTotal := LineTotal(ci.WeightKg, ci.UnitPriceSnapshot)
			fin := ComputeFinancials(lineTotal, u.feeRate)

			orderItems = append(orderItems, model.OrderItem{
				FishID:            fish.ID,
				FishermanID:       fish.FishermanID,
				FishName:          fish.Name,
				FishType:          fish.FishType,
				WeightKg:          ci.WeightKg,
				PricePerKg:        ci.UnitPriceSnapshot,
				TotalPrice:        fin.Gross,
				PlatformFee:       fin.Fee,
				FishermanNet:      fin.Net,
				FulfillmentStatus: model.FulfillmentStatusPending,
				CreatedAt:         now,
			})
			plans = append(plans, plan)

			total = total.Add(fin.Gross)
		}

		orderFin := ComputeFinancials(total, u.feeRate)

		//注文作成（金額は作成時に確定）
		o := model.Order{
			OrderNumber:       orderNumber,
			CustomerID:        userID,
			Status:            model.OrderStatusPending,
			TotalAmount:       orderFin.Gross,
			PlatformFee:       orderFin.Fee,
			FishermenNet:      orderFin.Net,
			FulfillmentMethod: method,
			PickupPointID:     in.PickupPointID,
			DeliveryLocation:  strings.TrimSpace(in.DeliveryLocation),
			DeliveryAddress:   strings.TrimSpace(in.DeliveryAddress),
			DeliveryNotes:     strings.TrimSpace(in.DeliveryNotes),
			CustomerPhone:     phone,
			CustomerEmail:     buyer.Email,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		orderID, err := r.Orders().Create(ctx, o)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.ID = orderID

		created, err := r.OrderItems().CreateBulk(ctx, orderID, orderItems)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//予約ログ（在庫はまだ減らさない。全決済確定時に減る）
		for _, it := range created {
			log := model.FishTransactionLog{
				FishID:       it.FishID,
				Action:       model.FishLogActionReserved,
				ActorUserID:  userID,
				WeightChange: it.WeightKg.Neg(),
				Notes:        fmt.Sprintf("reserved for order %s", orderNumber),
				CreatedAt:    now,
			}
			if err := r.FishLogs().Create(ctx, log); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//カートをCHECKED_OUTにして明細をクリア
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for i := range plans {
			plans[i].item = created[i]
		}
		order = o
		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}

	//課金フェーズ。明細ごとに買い手へSTKを発行する。
	out := PlaceOrderOutput{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		PlatformFee: order.PlatformFee.StringFixed(2),
	}

	anyFailed := false
	for _, plan := range plans {
		it := plan.item

		accountRef := plan.accountReference
		if accountRef == "" {
			accountRef = fmt.Sprintf("%s-%d", order.OrderNumber, it.ID)
		}

		resp, chargeErr := u.gateway.InitiateCharge(ctx, ChargeRequest{
			PhoneNumber:       phone,
			Amount:            it.TotalPrice,
			AccountReference:  accountRef,
			Description:       fmt.Sprintf("%s %skg", it.FishName, it.WeightKg),
			PaymentType:       plan.paymentType,
			ShortcodeOverride: plan.shortcodeOverride,
		})

		if chargeErr != nil {
			//発行失敗も明細ごとの取引記録として残し、残りの発行は続ける
			if err := u.recordFailedCharge(ctx, order, it, chargeErr); err != nil {
				return PlaceOrderOutput{}, err
			}
			anyFailed = true
			out.Items = append(out.Items, PlaceOrderItemOutput{
				OrderItemID: it.ID,
				FishName:    it.FishName,
				WeightKg:    it.WeightKg.StringFixed(2),
				TotalPrice:  it.TotalPrice.StringFixed(2),
				Charge:      "failed",
			})
			continue
		}

		txnID := resp.MerchantRequestID
		if txnID == "" {
			txnID = fmt.Sprintf("%s-%d", order.OrderNumber, it.ID)
		}

		txn := model.PaymentTransaction{
			OrderID:           order.ID,
			OrderItemID:       it.ID,
			BuyerID:           order.CustomerID,
			FishermanID:       it.FishermanID,
			TransactionID:     txnID,
			MerchantRequestID: resp.MerchantRequestID,
			CheckoutRequestID: resp.CheckoutRequestID,
			Amount:            it.TotalPrice,
			UnitPricePerKg:    it.PricePerKg,
			WeightKg:          it.WeightKg,
			PlatformFee:       it.PlatformFee,
			NetPayout:         it.FishermanNet,
			PhoneNumber:       phone,
			Status:            model.PaymentStatusPending,
		}

		err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			if _, err := r.Payments().Create(ctx, txn); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		})
		if err != nil {
			return PlaceOrderOutput{}, err
		}

		out.Items = append(out.Items, PlaceOrderItemOutput{
			OrderItemID: it.ID,
			FishName:    it.FishName,
			WeightKg:    it.WeightKg.StringFixed(2),
			TotalPrice:  it.TotalPrice.StringFixed(2),
			Charge:      "pending",
		})
	}

	if anyFailed {
		err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusFailed); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		})
		if err != nil {
			return PlaceOrderOutput{}, err
		}
		out.Status = string(model.OrderStatusFailed)
		return out, NewHTTPError(http.StatusBadGateway, "payment request failed")
	}

	return out, nil
}

// 漁師の入金先が使える状態かを確認し、課金指示の材料を返す。
// STK直受けで番号が未設定なら、連絡先番号から補完して保存する。
func (u *CheckoutUsecase) resolveChargePlan(ctx context.Context, r repo.TxRepos, fishermanID int64) (chargePlan, error) {
	profile, err := r.Profiles().FindByUserID(ctx, fishermanID)
	if err == repo.ErrNotFound {
		return chargePlan{}, NewHTTPError(http.StatusBadRequest, "seller cannot receive payments yet")
	}
	if err != nil {
		return chargePlan{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	plan := chargePlan{
		paymentType:      profile.MpesaPaymentType,
		accountReference: strings.TrimSpace(profile.MpesaAccountReference),
	}

	switch profile.MpesaPaymentType {
	case model.MpesaPaymentTill:
		if strings.TrimSpace(profile.MpesaTillNumber) == "" {
			return chargePlan{}, NewHTTPError(http.StatusBadRequest, "seller cannot receive payments yet")
		}
		plan.shortcodeOverride = strings.TrimSpace(profile.MpesaTillNumber)

	case model.MpesaPaymentPaybill:
		if strings.TrimSpace(profile.MpesaPaybillNumber) == "" {
			return chargePlan{}, NewHTTPError(http.StatusBadRequest, "seller cannot receive payments yet")
		}
		plan.shortcodeOverride = strings.TrimSpace(profile.MpesaPaybillNumber)

	default: // STK_PUSH
		mpesaPhone := strings.TrimSpace(profile.MpesaPhone)
		if mpesaPhone == "" {
			//連絡先番号から補完：profile.Phone → users.Phone
			fallback := strings.TrimSpace(profile.Phone)
			if fallback == "" {
				fisherman, err := r.Users().FindByID(ctx, fishermanID)
				if err == nil {
					fallback = strings.TrimSpace(fisherman.Phone)
				}
			}
			if fallback == "" {
				return chargePlan{}, NewHTTPError(http.StatusBadRequest, "seller cannot receive payments yet")
			}
			normalized, err := mpesa.NormalizePhone(fallback)
			if err != nil {
				return chargePlan{}, NewHTTPError(http.StatusBadRequest, "seller cannot receive payments yet")
			}
			profile.MpesaPhone = normalized
			profile.IsVerified = true
			if err := r.Profiles().Update(ctx, profile); err != nil {
				return chargePlan{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	return plan, nil
}

// 発行失敗した明細の記録。合成IDでFAILED取引を残す。
func (u *CheckoutUsecase) recordFailedCharge(ctx context.Context, order model.Order, it model.OrderItem, cause error) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		txn := model.PaymentTransaction{
			OrderID:        order.ID,
			OrderItemID:    it.ID,
			BuyerID:        order.CustomerID,
			FishermanID:    it.FishermanID,
			TransactionID:  fmt.Sprintf("FAILED-%s-%d", order.OrderNumber, it.ID),
			Amount:         it.TotalPrice,
			UnitPricePerKg: it.PricePerKg,
			WeightKg:       it.WeightKg,
			PlatformFee:    it.PlatformFee,
			NetPayout:      it.FishermanNet,
			PhoneNumber:    order.CustomerPhone,
			Status:         model.PaymentStatusFailed,
			ResultDesc:     cause.Error(),
		}
		if _, err := r.Payments().Create(ctx, txn); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
