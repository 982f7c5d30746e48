package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"samaka/internal/domain/model"
	"samaka/internal/mpesa"
	repo "samaka/internal/repository"
)

// CallbackOutcome はゲートウェイへ返す確認応答の材料。
type CallbackOutcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ReconcileUsecase struct {
	tx repo.TransactionManager
}

func NewReconcileUsecase(tx repo.TransactionManager) *ReconcileUsecase {
	return &ReconcileUsecase{tx: tx}
}

// HandleCallback は決済ゲートウェイのコールバックを突き合わせる。
// CheckoutRequestIDでまず注文決済を探し、無ければ電話番号確認の
// 名前空間へフォールバックする。処理全体が1トランザクションで、
// 行ロックにより同一IDへの並行コールバックは直列化される。
func (u *ReconcileUsecase) HandleCallback(ctx context.Context, body []byte) (CallbackOutcome, error) {
	cb, err := mpesa.ParseCallback(body)
	if err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusBadRequest, "invalid callback payload")
	}

	var outcome CallbackOutcome

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		txn, err := r.Payments().FindByCheckoutRequestIDForUpdate(ctx, cb.CheckoutRequestID)
		if err == nil {
			out, perr := u.reconcilePayment(ctx, r, txn, cb)
			if perr != nil {
				return perr
			}
			outcome = out
			return nil
		}
		if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//電話番号確認へフォールバック
		vtxn, err := r.Verifications().FindByCheckoutRequestIDForUpdate(ctx, cb.CheckoutRequestID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "unknown checkout request")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, verr := u.reconcileVerification(ctx, r, vtxn, cb)
		if verr != nil {
			return verr
		}
		outcome = out
		return nil
	})

	if err != nil {
		return CallbackOutcome{}, err
	}
	return outcome, nil
}

// 注文決済1件を確定させる
func (u *ReconcileUsecase) reconcilePayment(ctx context.Context, r repo.TxRepos, txn model.PaymentTransaction, cb mpesa.CallbackResult) (CallbackOutcome, error) {

	//確定済みへの再送は no-op（コールバックは重複する）
	if txn.Status == model.PaymentStatusCompleted {
		return CallbackOutcome{Status: "ok", Message: "already processed"}, nil
	}

	//失敗コード
	if cb.ResultCode != 0 {
		if err := r.Payments().UpdateResult(ctx, txn.ID,
			model.PaymentStatusFailed, cb.ResultCode, cb.ResultDesc, cb.MpesaReceiptNumber); err != nil {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文全体を失敗にし、予約を解放した記録を残す
		if err := r.Orders().UpdateStatus(ctx, txn.OrderID, model.OrderStatusFailed); err != nil && err != repo.ErrNotFound {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		item, err := r.OrderItems().FindByID(ctx, txn.OrderItemID)
		if err != nil && err != repo.ErrNotFound {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err == nil {
			log := model.FishTransactionLog{
				FishID:       item.FishID,
				Action:       model.FishLogActionStockReleased,
				ActorUserID:  txn.BuyerID,
				WeightChange: item.WeightKg,
				Notes:        fmt.Sprintf("payment failed: %s", cb.ResultDesc),
			}
			if err := r.FishLogs().Create(ctx, log); err != nil {
				return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return CallbackOutcome{Status: "failed", Message: "payment failed"}, nil
	}

	//金額検証。ゲートウェイにはKES整数（切り捨て）で送っているので
	//どちらかに一致すればよい。ズレた決済は絶対に成立させない。
	if cb.Amount != nil && !cb.Amount.Equal(txn.Amount) && !cb.Amount.Equal(txn.Amount.Truncate(0)) {
		if err := r.Payments().UpdateResult(ctx, txn.ID,
			model.PaymentStatusFailed, cb.ResultCode,
			fmt.Sprintf("amount mismatch: expected %s got %s", txn.Amount, cb.Amount),
			cb.MpesaReceiptNumber); err != nil {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return CallbackOutcome{}, NewHTTPError(http.StatusBadRequest, "amount mismatch")
	}

	//決済確定
	if err := r.Payments().UpdateResult(ctx, txn.ID,
		model.PaymentStatusCompleted, cb.ResultCode, cb.ResultDesc, cb.MpesaReceiptNumber); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := r.OrderItems().FindByID(ctx, txn.OrderItemID)
	if err == repo.ErrNotFound {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "order item missing")
	}
	if err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := r.OrderItems().UpdateFulfillmentStatus(ctx, item.ID, model.FulfillmentStatusPaid); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//入金の監査記録。在庫の増減とは独立に必ず残す。
	log := model.FishTransactionLog{
		FishID:       item.FishID,
		Action:       model.FishLogActionPaymentReceived,
		ActorUserID:  txn.BuyerID,
		WeightChange: item.WeightKg.Neg(),
		Notes:        fmt.Sprintf("receipt %s", cb.MpesaReceiptNumber),
	}
	if err := r.FishLogs().Create(ctx, log); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//漁師への通知と手数料台帳。取引キーでget-or-createなので重複しない。
	buyerName := "a customer"
	if buyer, err := r.Users().FindByID(ctx, txn.BuyerID); err == nil {
		buyerName = buyer.Username
	}

	notification := model.SellerNotification{
		FishermanID:          txn.FishermanID,
		BuyerID:              txn.BuyerID,
		OrderID:              txn.OrderID,
		PaymentTransactionID: txn.ID,
		FishItem:             item.FishName,
		WeightKg:             item.WeightKg,
		TotalAmount:          txn.Amount,
		NetEarnings:          txn.NetPayout,
		ReceiptNumber:        cb.MpesaReceiptNumber,
		Message: fmt.Sprintf("%s bought %skg of %s. You earned KES %s after fees.",
			buyerName, item.WeightKg, item.FishName, txn.NetPayout.StringFixed(2)),
	}
	if _, err := r.Notifications().GetOrCreate(ctx, notification); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	feeLog := model.PlatformFeeLog{
		OrderID:              txn.OrderID,
		PaymentTransactionID: txn.ID,
		FishermanID:          txn.FishermanID,
		GrossAmount:          txn.Amount,
		FeeAmount:            txn.PlatformFee,
		NetAmount:            txn.NetPayout,
		LoggedAt:             time.Now(),
	}
	if _, err := r.FeeLogs().GetOrCreate(ctx, feeLog); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//注文全体の決済状況を数え直す
	pending, err := r.Payments().CountByOrderAndStatus(ctx, txn.OrderID, model.PaymentStatusPending)
	if err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	failed, err := r.Payments().CountByOrderAndStatus(ctx, txn.OrderID, model.PaymentStatusFailed)
	if err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order, err := r.Orders().FindByID(ctx, txn.OrderID)
	if err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if pending > 0 || failed > 0 {
		//一部だけ確定した注文。PAIDの目印を付け、全明細の確定までは進めない。
		if order.Status == model.OrderStatusPending {
			if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusPaid); err != nil {
				return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return CallbackOutcome{Status: "ok", Message: "payment recorded"}, nil
	}

	//全決済確定。受け渡しフェーズへ。
	nextStatus := model.OrderStatusDeliveryInProgress
	deliveryStatus := model.DeliveryStatusDeliveryInProgress
	if order.FulfillmentMethod == model.FulfillmentPickup {
		nextStatus = model.OrderStatusReadyForPickup
		deliveryStatus = model.DeliveryStatusReadyForPickup
	}

	//在庫の控除と遷移は全決済確定の一度きり。再送や並行確定では通らない。
	if !order.Status.IsPostPayment() {
		items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if _, err := r.Fish().ReduceStock(ctx, it.FishID, it.WeightKg); err != nil {
				return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, order.ID, nextStatus); err != nil {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if _, err := r.Deliveries().Upsert(ctx, order.ID, txn.FishermanID, deliveryStatus, txn.BuyerID); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CallbackOutcome{Status: "ok", Message: "order fully paid"}, nil
}

// 電話番号確認の課金を確定させる
func (u *ReconcileUsecase) reconcileVerification(ctx context.Context, r repo.TxRepos, txn model.PhoneVerificationTransaction, cb mpesa.CallbackResult) (CallbackOutcome, error) {

	if txn.Status == model.VerificationStatusCompleted {
		return CallbackOutcome{Status: "ok", Message: "already processed"}, nil
	}

	if cb.ResultCode != 0 {
		if err := r.Verifications().UpdateResult(ctx, txn.ID,
			model.VerificationStatusFailed, cb.ResultCode, cb.ResultDesc, cb.MpesaReceiptNumber); err != nil {
			return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return CallbackOutcome{Status: "failed", Message: "verification failed"}, nil
	}

	if err := r.Verifications().UpdateResult(ctx, txn.ID,
		model.VerificationStatusCompleted, cb.ResultCode, cb.ResultDesc, cb.MpesaReceiptNumber); err != nil {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := r.Users().SetPhoneVerified(ctx, txn.UserID); err != nil && err != repo.ErrNotFound {
		return CallbackOutcome{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CallbackOutcome{Status: "ok", Message: "phone verified"}, nil
}
