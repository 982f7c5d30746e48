package usecase

import (
	"context"
	"net/http"
	"strings"

	"samaka/internal/domain/model"
	"samaka/internal/mpesa"
	repo "samaka/internal/repository"

	"github.com/shopspring/decimal"
)

// 電話番号確認の課金額（KES）
var verificationAmount = decimal.NewFromInt(1)

type VerificationUsecase struct {
	tx      repo.TransactionManager
	gateway PaymentGateway
}

func NewVerificationUsecase(tx repo.TransactionManager, gateway PaymentGateway) *VerificationUsecase {
	return &VerificationUsecase{tx: tx, gateway: gateway}
}

type VerifyPhoneOutput struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	Message           string `json:"message"`
}

// RequestPhoneVerification は漁師の番号へ1.00の確認課金を発行する。
// コールバックが成功で戻ればphone_verifiedが立つ。
func (u *VerificationUsecase) RequestPhoneVerification(ctx context.Context, fishermanID int64) (VerifyPhoneOutput, error) {
	if fishermanID <= 0 {
		return VerifyPhoneOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var phone string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, fishermanID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		raw := strings.TrimSpace(user.Phone)
		if profile, err := r.Profiles().FindByUserID(ctx, fishermanID); err == nil {
			if p := strings.TrimSpace(profile.MpesaPhone); p != "" {
				raw = p
			} else if p := strings.TrimSpace(profile.Phone); p != "" {
				raw = p
			}
		}
		if raw == "" {
			return NewHTTPError(http.StatusBadRequest, "no phone number on file")
		}

		normalized, err := mpesa.NormalizePhone(raw)
		if err != nil {
			return NewHTTPError(http.StatusBadRequest, "invalid phone number")
		}
		phone = normalized
		return nil
	})
	if err != nil {
		return VerifyPhoneOutput{}, err
	}

	resp, err := u.gateway.InitiateCharge(ctx, ChargeRequest{
		PhoneNumber:      phone,
		Amount:           verificationAmount,
		AccountReference: "PHONE-VERIFY",
		Description:      "phone verification",
		PaymentType:      model.MpesaPaymentSTKPush,
	})
	if err != nil {
		return VerifyPhoneOutput{}, NewHTTPError(http.StatusBadGateway, "payment request failed")
	}

	txn := model.PhoneVerificationTransaction{
		UserID:            fishermanID,
		PhoneNumber:       phone,
		Amount:            verificationAmount,
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Status:            model.VerificationStatusPending,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Verifications().Create(ctx, txn); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return VerifyPhoneOutput{}, err
	}

	return VerifyPhoneOutput{
		CheckoutRequestID: resp.CheckoutRequestID,
		Message:           "confirm the prompt on your phone",
	}, nil
}
